// internal/tui/tui.go
// Package tui provides the interactive terminal interface for promptsql.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/promptsql/internal/appconfig"
	"github.com/mwiater/promptsql/internal/controller"
	"github.com/mwiater/promptsql/internal/logging"
	"github.com/mwiater/promptsql/internal/metrics"
	"github.com/mwiater/promptsql/internal/providerfactory"
	"github.com/mwiater/promptsql/internal/providers"
	"github.com/mwiater/promptsql/internal/providers/httpapi"
	"github.com/mwiater/promptsql/internal/session"
)

// focus selects which panel receives navigation keys.
type focus int

const (
	// focusPrompt routes typing to the prompt input.
	focusPrompt focus = iota
	// focusPipeline routes up/down to the pipeline panel.
	focusPipeline
)

// pipelinePanelWidth is the fixed width of the pipeline panel.
const pipelinePanelWidth = 42

// model is the Bubble Tea model wrapping a session controller.
type model struct {
	ctx     context.Context
	config  *appconfig.Config
	ctrl    *controller.Controller
	queries providers.QueryProvider
	history providers.HistoryProvider
	metrics *metrics.Aggregator

	textArea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	focus            focus
	selectedStep     int
	confirmClear     bool
	width, height    int
	requestStartTime time.Time
}

// bootstrapMsg starts the session bootstrap from inside Update.
type bootstrapMsg struct{}

// historyMsg carries the result of the history fetch.
type historyMsg struct {
	records []providers.HistoryRecord
	err     error
}

// queryResultMsg carries the outcome of one submission.
type queryResultMsg struct {
	sub controller.Submission
	res providers.Result
	err error
}

// tickMsg refreshes the elapsed-time display while a request is in flight.
type tickMsg time.Time

// initialModel creates the model and its controller. The controller starts
// unauthenticated; Init schedules the bootstrap.
func initialModel(ctx context.Context, cfg *appconfig.Config, creds session.Credentials, queries providers.QueryProvider, hist providers.HistoryProvider) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Describe the data you want..."
	ta.Focus()
	ta.Prompt = "Ask: "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	ctrl := controller.New(creds, queries, hist, controller.Options{
		Capacity:   cfg.Capacity(),
		MaxVisible: cfg.VisiblePages(),
	})

	return &model{
		ctx:      ctx,
		config:   cfg,
		ctrl:     ctrl,
		queries:  queries,
		history:  hist,
		textArea: ta,
		viewport: viewport.New(80, 10),
		spinner:  s,
	}
}

// Init schedules the bootstrap and starts the cursor blink.
func (m *model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, func() tea.Msg { return bootstrapMsg{} })
}

// fetchHistoryCmd loads the saved history for token.
func fetchHistoryCmd(ctx context.Context, hist providers.HistoryProvider, token string) tea.Cmd {
	return func() tea.Msg {
		records, err := hist.History(ctx, token)
		return historyMsg{records: records, err: err}
	}
}

// submitCmd sends one accepted prompt to the query service.
func submitCmd(ctx context.Context, queries providers.QueryProvider, sub controller.Submission) tea.Cmd {
	return func() tea.Msg {
		res, err := queries.Query(ctx, sub.Prompt, sub.Token)
		return queryResultMsg{sub: sub, res: res, err: err}
	}
}

// tickCmd creates a Bubble Tea command that sends a tickMsg at a regular interval.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update applies every message to the controller on the program goroutine.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textArea.SetWidth(max(msg.Width-3, 10))
		m.viewport.Width = max(msg.Width-pipelinePanelWidth-2, 20)
		m.viewport.Height = max(msg.Height-10, 3)
		m.syncViewport()
		return m, nil

	case bootstrapMsg:
		token, ok := m.ctrl.BeginBootstrap()
		if !ok {
			if m.ctrl.State() == controller.StateRedirected {
				return m, tea.Quit
			}
			return m, nil
		}
		m.requestStartTime = time.Now()
		return m, tea.Batch(m.spinner.Tick, fetchHistoryCmd(m.ctx, m.history, token))

	case historyMsg:
		m.ctrl.ApplyHistory(msg.records, msg.err)
		m.syncViewport()
		if m.ctrl.State() == controller.StateRedirected {
			return m, tea.Quit
		}
		return m, nil

	case queryResultMsg:
		m.ctrl.ApplyResult(msg.sub, msg.res, msg.err)
		m.selectedStep = 0
		m.syncViewport()
		if m.ctrl.State() == controller.StateRedirected {
			return m, tea.Quit
		}
		m.textArea.Focus()
		return m, nil

	case tickMsg:
		if m.ctrl.Loading() {
			return m, tickCmd()
		}
		return m, nil

	case spinner.TickMsg:
		if m.ctrl.Loading() || m.ctrl.State() == controller.StateHydrating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if m.focus == focusPrompt {
		m.textArea, cmd = m.textArea.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// updateKey handles key presses. Controller mutations are ignored until the
// session is ready.
func (m *model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.confirmClear {
		m.confirmClear = false
		if msg.String() == "y" || msg.String() == "Y" {
			m.ctrl.ClearAll()
			m.syncViewport()
		}
		return m, nil
	}

	if m.ctrl.State() != controller.StateReady {
		return m, nil
	}

	switch msg.String() {
	case "pgup":
		m.ctrl.Prev()
		m.syncViewport()
		return m, nil
	case "pgdown":
		m.ctrl.Next()
		m.syncViewport()
		return m, nil
	case "home":
		m.ctrl.SetCursor(0)
		m.syncViewport()
		return m, nil
	case "end":
		m.ctrl.SetCursor(m.ctrl.View().Total - 1)
		m.syncViewport()
		return m, nil
	case "ctrl+d":
		m.ctrl.RemoveCurrent()
		m.syncViewport()
		return m, nil
	case "ctrl+x":
		if m.ctrl.View().Total > 0 {
			m.confirmClear = true
		}
		return m, nil
	case "esc":
		if m.ctrl.NearLimit() {
			m.ctrl.DismissNotice()
		} else {
			m.ctrl.ClearMessage()
		}
		return m, nil
	case "tab":
		if m.focus == focusPrompt {
			m.focus = focusPipeline
			m.textArea.Blur()
		} else {
			m.focus = focusPrompt
			m.textArea.Focus()
		}
		return m, nil
	}

	if m.focus == focusPipeline {
		m.updatePipeline(msg)
		return m, nil
	}

	if msg.String() == "enter" {
		sub, ok := m.ctrl.BeginSubmit(m.textArea.Value())
		if !ok {
			return m, nil
		}
		m.textArea.Reset()
		m.requestStartTime = time.Now()
		return m, tea.Batch(m.spinner.Tick, tickCmd(), submitCmd(m.ctx, m.queries, sub))
	}

	var cmd tea.Cmd
	m.textArea, cmd = m.textArea.Update(msg)
	return m, cmd
}

// updatePipeline moves the selection or the selected step.
func (m *model) updatePipeline(msg tea.KeyMsg) {
	n := len(m.ctrl.Steps())
	if n == 0 {
		return
	}
	m.selectedStep = min(max(m.selectedStep, 0), n-1)

	switch msg.String() {
	case "up", "k":
		m.selectedStep = max(m.selectedStep-1, 0)
	case "down", "j":
		m.selectedStep = min(m.selectedStep+1, n-1)
	case "shift+up", "K":
		if m.selectedStep > 0 && m.ctrl.MoveStep(m.selectedStep, m.selectedStep-1) == nil {
			m.selectedStep--
		}
	case "shift+down", "J":
		if m.selectedStep < n-1 && m.ctrl.MoveStep(m.selectedStep, m.selectedStep+1) == nil {
			m.selectedStep++
		}
	}
}

// syncViewport renders the current result into the viewport.
func (m *model) syncViewport() {
	v := m.ctrl.View()
	if !v.HasCurrent {
		m.viewport.SetContent(emptyStyle.Render("No results yet. Ask a question below."))
		return
	}
	content := ResultTable(v.Current.Payload.Rows)
	if chart := ChartBars(v.Current.Payload.ChartSeries, m.viewport.Width); chart != "" {
		content += "\n\n" + chart
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

// StartGUI runs the interactive TUI until the user quits. It returns
// controller.ErrRedirected when the session ended because the credential was
// missing or rejected.
func StartGUI(ctx context.Context, cfg *appconfig.Config, cancel context.CancelFunc) error {
	defer func() {
		logging.LogEvent("Cancelling all running requests...")
		cancel()
	}()

	if cfg == nil {
		return fmt.Errorf("failed to start: configuration is not loaded")
	}

	backend := httpapi.New(cfg)
	aggregator := metrics.NewAggregator()
	creds := session.NewFileStore(cfg.CredentialPath())
	queries := providerfactory.NewQueryProvider(backend, providerfactory.Options{Aggregator: aggregator})
	m := initialModel(ctx, cfg, creds, queries, backend)
	m.metrics = aggregator

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	if m.ctrl.State() == controller.StateRedirected {
		if msg := m.ctrl.Message(); msg != "" {
			return fmt.Errorf("%w (%s)", controller.ErrRedirected, msg)
		}
		return controller.ErrRedirected
	}
	return nil
}
