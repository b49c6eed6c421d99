// internal/tui/view.go
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/promptsql/internal/controller"
	"github.com/mwiater/promptsql/internal/metrics"
	"github.com/mwiater/promptsql/internal/pagination"
	"github.com/mwiater/promptsql/internal/pipeline"
	"github.com/mwiater/promptsql/internal/util"
)

var (
	headerStyle      = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	labelStyle       = lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	emptyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	promptStyle      = lipgloss.NewStyle().Bold(true)
	statementStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	messageStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	clarifyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")).Padding(0, 1)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	pageStyle        = lipgloss.NewStyle().Padding(0, 1)
	currentPageStyle = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230"))
	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	focusPanelStyle  = panelStyle.BorderForeground(lipgloss.Color("205"))
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// NearLimitNotice is the warning shown when the next result will evict the oldest.
func NearLimitNotice(capacity int) string {
	return fmt.Sprintf("Max saved results reached (%d). Clear previous results, or your oldest result will be cleared for storage.", capacity)
}

// View renders the whole screen from the controller snapshot.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	v := m.ctrl.View()
	switch v.State {
	case controller.StateRedirected:
		var b strings.Builder
		if v.Message != "" {
			b.WriteString(messageStyle.Render(v.Message) + "\n")
		}
		b.WriteString("Not logged in. Run `promptsql login` to start a session.\n")
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	case controller.StateUnauthenticated, controller.StateHydrating:
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		return fmt.Sprintf("\n  %s Loading saved history... %ss\n", m.spinner.View(), timer)
	}

	var b strings.Builder
	b.WriteString(m.headerView(v) + "\n")

	if v.NearLimit {
		b.WriteString(noticeStyle.Width(max(m.width-2, 20)).Render(NearLimitNotice(m.config.Capacity())+" (esc to dismiss)") + "\n")
	}
	if v.Message != "" {
		style := messageStyle
		if v.Message == controller.MessageClarify {
			style = clarifyStyle
		}
		b.WriteString(style.Render(v.Message) + "\n")
	}

	if v.HasCurrent {
		b.WriteString(promptStyle.Render("Prompt: ") + v.Current.Query + "\n")
		if v.Current.GeneratedStatement != "" {
			sql := util.Wrap(v.Current.GeneratedStatement, max(m.width-10, 20))
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, promptStyle.Render("SQL:    "), statementStyle.Render(sql)) + "\n")
		}
	}

	results := m.viewport.View()
	panel := m.pipelineView(v.Steps)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, results, " ", panel) + "\n")

	b.WriteString(paginationView(v) + "\n")

	switch {
	case m.confirmClear:
		b.WriteString(clarifyStyle.Render(fmt.Sprintf("Clear all %d saved results? (y/n)", v.Total)))
	case v.Loading:
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		b.WriteString(m.spinner.View() + fmt.Sprintf(" Generating SQL... %ss", timer))
	default:
		b.WriteString(m.textArea.View())
	}

	if m.config.Debug && m.metrics != nil {
		if snap := m.metrics.Snapshot(); snap.TotalQueries > 0 {
			b.WriteString("\n" + FormatMetrics(snap))
		}
	}

	b.WriteString("\n" + helpStyle.Render(" enter submit • pgup/pgdown results • ctrl+d delete • ctrl+x clear all • tab pipeline • ctrl+c quit"))
	return b.String()
}

func (m *model) headerView(v controller.View) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("promptsql"),
		headerStyle.Render("API: "+m.config.BaseURL()),
		headerStyle.MarginLeft(1).Render(fmt.Sprintf("Saved: %d/%d", v.Total, m.config.Capacity())),
		renderStateBadge(v.State),
	)
}

// renderStateBadge renders the session state as a colored badge.
func renderStateBadge(state controller.State) string {
	color := lipgloss.Color("40")
	if state != controller.StateReady {
		color = lipgloss.Color("208")
	}
	return lipgloss.NewStyle().
		Background(color).
		Foreground(lipgloss.Color("0")).
		Padding(0, 1).
		MarginLeft(1).
		Render("Session: " + state.String())
}

// paginationView renders the page controls around the cursor.
func paginationView(v controller.View) string {
	if v.Total == 0 {
		return ""
	}
	parts := make([]string, 0, len(v.Pages)+2)
	parts = append(parts, helpStyle.Render("«"))
	for _, p := range v.Pages {
		parts = append(parts, renderPage(p))
	}
	parts = append(parts, helpStyle.Render("»"))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + helpStyle.Render(fmt.Sprintf("  %d of %d", v.Cursor+1, v.Total))
}

func renderPage(p pagination.Page) string {
	if p.Current {
		return currentPageStyle.Render(fmt.Sprint(p.Label))
	}
	return pageStyle.Render(fmt.Sprint(p.Label))
}

// pipelineView renders the executed statements as "LABEL - statement" lines.
func (m *model) pipelineView(steps []pipeline.Step) string {
	style := panelStyle
	if m.focus == focusPipeline {
		style = focusPanelStyle
	}
	// Border and padding take two columns each side.
	inner := pipelinePanelWidth - 4

	var b strings.Builder
	b.WriteString(promptStyle.Render("Pipeline") + "\n")
	if len(steps) == 0 {
		b.WriteString(emptyStyle.Render("No statements yet."))
	}
	for i, s := range steps {
		line := util.Truncate(StepLine(s), inner-2)
		if m.focus == focusPipeline && i == m.selectedStep {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		if i < len(steps)-1 {
			b.WriteString("\n")
		}
	}
	return style.Width(inner + 2).Render(b.String())
}

// FormatMetrics formats the session's query latency into a single line.
func FormatMetrics(s metrics.Snapshot) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	return style.Render(fmt.Sprintf(
		"  >>> [Last: %.1fs %s] [Mean: %.1fs | Min: %.1fs | Max: %.1fs] [Queries: %d]",
		s.Last.Seconds(),
		s.LastOutcome,
		s.Overall.Mean/1000,
		s.Overall.Min/1000,
		s.Overall.Max/1000,
		s.TotalQueries,
	))
}

// StepLine formats a pipeline step for display.
func StepLine(s pipeline.Step) string {
	label := s.Label()
	if label == "" {
		return "(no statement)"
	}
	return label + " - " + util.Collapse(s.Statement)
}
