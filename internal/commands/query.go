// internal/commands/query.go
package promptsql

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mwiater/promptsql/internal/controller"
	"github.com/mwiater/promptsql/internal/history"
	"github.com/mwiater/promptsql/internal/logging"
	"github.com/mwiater/promptsql/internal/metrics"
	"github.com/mwiater/promptsql/internal/providerfactory"
	"github.com/mwiater/promptsql/internal/tui"
	"github.com/spf13/cobra"
)

var (
	queryRetries int
	queryJSON    bool
	queryChart   bool
)

// queryOutput is the --json form of a query result.
type queryOutput struct {
	Prompt    string           `json:"prompt"`
	Statement string           `json:"sql"`
	Table     []history.Record `json:"table"`
	Chart     []history.Record `json:"chart"`
	Message   string           `json:"message,omitempty"`
}

// queryCmd implements 'query', which runs a single prompt without the TUI.
var queryCmd = &cobra.Command{
	Use:   "query <prompt>",
	Short: "Run one prompt and print its result",
	Long: `The 'query' command sends one prompt to the query service using the saved
session, then prints the generated SQL and the result table.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadedConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		backend := newBackend(cfg)

		aggregator := metrics.NewAggregator()
		queries := providerfactory.NewQueryProvider(backend, providerfactory.Options{
			Retries:    queryRetries,
			Aggregator: aggregator,
		})
		defer func() {
			if snap := aggregator.Snapshot(); snap.TotalQueries > 0 {
				logging.LogEvent("query finished: outcome=%s elapsed=%s", snap.LastOutcome, snap.Last)
			}
		}()

		ctrl, err := openSession(ctx, cfg, queries, backend)
		if err != nil {
			return err
		}

		prompt := strings.Join(args, " ")
		before := ctrl.View()
		if !ctrl.Submit(ctx, prompt) {
			return errors.New("prompt is empty")
		}
		v := ctrl.View()
		out := cmd.OutOrStdout()

		if v.State == controller.StateRedirected {
			return fmt.Errorf("%w (%s)", controller.ErrRedirected, v.Message)
		}
		if !v.HasCurrent || (before.HasCurrent && v.Current.ID == before.Current.ID) {
			return errors.New(v.Message)
		}

		entry := v.Current
		if queryJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(queryOutput{
				Prompt:    entry.Query,
				Statement: entry.GeneratedStatement,
				Table:     entry.Payload.Rows,
				Chart:     entry.Payload.ChartSeries,
				Message:   v.Message,
			})
		}

		if v.NearLimit {
			printWarning(out, tui.NearLimitNotice(cfg.Capacity()))
		}
		if entry.GeneratedStatement != "" {
			fmt.Fprintf(out, "%s %s\n\n", dimText("SQL:"), entry.GeneratedStatement)
		}
		fmt.Fprintln(out, tui.ResultTable(entry.Payload.Rows))
		if queryChart {
			if chart := tui.ChartBars(entry.Payload.ChartSeries, 80); chart != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, chart)
			}
		}
		if v.Message != "" {
			printWarning(out, v.Message)
		}
		if cfg.Debug {
			fmt.Fprintln(out, tui.FormatMetrics(aggregator.Snapshot()))
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVar(&queryRetries, "retries", 0, "retry transient failures (network, 502/503) this many times")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the result as JSON")
	queryCmd.Flags().BoolVar(&queryChart, "chart", false, "draw the chart series below the table")
	rootCmd.AddCommand(queryCmd)
}
