// internal/commands/history.go
package promptsql

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mwiater/promptsql/internal/pipeline"
	"github.com/mwiater/promptsql/internal/tui"
	"github.com/spf13/cobra"
)

var historyIndex int

// historyCmd implements 'history', which lists the results a new session would start with.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved results",
	Long: `The 'history' command loads the saved results for the current session, most
recent first. Use --index to print one result in full.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadedConfig()
		if err != nil {
			return err
		}
		backend := newBackend(cfg)
		ctrl, err := openSession(cmd.Context(), cfg, backend, backend)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		entries := ctrl.Entries()
		if len(entries) == 0 {
			printWarning(out, "No saved results.")
			return nil
		}

		if historyIndex > 0 {
			if historyIndex > len(entries) {
				return fmt.Errorf("index %d out of range: %d saved results", historyIndex, len(entries))
			}
			entry := entries[historyIndex-1]
			fmt.Fprintf(out, "%s %s\n", dimText("Prompt:"), entry.Query)
			fmt.Fprintf(out, "%s %s\n\n", dimText("SQL:   "), entry.GeneratedStatement)
			fmt.Fprintln(out, tui.ResultTable(entry.Payload.Rows))
			return nil
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("#", "Saved", "Step", "Prompt", "Rows")
		for i, e := range entries {
			saved := ""
			if !e.CreatedAt.IsZero() {
				saved = e.CreatedAt.Local().Format("2006-01-02 15:04")
			}
			t.Row(fmt.Sprint(i+1), saved, pipeline.Label(e.GeneratedStatement), e.Query, fmt.Sprint(len(e.Payload.Rows)))
		}
		fmt.Fprintln(out, t.Render())
		if ctrl.View().Total >= cfg.Capacity()-1 {
			printWarning(out, tui.NearLimitNotice(cfg.Capacity()))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyIndex, "index", "i", 0, "print the result at this 1-based position")
	rootCmd.AddCommand(historyCmd)
}
