// internal/commands/run.go
package promptsql

import (
	"context"

	"github.com/mwiater/promptsql/internal/tui"
	"github.com/spf13/cobra"
)

// startGUI is a function alias to tui.StartGUI for starting the interactive session.
var startGUI = tui.StartGUI

// runCmd represents the 'run' command, which starts the interactive session.
var runCmd = &cobra.Command{
	Use:     "run",
	Aliases: []string{"chat"},
	Short:   "Start an interactive session",
	Long: `The 'run' command opens the terminal UI: type a question, browse the saved
results page by page and reorder the pipeline of generated statements.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadedConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		return startGUI(ctx, cfg, cancel)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
