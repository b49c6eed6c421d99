// internal/commands/show.go
package promptsql

import (
	"github.com/k0kubun/pp"
	"github.com/mwiater/promptsql/internal/appconfig"
	"github.com/spf13/cobra"
)

var showConfigRaw bool

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
	Long:  `The 'show' command groups subcommands that display resources or information related to promptsql.`,
}

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config, .env file, environment and flags are merged properly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadedConfig()
		if err != nil {
			return err
		}
		if showConfigRaw {
			_, err := pp.Fprintln(cmd.OutOrStdout(), cfg)
			return err
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), cfg.ConfigPath, cfg)
		return nil
	},
}

func init() {
	showConfigCmd.Flags().BoolVar(&showConfigRaw, "raw", false, "pretty-print the raw configuration struct")
	showCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(showCmd)
}
