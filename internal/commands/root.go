// internal/commands/root.go
package promptsql

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mwiater/promptsql/internal/appconfig"
	"github.com/mwiater/promptsql/internal/logging"
	"github.com/mwiater/promptsql/internal/providers"
	"github.com/mwiater/promptsql/internal/providers/httpapi"
	"github.com/mwiater/promptsql/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix namespaces the environment variables read by viper.
const envPrefix = "PROMPTSQL"

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
	dotenvLoaded  bool

	// newBackend builds the backend client for the loaded configuration.
	newBackend = func(cfg *appconfig.Config) providers.Backend { return httpapi.New(cfg) }
	// newCredentials opens the credential store for the loaded configuration.
	newCredentials = func(cfg *appconfig.Config) session.Credentials {
		return session.NewFileStore(cfg.CredentialPath())
	}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "promptsql",
	Short:        "promptsql turns plain-language questions into SQL results in your terminal",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := ensureConfigLoaded()
		if err != nil {
			return err
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		if loaded {
			cfg.ConfigPath = viper.ConfigFileUsed()
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.LogEvent("promptsql %s starting %q against %s", appVersion, cmd.CommandPath(), currentConfig.BaseURL())
		if dotenvLoaded {
			logging.LogEvent("environment loaded from .env")
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "log full response bodies")
	rootCmd.PersistentFlags().String("apiURL", appconfig.DefaultAPIURL, "base URL of the query service")
	rootCmd.PersistentFlags().Int("timeout", appconfig.DefaultTimeoutSeconds, "request timeout in seconds")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("credentialFile", "", "path to the saved session token")
	rootCmd.PersistentFlags().Int("historyCapacity", 0, "number of results kept per session (0 = default)")
	rootCmd.PersistentFlags().Int("maxVisiblePages", 0, "number of page controls shown at once (0 = default)")

	for _, name := range []string{"debug", "apiURL", "timeout", "logFile", "credentialFile", "historyCapacity", "maxVisiblePages"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// .env is optional; variables already set in the environment win.
	dotenvLoaded = godotenv.Load() == nil

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file and reports whether one was found.
// A missing file is not an error.
func ensureConfigLoaded() (bool, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load config: %w", err)
	}
	return true, nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
