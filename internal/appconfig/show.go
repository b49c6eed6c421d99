package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		cfg = &Config{}
	}

	fmt.Fprintf(out, "  API URL:          %s\n", cfg.BaseURL())
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Request Timeout:  %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Credential File:  %s\n", cfg.CredentialPath())
	fmt.Fprintf(out, "  History Capacity: %d\n", cfg.Capacity())
	fmt.Fprintf(out, "  Visible Pages:    %d\n", cfg.VisiblePages())
}
