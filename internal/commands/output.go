// internal/commands/output.go
package promptsql

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mwiater/promptsql/internal/appconfig"
	"github.com/mwiater/promptsql/internal/controller"
	"github.com/mwiater/promptsql/internal/providers"
)

var (
	successText = color.New(color.FgGreen).SprintFunc()
	failureText = color.New(color.FgRed).SprintFunc()
	warningText = color.New(color.FgYellow).SprintFunc()
	dimText     = color.New(color.Faint).SprintFunc()
)

func printSuccess(out io.Writer, format string, args ...any) {
	fmt.Fprintln(out, successText(fmt.Sprintf(format, args...)))
}

func printFailure(out io.Writer, format string, args ...any) {
	fmt.Fprintln(out, failureText(fmt.Sprintf(format, args...)))
}

func printWarning(out io.Writer, format string, args ...any) {
	fmt.Fprintln(out, warningText(fmt.Sprintf(format, args...)))
}

// loadedConfig returns the configuration loaded by the root command.
func loadedConfig() (*appconfig.Config, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration is not loaded")
	}
	return cfg, nil
}

// openSession bootstraps a controller from the saved credential. It returns
// controller.ErrRedirected when there is no usable session.
func openSession(ctx context.Context, cfg *appconfig.Config, queries providers.QueryProvider, hist providers.HistoryProvider) (*controller.Controller, error) {
	ctrl := controller.New(newCredentials(cfg), queries, hist, controller.Options{
		Capacity:   cfg.Capacity(),
		MaxVisible: cfg.VisiblePages(),
	})
	ctrl.Bootstrap(ctx)
	if ctrl.State() != controller.StateReady {
		if msg := ctrl.Message(); msg != "" {
			return nil, fmt.Errorf("%w (%s)", controller.ErrRedirected, msg)
		}
		return nil, controller.ErrRedirected
	}
	return ctrl, nil
}
