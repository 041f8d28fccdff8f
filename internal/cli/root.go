// Package cli implements the command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/five82/partpick/internal/app"
	"github.com/five82/partpick/internal/catalog"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	prefsPath  string
	driverID   int
	debug      bool
	output     string
}

// NewRootCommand builds the partpick command tree. Running it without a
// subcommand starts the TUI.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "partpick",
		Short: "partpick - search an InvenTree parts catalog",
		Long: `partpick searches an InvenTree server for parts and shows their stock
location, parameters and image.

Without a subcommand it opens the interactive picker.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateOutput(flags.output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
				DriverID:   flags.driverID,
				Debug:      flags.debug,
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to config file (default ~/.config/partpick/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "Path to preferences file (default ~/.config/partpick/prefs.toml)")
	pf.IntVar(&flags.driverID, "driver-id", 0, "Driver id tagged on events (overrides driver_id in config)")
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	pf.StringVarP(&flags.output, "output", "o", "table", "Output format: table, json or yaml")

	root.AddCommand(
		newSearchCommand(flags),
		newShowCommand(flags),
		newInfoCommand(flags),
		newCapabilitiesCommand(flags),
		newVersionCommand(flags),
	)
	return root
}

// Execute runs the CLI with the given context.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func validateOutput(format string) error {
	switch strings.ToLower(format) {
	case "table", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// bootstrap builds a runtime whose driver statuses are written to stderr.
// Status bar messages only show up with --debug.
func bootstrap(cmd *cobra.Command, flags *globalFlags) (*app.Runtime, error) {
	stderr := cmd.ErrOrStderr()
	notifier := catalog.NotifierFunc(func(_ context.Context, ev catalog.Event) {
		status, ok := ev.(catalog.StatusEvent)
		if !ok {
			return
		}
		if status.Severity == catalog.SeverityStatusBar && !flags.debug {
			return
		}
		writeStatus(stderr, status)
	})

	return app.Bootstrap(app.Options{
		ConfigPath: flags.configPath,
		PrefsPath:  flags.prefsPath,
		DriverID:   flags.driverID,
		Debug:      flags.debug,
		Notifier:   notifier,
	})
}

// connect bootstraps and logs in. The caller closes the runtime.
func connect(cmd *cobra.Command, flags *globalFlags) (*app.Runtime, error) {
	rt, err := bootstrap(cmd, flags)
	if err != nil {
		return nil, err
	}
	if err := rt.Connect(cmd.Context()); err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("connect to %s: %w", rt.Driver.Session().ServerURL, err)
	}
	return rt, nil
}

var severityColors = map[catalog.Severity]*color.Color{
	catalog.SeverityStatusBar:   color.New(color.FgGreen),
	catalog.SeverityErrorDialog: color.New(color.FgRed, color.Bold),
	catalog.SeverityInfoDialog:  color.New(color.FgCyan),
	catalog.SeverityConsole:     color.New(color.Faint),
}

// writeStatus prints one status line. Colors are dropped when stdout is not
// a terminal.
func writeStatus(w io.Writer, status catalog.StatusEvent) {
	msg := strings.ReplaceAll(status.Message, "\n", " ")
	if status.Context != "" {
		msg += " (" + status.Context + ")"
	}
	label := status.Severity.String() + ":"
	if c, ok := severityColors[status.Severity]; ok {
		label = c.Sprint(label)
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", label, msg)
}
