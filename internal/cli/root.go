// Package cli implements the objectives command line: cobra commands, huh
// forms for interactive entry and a bubbletea tree browser.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/objectives/internal/config"
	"github.com/alexanderramin/objectives/internal/service"
	"github.com/alexanderramin/objectives/internal/telemetry"
)

// App holds the services and process settings used by CLI commands.
type App struct {
	Objectives service.ObjectiveService
	Comments   service.CommentService
	Imports    service.ImportService
	Config     *config.Config
	Metrics    *telemetry.Metrics
	Logger     *slog.Logger

	// Bootstrap wires the fields above from the config file named by
	// --config. It runs once, before any subcommand, while Objectives is nil.
	Bootstrap func(ctx context.Context, configPath string) error

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "objectives" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	var (
		configPath string
		noColor    bool
	)

	root := &cobra.Command{
		Use:           "objectives",
		Short:         "Hierarchical objective tracker with date rollup and history",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			if app.Objectives != nil || app.Bootstrap == nil {
				return nil
			}
			return app.Bootstrap(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "Disable colored output (default $NO_COLOR)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $"+config.EnvConfig+")")

	root.AddCommand(
		newAddCmd(app),
		newShowCmd(app),
		newEditCmd(app),
		newStatusCmd(app),
		newRemoveCmd(app),
		newRollupCmd(app),
		newListCmd(app),
		newTreeCmd(app),
		newHistoryCmd(app),
		newCommentCmd(app),
		newImportCmd(app),
		newBrowseCmd(app),
		newServeCmd(app),
		newConfigCmd(app),
	)

	return root
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
