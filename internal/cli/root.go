// Package cli implements the resumepdf command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"resume-builder/internal/app"
	"resume-builder/internal/config"
	"resume-builder/pkg/logger"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the command tree. The App is created before any
// subcommand runs and closed afterwards.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	var application *app.App

	root := &cobra.Command{
		Use:           "resumepdf",
		Short:         "Render resumes with templates and export them as PDF",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
			if err != nil {
				return err
			}
			application, err = app.New(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cmd.SetContext(app.WithApp(cmd.Context(), application))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if application != nil {
				return application.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newExportCommand(),
		newPreviewCommand(),
		newTemplatesCommand(),
		newImportCommand(),
		newHistoryCommand(),
		newServeCommand(),
		newMCPCommand(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

func appFrom(cmd *cobra.Command) *app.App {
	return app.FromContext(cmd.Context())
}
