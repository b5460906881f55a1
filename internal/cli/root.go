package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"oppdash/internal/app"
	"oppdash/pkg/config"
	"oppdash/pkg/logger"
	"oppdash/pkg/metrics"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
)

var ValidFormats = []string{"text", "json"}

// Builder assembles the application a command runs against
type Builder func(ctx context.Context, log *logger.Logger) (*app.App, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format   string
	LogLevel string
	build    Builder
}

// NewRootCommand creates the oppctl command tree wired from the environment.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(fromEnvironment)
}

// NewRootCommandWith uses build instead of the environment; tests inject a
// fixed application here.
func NewRootCommandWith(build Builder) *cobra.Command {
	opts := &RootOptions{build: build}

	cmd := &cobra.Command{
		Use:   "oppctl",
		Short: "oppctl - opportunity table from the command line",
		Long:  "List, filter, sort and export the per-product store opportunity table.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level, logs go to stderr")

	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

func fromEnvironment(ctx context.Context, log *logger.Logger) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// CLI runs get a private registry; nothing scrapes them
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	return app.Build(ctx, cfg, log, m)
}

// open builds the application with logs sent to the command's stderr
func (o *RootOptions) open(cmd *cobra.Command) (*app.App, error) {
	log := logger.NewWithOutput(o.LogLevel, cmd.ErrOrStderr())
	a, err := o.build(cmd.Context(), log)
	if err != nil {
		return nil, &ExitError{Code: ExitCommandError, Message: "failed to start", Err: err}
	}
	return a, nil
}

func (o *RootOptions) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if exitErr, ok := err.(*ExitError); ok {
			return exitErr.Code
		}
		return ExitFailure
	}
	return ExitSuccess
}
