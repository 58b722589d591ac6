// Package cli implements collabctl, the operator tool for migrations, keys and
// deciding contributor requests without going through the HTTP API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"gitcollab/internal/bootstrap"
	"gitcollab/internal/config"
)

// Loader returns the configuration a command runs against
type Loader func() (*config.Config, error)

type options struct {
	jsonOutput bool
	load       Loader
	logger     *slog.Logger
}

// NewRootCommand builds the collabctl command tree
func NewRootCommand(load Loader, logger *slog.Logger) *cobra.Command {
	if load == nil {
		load = config.LoadEnv
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts := &options{load: load, logger: logger}

	root := &cobra.Command{
		Use:           "collabctl",
		Short:         "Operate a gitcollab deployment",
		Long:          `collabctl applies migrations, generates encryption keys and manages contributor requests directly against the database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output as JSON")

	root.AddCommand(
		newMigrateCommand(opts),
		newKeygenCommand(),
		newRequestsCommand(opts),
		newDecideCommand(opts),
		newProjectsCommand(opts),
	)
	return root
}

func (o *options) openApp(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, o.logger)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
