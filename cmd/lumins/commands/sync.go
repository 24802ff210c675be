package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/lumins/cmd/lumins/opts"
	"github.com/walteh/lumins/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// Resolver builds the shared options once flags and arguments are parsed
type Resolver func(cmd *cobra.Command, args []string) (*opts.RootOpts, error)

// RunOnce executes one copy or synchronize pass and prints its summary.
// Per-entry failures are reported in the summary and do not fail the run.
func RunOnce(ctx context.Context, o *opts.RootOpts) error {
	op := operation.New(o.Source, o.Destination, o.Options)
	o.UserLogger.LogStart(op.Mode(), o.Source, o.Destination)

	if err := op.Execute(ctx); err != nil {
		return errors.Errorf("running %s: %w", op.Mode(), err)
	}

	o.UserLogger.LogSummary(o.Status.Summary(), o.Status.Failures())
	return nil
}

// NewSyncRunE returns the root command action
func NewSyncRunE(resolve Resolver) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		o, err := resolve(cmd, args)
		if err != nil {
			return err
		}
		return RunOnce(cmd.Context(), o)
	}
}
