package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/lumins/pkg/watch"
	"gitlab.com/tozd/go/errors"
)

// NewWatchCmd creates a new watch command
func NewWatchCmd(resolve Resolver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] SOURCE DESTINATION",
		Short: "Keep DESTINATION in sync while SOURCE changes",
		Long: `Watch runs one pass, then repeats it every time the source tree settles
after a change. It will:
1. Synchronize (or copy, with --copy) SOURCE into DESTINATION
2. Watch every directory under SOURCE, including new ones
3. Wait for the debounce period after the last change
4. Run the pass again, until interrupted`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx).With().Str("command", "watch").Logger()
			ctx = logger.WithContext(ctx)

			o, err := resolve(cmd, args)
			if err != nil {
				return err
			}

			w, err := watch.New(ctx, o.Source,
				watch.WithExclude(o.Options.Exclude...),
				watch.WithDebounce(o.Debounce),
			)
			if err != nil {
				return errors.Errorf("watching source: %w", err)
			}
			defer w.Close()

			if err := RunOnce(ctx, o); err != nil {
				return err
			}

			logger.Info().Str("source", o.Source).Dur("debounce", o.Debounce).Msg("watching for changes")
			return w.Run(ctx, func(ctx context.Context, changed []string) error {
				logger.Info().Int("changes", len(changed)).Msg("source changed")
				o.Status.Reset()
				if err := RunOnce(ctx, o); err != nil && ctx.Err() == nil {
					return err
				}
				return nil
			})
		},
	}

	return cmd
}
