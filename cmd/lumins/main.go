// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/lumins/cmd/lumins/commands"
	"github.com/walteh/lumins/cmd/lumins/opts"
	"github.com/walteh/lumins/pkg/status"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		status.NewUserLogger(ctx).LogValidation(false, "Command failed", err)
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Each call gets its own flag values.
func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	resolve := func(cmd *cobra.Command, args []string) (*opts.RootOpts, error) {
		return newRootOpts(cmd.Context(), cmd, f, args)
	}

	rootCmd := &cobra.Command{
		Use:   "lumins [flags] SOURCE DESTINATION",
		Short: "Parallel local directory synchronization",
		Long: `lumins mirrors SOURCE into DESTINATION using every CPU.

By default it synchronizes: new and changed entries are copied and entries
missing from SOURCE are deleted from DESTINATION. With --copy it only copies.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := setupLogging(cmd.ErrOrStderr(), f.debug)
			cmd.SetContext(logger.WithContext(cmd.Context()))
			zerolog.Ctx(cmd.Context()).Debug().Strs("args", args).Msg("starting lumins")
		},
		RunE: commands.NewSyncRunE(resolve),
	}

	addRootFlags(rootCmd, f)

	rootCmd.AddCommand(
		commands.NewWatchCmd(resolve),
		newVersionCmd(),
	)

	return rootCmd
}
