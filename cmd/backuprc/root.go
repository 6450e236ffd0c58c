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
	"io"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/backuprc/cmd/backuprc/commands"
	"github.com/walteh/backuprc/cmd/backuprc/opts"
	"github.com/walteh/backuprc/pkg/config"
	"github.com/walteh/backuprc/pkg/log"
	"github.com/walteh/backuprc/pkg/notify"
	"github.com/walteh/backuprc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

const (
	// breakerThreshold consecutive failed notifications open the breaker
	breakerThreshold = 3
	// breakerCooldown is how long notifications stay suspended
	breakerCooldown = 30 * time.Minute
)

// newRootCmd builds the backuprc command tree writing operator output to out
func newRootCmd(out io.Writer) *cobra.Command {
	rootOpts := &opts.RootOpts{Out: out}

	rootCmd := &cobra.Command{
		Use:   "backuprc",
		Short: "Periodic folder backup with optional KakaoTalk notification",
		Long: `backuprc mirrors every file of a source directory into a backup directory.
It runs once with --once, or repeatedly every interval_minutes until interrupted.
When kakao.enabled is set a summary memo is sent after each successful run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(setupLogging(cmd.Context(), rootOpts))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cmd.Context(), rootOpts)
		},
	}

	rootCmd.SetOut(out)
	addRootFlags(rootCmd, rootOpts)

	rootCmd.AddCommand(
		commands.NewCatalogCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, rootOpts *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&rootOpts.ConfigFile, "config", "c", "config.yaml", "config file path (yaml, json, toml or hcl)")
	cmd.PersistentFlags().BoolVarP(&rootOpts.Debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVar(&rootOpts.Once, "once", false, "run a single backup and exit")
}

// setupLogging attaches the zerolog logger and the operator console to ctx
func setupLogging(ctx context.Context, rootOpts *opts.RootOpts) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	level := zerolog.InfoLevel
	if rootOpts.Debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Logger()

	ctx = logger.WithContext(ctx)
	return log.NewContext(ctx, log.New(rootOpts.Out, logger))
}

// runBackup loads the config and runs the backup once or on its interval
func runBackup(ctx context.Context, rootOpts *opts.RootOpts) error {
	cfg, err := config.Load(ctx, rootOpts.ConfigFile)
	if err != nil {
		return err
	}

	console := log.FromContext(ctx)
	console.Infof("Using config %s", cfg.Location())

	opOpts := operation.Options{Config: cfg}
	if !rootOpts.Once && cfg.Kakao.Enabled {
		opOpts.Sink = notify.WithBreaker("kakao", notify.NewKakaoSink(), breakerThreshold, breakerCooldown)
	}

	op, err := operation.NewBackupOperation(opOpts)
	if err != nil {
		return errors.Errorf("creating backup operation: %w", err)
	}

	if rootOpts.Once {
		return operation.NewScheduler(op, operation.ScheduleOptions{Once: true}).Run(ctx)
	}

	printer := pterm.Info.WithWriter(rootOpts.Out)
	printer.Printfln("Starting periodic backup every %d minute(s). Press Ctrl+C to stop.", cfg.Minutes())

	sched := operation.NewScheduler(op, operation.ScheduleOptions{
		Interval: operation.IntervalFromMinutes(cfg.Minutes()),
		OnWait: func(next time.Time) {
			console.Infof("Next backup at %s", next.Format(operation.TimestampLayout))
		},
	})

	if err := sched.Run(ctx); err != nil {
		return err
	}

	printer.Println("Stopped.")
	return nil
}
