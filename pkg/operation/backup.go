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

package operation

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/walteh/backuprc/pkg/backup"
	"github.com/walteh/backuprc/pkg/catalog"
	"github.com/walteh/backuprc/pkg/config"
	"github.com/walteh/backuprc/pkg/log"
	"github.com/walteh/backuprc/pkg/notify"
	"github.com/walteh/backuprc/pkg/status"
	"github.com/walteh/backuprc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// TimestampLayout formats {timestamp} in notification messages
const TimestampLayout = "2006-01-02 15:04:05"

// 🏃 BackupRunner runs a single backup job
type BackupRunner interface {
	Run(ctx context.Context, job backup.Job) (*backup.Summary, error)
}

// 🔧 Options contains what a backup operation needs
type Options struct {
	// Config is the validated backuprc configuration
	Config *config.Config
	// Runner defaults to a backup.Runner honouring Config.IgnorePatterns
	Runner BackupRunner
	// Sink defaults to the registered "kakao" sink
	Sink notify.Sink
}

// 📦 BackupOperation performs one complete backup: copy, notify, report
type BackupOperation struct {
	cfg    *config.Config
	runner BackupRunner
	sink   notify.Sink

	last *backup.Summary
}

// 🏭 NewBackupOperation creates a backup operation with the given options
func NewBackupOperation(opts Options) (*BackupOperation, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	op := &BackupOperation{
		cfg:    opts.Config,
		runner: opts.Runner,
		sink:   opts.Sink,
	}

	if op.runner == nil {
		cat, err := catalog.New(catalog.WithIgnore(opts.Config.IgnorePatterns...))
		if err != nil {
			return nil, errors.Errorf("creating catalog: %w", err)
		}
		runner, err := backup.NewRunner(backup.Options{Catalog: cat})
		if err != nil {
			return nil, errors.Errorf("creating runner: %w", err)
		}
		op.runner = runner
	}

	if op.sink == nil && opts.Config.Kakao.Enabled {
		factory := notify.Get("kakao")
		if factory == nil {
			return nil, errors.Errorf("kakao notification sink is not registered")
		}
		op.sink = factory()
	}

	return op, nil
}

// 🚀 Execute runs the backup, sends the summary notification when enabled and
// prints the completion line. A failed notification is only a warning.
func (op *BackupOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)

	summary, err := op.runner.Run(ctx, backup.Job{
		SourceRoot:      op.cfg.SourceDir,
		DestinationRoot: op.cfg.BackupDir,
	})
	if err != nil {
		return errors.Errorf("running backup: %w", err)
	}
	op.last = summary

	if op.cfg.Kakao.Enabled {
		op.notify(ctx, summary)
	}

	console.Success(status.FormatSummary(summary.FilesCopied, summary.BytesCopied, summary.Duration()))

	logger.Debug().
		Str("run_id", summary.RunID).
		Int("files", summary.FilesCopied).
		Int64("bytes", summary.BytesCopied).
		Msg("backup operation complete")

	return nil
}

// 📊 LastSummary returns the summary of the most recent successful run
func (op *BackupOperation) LastSummary() *backup.Summary {
	return op.last
}

func (op *BackupOperation) notify(ctx context.Context, summary *backup.Summary) {
	message := op.cfg.Message().Render(map[string]string{
		config.FieldTimestamp:   summary.EndTime.Format(TimestampLayout),
		config.FieldFilesCopied: strconv.Itoa(summary.FilesCopied),
		config.FieldBytesCopied: text.FormatBytes(summary.BytesCopied),
	})

	// the run already succeeded; a stop request must not drop its summary
	res := op.sink.Send(context.WithoutCancel(ctx), op.cfg.Kakao.AccessToken, message)
	if !res.Success {
		log.FromContext(ctx).Warningf("Kakao notification failed: %s", res.Reason)
		return
	}

	zerolog.Ctx(ctx).Debug().Int("status", res.StatusCode).Msg("kakao notification sent")
}
