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

// Package backup mirrors a source tree into a destination tree and reports
// what it copied.
package backup

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/backuprc/pkg/catalog"
	"github.com/walteh/backuprc/pkg/copier"
	"github.com/walteh/backuprc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

type uuidGenerator struct{}

func (uuidGenerator) New() string { return uuid.New().String() }

// 🔧 Options contains the collaborators of a Runner. Nil fields get the
// real implementations.
type Options struct {
	Catalog Catalog
	Copier  Copier
	Clock   Clock
	IDs     IDGenerator
}

// 🏃 Runner performs backup runs. A run is synchronous and keeps no state
// once it returns.
type Runner struct {
	catalog Catalog
	copier  Copier
	clock   Clock
	ids     IDGenerator
}

// 🏗️ NewRunner creates a runner
func NewRunner(opts Options) (*Runner, error) {
	r := &Runner{
		catalog: opts.Catalog,
		copier:  opts.Copier,
		clock:   opts.Clock,
		ids:     opts.IDs,
	}
	if r.catalog == nil {
		c, err := catalog.New()
		if err != nil {
			return nil, errors.Errorf("creating catalog: %w", err)
		}
		r.catalog = c
	}
	if r.copier == nil {
		r.copier = copier.New()
	}
	if r.clock == nil {
		r.clock = RealClock{}
	}
	if r.ids == nil {
		r.ids = uuidGenerator{}
	}
	return r, nil
}

// 🚀 Run copies every cataloged file of job.SourceRoot into
// job.DestinationRoot. The first failure aborts the run and no summary is
// returned. ctx carries loggers only; a run in progress is not cancelled.
func (r *Runner) Run(ctx context.Context, job Job) (*Summary, error) {
	src, dst, err := resolve(job)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:     r.ids.New(),
		StartTime: r.clock.Now(),
	}

	logger := zerolog.Ctx(ctx).With().Str("run_id", summary.RunID).Logger()
	console := log.FromContext(ctx)

	console.StartRun(ctx, log.RunOperation{RunID: summary.RunID, Source: src, Destination: dst})
	defer console.EndRun(ctx)

	for entry, err := range r.catalog.Walk(src) {
		if err != nil {
			return nil, &FilesystemError{Op: "catalog", Path: src, Err: err}
		}

		dest := copier.Destination(entry, dst)
		n, err := r.copier.Copy(entry, dst)
		if err != nil {
			return nil, &FilesystemError{Op: "copy", Path: entry.AbsolutePath, Dest: dest, Err: err}
		}

		summary.FilesCopied++
		summary.BytesCopied += n
		console.LogFileCopy(ctx, log.FileCopy{Source: entry.AbsolutePath, Destination: dest, Bytes: n})
	}

	summary.EndTime = r.clock.Now()

	logger.Debug().
		Int("files", summary.FilesCopied).
		Int64("bytes", summary.BytesCopied).
		Dur("duration", summary.Duration()).
		Msg("backup run finished")

	return summary, nil
}

// resolve makes both roots absolute and rejects a destination that lives
// inside the source, which the walk would otherwise descend into.
func resolve(job Job) (string, string, error) {
	if job.SourceRoot == "" || job.DestinationRoot == "" {
		return "", "", &FilesystemError{Op: "resolve", Err: errors.New("source and destination roots are required")}
	}

	src, err := filepath.Abs(job.SourceRoot)
	if err != nil {
		return "", "", &FilesystemError{Op: "resolve", Path: job.SourceRoot, Err: err}
	}
	dst, err := filepath.Abs(job.DestinationRoot)
	if err != nil {
		return "", "", &FilesystemError{Op: "resolve", Path: job.DestinationRoot, Err: err}
	}

	if within(realPath(src), realPath(dst)) {
		return "", "", &FilesystemError{
			Op:   "resolve",
			Path: src,
			Dest: dst,
			Err:  errors.New("backup directory must not be inside the source directory"),
		}
	}

	return src, dst, nil
}

// realPath resolves symlinks in the longest existing prefix of path, so a
// destination that does not exist yet is still compared by its real location
func realPath(path string) string {
	rest := ""
	for dir := path; ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return path
		}
		rest = filepath.Join(filepath.Base(dir), rest)
	}
}

// within reports whether path is root or below it
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
