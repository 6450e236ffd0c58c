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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/backuprc/pkg/status"
)

// 📄 FileCopy is one copied file, as reported to the operator
type FileCopy struct {
	Source      string // Absolute source path
	Destination string // Absolute destination path
	Bytes       int64  // Bytes written
}

// 📦 RunOperation describes the backup run currently in progress
type RunOperation struct {
	RunID       string // Correlation id for the run
	Source      string // Resolved source root
	Destination string // Resolved destination root
}

// 🎯 Logger prints operator-facing lines to the console and mirrors them to
// zerolog. The per-file lines are the only feedback during a long backup.
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *RunOperation
	copies    int
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔇 Discard returns a logger that prints nothing
func Discard() *Logger {
	return New(io.Discard, zerolog.Nop())
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a discarding logger when
// none was attached.
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return Discard()
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// colorPrefix highlights the leading [Backup] marker of a status line
func colorPrefix(line string) string {
	rest, ok := strings.CutPrefix(line, status.Prefix)
	if !ok {
		return line
	}
	return color.New(color.FgCyan).Sprint(status.Prefix) + rest
}

// 📝 StartRun prints the resolved roots of a run
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.copies = 0

	fmt.Fprintln(l.console, colorPrefix(status.FormatSource(op.Source)))
	fmt.Fprintln(l.console, colorPrefix(status.FormatDestination(op.Destination)))

	l.zlog.Info().
		Str("run_id", op.RunID).
		Str("source", op.Source).
		Str("destination", op.Destination).
		Msg("starting backup run")
}

// 📝 LogFileCopy prints the trace line for one copied file
func (l *Logger) LogFileCopy(ctx context.Context, c FileCopy) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.copies++

	fmt.Fprintln(l.console, colorPrefix(status.FormatCopy(c.Source, c.Destination, c.Bytes)))

	ev := l.zlog.Debug().
		Str("source", c.Source).
		Str("destination", c.Destination).
		Int64("bytes", c.Bytes)
	if l.currentOp != nil {
		ev = ev.Str("run_id", l.currentOp.RunID)
	}
	ev.Msg("file copied")
}

// 📝 EndRun closes the current run
func (l *Logger) EndRun(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	l.zlog.Info().
		Str("run_id", l.currentOp.RunID).
		Int("files", l.copies).
		Msg("backup run complete")

	l.currentOp = nil
	l.copies = 0
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}
