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
	"github.com/walteh/backuprc/pkg/config"
	"github.com/walteh/backuprc/pkg/log"
	"github.com/walteh/backuprc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd(os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.New(os.Stderr, zerolog.Nop()).Error(exitMessage(err))
		stop()
		os.Exit(1)
	}
}

// exitMessage picks the line printed before exiting non-zero
func exitMessage(err error) string {
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Error()
	}
	return status.FormatError(err)
}
