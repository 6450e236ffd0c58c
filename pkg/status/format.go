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

// Package status renders the human-readable lines printed for a backup run.
package status

import (
	"fmt"
	"time"

	"github.com/walteh/backuprc/pkg/text"
)

// 🏷️ Prefix marks every per-run line
const Prefix = "[Backup]"

// 📂 FormatSource formats the resolved source root line
func FormatSource(dir string) string {
	return fmt.Sprintf("%s Source directory: %s", Prefix, dir)
}

// 📂 FormatDestination formats the resolved destination root line
func FormatDestination(dir string) string {
	return fmt.Sprintf("%s Backup directory: %s", Prefix, dir)
}

// 📝 FormatCopy formats the trace line for one copied file
func FormatCopy(src, dst string, n int64) string {
	return fmt.Sprintf("%s Copied: %s -> %s (%d bytes)", Prefix, src, dst, n)
}

// ✅ FormatSummary formats the completion line of a run
func FormatSummary(files int, bytes int64, took time.Duration) string {
	return fmt.Sprintf("Backup completed: %d files, %s in %.2fs", files, text.FormatBytes(bytes), took.Seconds())
}

// FormatError formats an error message
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Backup failed: %v", err)
}
