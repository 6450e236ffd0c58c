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

package backup

import (
	"fmt"
	"iter"
	"time"

	"github.com/walteh/backuprc/pkg/catalog"
)

// 📦 Job is one source tree mirrored into one destination tree
type Job struct {
	SourceRoot      string
	DestinationRoot string
}

// 📊 Summary is the outcome of a successful run. It is not modified after
// Run returns it.
type Summary struct {
	RunID       string
	FilesCopied int
	BytesCopied int64
	StartTime   time.Time
	EndTime     time.Time
}

// Duration is the wall-clock length of the run
func (s *Summary) Duration() time.Duration {
	if s.EndTime.Before(s.StartTime) {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// 📚 Catalog lists the regular files under a root
type Catalog interface {
	Walk(root string) iter.Seq2[catalog.Entry, error]
}

// 📋 Copier copies one cataloged file under a destination root
type Copier interface {
	Copy(entry catalog.Entry, destRoot string) (int64, error)
}

// ⏰ Clock abstracts time retrieval so runs are deterministic in tests
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator produces run ids
type IDGenerator interface {
	New() string
}

// ❌ FilesystemError is a failure to read the source tree or write the
// destination tree. It aborts the run.
type FilesystemError struct {
	Op   string // "resolve", "catalog" or "copy"
	Path string // Source path involved, when known
	Dest string // Destination path involved, when known
	Err  error
}

func (e *FilesystemError) Error() string {
	switch {
	case e.Path != "" && e.Dest != "":
		return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Path, e.Dest, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
