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

// Package catalog enumerates the regular files under a directory tree.
package catalog

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 📄 Entry is one regular file found under a catalog root
type Entry struct {
	RelativePath string      // Path relative to the root, OS separators
	AbsolutePath string      // Absolute path of the source file
	Size         int64       // Size at discovery time
	Mode         fs.FileMode // Permission bits at discovery time
	ModTime      time.Time   // Modification time at discovery time
}

// 🔧 Option configures a Catalog
type Option func(*Catalog) error

// 🙈 WithIgnore skips files whose slash-separated relative path matches
// any of the doublestar patterns.
func WithIgnore(patterns ...string) Option {
	return func(c *Catalog) error {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return errors.Errorf("invalid ignore pattern %q", p)
			}
		}
		c.ignore = append(c.ignore, patterns...)
		return nil
	}
}

// 📚 Catalog walks a root and yields its regular files in lexical order.
// Symlinks, devices, pipes and sockets are skipped. A directory that cannot
// be read ends the walk with an error.
type Catalog struct {
	ignore []string
}

// 🏭 New creates a catalog
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// 🔍 Walk lazily yields every regular file under root. The first error
// ends the sequence.
func (c *Catalog) Walk(root string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		base, err := resolveRoot(root)
		if err != nil {
			yield(Entry{}, err)
			return
		}

		stopped := false
		walkErr := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return errors.Errorf("reading %s: %w", path, err)
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}

			rel, err := filepath.Rel(base, path)
			if err != nil {
				return errors.Errorf("relative path of %s: %w", path, err)
			}
			if c.ignored(rel) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return errors.Errorf("stat %s: %w", path, err)
			}

			if !yield(Entry{
				RelativePath: rel,
				AbsolutePath: path,
				Size:         info.Size(),
				Mode:         info.Mode().Perm(),
				ModTime:      info.ModTime(),
			}, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if walkErr != nil && !stopped {
			yield(Entry{}, walkErr)
		}
	}
}

func (c *Catalog) ignored(rel string) bool {
	slashed := filepath.ToSlash(rel)
	for _, pattern := range c.ignore {
		// patterns are validated in WithIgnore, so Match cannot fail here
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}

// resolveRoot returns the absolute, symlink-free form of root and checks
// that it is a directory.
func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", root, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", abs, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", errors.Errorf("stat %s: %w", resolved, err)
	}
	if !info.IsDir() {
		return "", errors.Errorf("not a directory: %s", resolved)
	}
	return resolved, nil
}

// 📋 Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[Entry, error]) ([]Entry, error) {
	var entries []Entry
	for entry, err := range seq {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
