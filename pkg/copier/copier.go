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

// Package copier copies cataloged files into a destination tree.
package copier

import (
	"io"
	"os"
	"path/filepath"

	"github.com/walteh/backuprc/pkg/catalog"
	"gitlab.com/tozd/go/errors"
)

// 📦 Copier copies one file with its permission bits and timestamps.
//
// The destination is overwritten unconditionally. A failed copy can leave a
// truncated destination file behind.
type Copier struct{}

// 🏭 New creates a copier
func New() *Copier {
	return &Copier{}
}

// 📍 Destination returns where entry lands under destRoot
func Destination(entry catalog.Entry, destRoot string) string {
	return filepath.Join(destRoot, entry.RelativePath)
}

// 📋 Copy writes entry under destRoot and returns the size of the resulting
// destination file.
func (c *Copier) Copy(entry catalog.Entry, destRoot string) (int64, error) {
	dest := Destination(entry, destRoot)

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, errors.Errorf("creating parent directories for %s: %w", dest, err)
	}

	src, err := os.Open(entry.AbsolutePath)
	if err != nil {
		return 0, errors.Errorf("opening source: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return 0, errors.Errorf("stat source: %w", err)
	}

	written, err := writeFile(dest, src, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	// OpenFile only applies the mode on creation and is subject to umask
	if err := os.Chmod(dest, info.Mode().Perm()); err != nil {
		return 0, errors.Errorf("setting mode on %s: %w", dest, err)
	}
	if err := os.Chtimes(dest, accessTime(info), info.ModTime()); err != nil {
		return 0, errors.Errorf("setting times on %s: %w", dest, err)
	}

	out, err := os.Stat(dest)
	if err != nil {
		return 0, errors.Errorf("stat destination: %w", err)
	}
	if out.Size() != written {
		return 0, errors.Errorf("short copy to %s: wrote %d bytes, file has %d", dest, written, out.Size())
	}

	return out.Size(), nil
}

func writeFile(dest string, src io.Reader, perm os.FileMode) (int64, error) {
	dst, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return 0, errors.Errorf("opening destination: %w", err)
	}

	written, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		return 0, errors.Errorf("copying to %s: %w", dest, err)
	}

	if err := dst.Close(); err != nil {
		return 0, errors.Errorf("closing %s: %w", dest, err)
	}

	return written, nil
}
