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

package copier

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/backuprc/pkg/catalog"
)

// 🧪 sourceEntry writes content to a file under a fresh source root
func sourceEntry(t *testing.T, rel string, content []byte, mode os.FileMode) catalog.Entry {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, mode))
	require.NoError(t, os.Chmod(path, mode))
	return catalog.Entry{
		RelativePath: filepath.FromSlash(rel),
		AbsolutePath: path,
		Size:         int64(len(content)),
		Mode:         mode,
	}
}

func TestCopy(t *testing.T) {
	content := []byte("hello backup\n")
	entry := sourceEntry(t, "nested/dir/file.txt", content, 0o640)

	mtime := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, os.Chtimes(entry.AbsolutePath, mtime, mtime))

	destRoot := t.TempDir()
	n, err := New().Copy(entry, destRoot)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)

	dest := filepath.Join(destRoot, "nested", "dir", "file.txt")
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, got, "content should be copied byte for byte")

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, n, info.Size(), "returned count should match destination size")
	assert.True(t, info.ModTime().Equal(mtime), "modification time should be preserved, got %s", info.ModTime())
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm(), "permission bits should be preserved")
	}
}

func TestCopyOverwrites(t *testing.T) {
	entry := sourceEntry(t, "f.txt", []byte("short"), 0o644)
	destRoot := t.TempDir()

	dest := filepath.Join(destRoot, "f.txt")
	require.NoError(t, os.WriteFile(dest, []byte("a much longer previous version"), 0o644))

	n, err := New().Copy(entry, destRoot)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "short", string(got), "destination should be truncated and rewritten")
}

func TestCopyIsIdempotent(t *testing.T) {
	entry := sourceEntry(t, "a/b.bin", []byte{0, 1, 2, 3, 255}, 0o600)
	destRoot := t.TempDir()
	c := New()

	first, err := c.Copy(entry, destRoot)
	require.NoError(t, err)
	second, err := c.Copy(entry, destRoot)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	got, err := os.ReadFile(filepath.Join(destRoot, "a", "b.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 3, 255}, got)
}

func TestCopyEmptyFile(t *testing.T) {
	entry := sourceEntry(t, "empty", nil, 0o644)
	destRoot := t.TempDir()

	n, err := New().Copy(entry, destRoot)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.FileExists(t, filepath.Join(destRoot, "empty"))
}

func TestCopyErrors(t *testing.T) {
	t.Run("source_vanished", func(t *testing.T) {
		entry := sourceEntry(t, "gone.txt", []byte("x"), 0o644)
		require.NoError(t, os.Remove(entry.AbsolutePath))

		_, err := New().Copy(entry, t.TempDir())
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), "opening source")
	})

	t.Run("parent_is_a_file", func(t *testing.T) {
		entry := sourceEntry(t, "sub/file.txt", []byte("x"), 0o644)
		destRoot := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(destRoot, "sub"), []byte("blocker"), 0o644))

		_, err := New().Copy(entry, destRoot)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "creating parent directories")
	})

	t.Run("destination_not_writable", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced here")
		}
		entry := sourceEntry(t, "file.txt", []byte("x"), 0o644)
		destRoot := t.TempDir()
		require.NoError(t, os.Chmod(destRoot, 0o500))
		t.Cleanup(func() { _ = os.Chmod(destRoot, 0o755) })

		_, err := New().Copy(entry, destRoot)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrPermission)
	})
}

func TestDestination(t *testing.T) {
	entry := catalog.Entry{RelativePath: filepath.Join("x", "y.txt")}
	assert.Equal(t, filepath.Join("/backup", "x", "y.txt"), Destination(entry, "/backup"))
}
