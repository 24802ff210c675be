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

package fileops_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/lumins/pkg/fileset"
	"github.com/walteh/lumins/pkg/status"
)

func TestCopyDirs(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(env.src, "a", "b"), 0750))
	require.NoError(t, os.MkdirAll(filepath.Join(env.dest, "a"), 0755))

	env.copier().CopyEntries(env.ctx, fileset.Dir, []string{"a", filepath.Join("a", "b")})

	info, err := os.Stat(filepath.Join(env.dest, "a", "b"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	ev, ok := env.status.GetEvent(fileset.Dir, "a")
	require.True(t, ok)
	assert.Equal(t, status.ActionUnchanged, ev.Action, "existing directory is left alone")

	ev, ok = env.status.GetEvent(fileset.Dir, filepath.Join("a", "b"))
	require.True(t, ok)
	assert.Equal(t, status.ActionCreated, ev.Action)
}

func TestCopyFiles(t *testing.T) {
	env := newTestEnv(t)
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	writeFile(t, env.src, "new.txt", "fresh", mtime)
	writeFile(t, env.src, filepath.Join("nested", "deep.txt"), "deep", mtime)
	writeFile(t, env.src, "over.txt", "replacement", mtime)
	writeFile(t, env.dest, "over.txt", "old", time.Time{})
	require.NoError(t, os.Chmod(filepath.Join(env.src, "new.txt"), 0600))

	env.copier().CopyEntries(env.ctx, fileset.File, []string{"new.txt", filepath.Join("nested", "deep.txt"), "over.txt"})

	assert.Equal(t, "fresh", readFile(t, env.dest, "new.txt"))
	assert.Equal(t, "deep", readFile(t, env.dest, filepath.Join("nested", "deep.txt")), "missing parents are created")
	assert.Equal(t, "replacement", readFile(t, env.dest, "over.txt"))

	info, err := os.Stat(filepath.Join(env.dest, "new.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "permission bits are preserved")
	assert.True(t, info.ModTime().Equal(mtime), "modification time is preserved")

	s := env.status.Summary()
	assert.Equal(t, 2, s.Created)
	assert.Equal(t, 1, s.Updated)
	assert.Zero(t, s.Failed)

	entries, err := os.ReadDir(env.dest)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".lumins-"), "temp file %s left behind", e.Name())
	}
}

func TestCopyFiles_FailureDoesNotStopSiblings(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, env.src, "ok1.txt", "1", time.Time{})
	writeFile(t, env.src, "ok2.txt", "2", time.Time{})

	// "missing.txt" vanished between scan and copy
	env.copier().CopyFiles(env.ctx, []string{"ok1.txt", "missing.txt", "ok2.txt"})

	assert.Equal(t, "1", readFile(t, env.dest, "ok1.txt"))
	assert.Equal(t, "2", readFile(t, env.dest, "ok2.txt"))

	failures := env.status.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "missing.txt", failures[0].Path)
	assert.Equal(t, "copy", failures[0].Op)
	assert.ErrorIs(t, failures[0].Err, os.ErrNotExist)
}

func TestCopyFiles_DestinationIsDirectory(t *testing.T) {
	env := newTestEnv(t)
	writeFile(t, env.src, "clash", "file", time.Time{})
	require.NoError(t, os.MkdirAll(filepath.Join(env.dest, "clash", "inner"), 0755))

	env.copier().CopyFiles(env.ctx, []string{"clash"})

	require.Len(t, env.status.Failures(), 1)
	info, err := os.Stat(filepath.Join(env.dest, "clash"))
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "directory is not clobbered")
}

func TestCopy_DestinationSymlinkIsNotFollowed(t *testing.T) {
	env := newTestEnv(t)
	outside := t.TempDir()
	writeFile(t, env.src, filepath.Join("a", "f.txt"), "x", time.Time{})
	require.NoError(t, os.Symlink("/etc/hosts", filepath.Join(env.src, "a", "l.lnk")))
	require.NoError(t, os.Symlink(outside, filepath.Join(env.dest, "a")))

	c := env.copier()
	c.CopyDirs(env.ctx, []string{"a"})
	c.CopyFiles(env.ctx, []string{filepath.Join("a", "f.txt")})
	c.CopySymlinks(env.ctx, []string{filepath.Join("a", "l.lnk")})

	entries, err := os.ReadDir(outside)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written through the link")

	failures := env.status.Failures()
	require.Len(t, failures, 3)
	for _, f := range failures {
		assert.ErrorIs(t, f.Err, fileset.ErrNotDirectory, f.Path)
	}

	target, err := os.Readlink(filepath.Join(env.dest, "a"))
	require.NoError(t, err)
	assert.Equal(t, outside, target, "the link itself is left in place")
}

func TestCopyDirs_FileInTheWay(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(env.src, "a", "b"), 0755))
	writeFile(t, env.dest, "a", "file", time.Time{})

	env.copier().CopyDirs(env.ctx, []string{filepath.Join("a", "b")})

	require.Len(t, env.status.Failures(), 1)
	assert.Equal(t, "file", readFile(t, env.dest, "a"))
}

func TestCopySymlinks(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.Symlink("/etc/hosts", filepath.Join(env.src, "abs.lnk")))
	require.NoError(t, os.Symlink("../missing", filepath.Join(env.src, "dangling.lnk")))
	require.NoError(t, os.Symlink("new-target", filepath.Join(env.src, "replace.lnk")))
	require.NoError(t, os.Symlink("old-target", filepath.Join(env.dest, "replace.lnk")))

	env.copier().CopyEntries(env.ctx, fileset.Symlink, []string{"abs.lnk", "dangling.lnk", "replace.lnk"})

	for rel, want := range map[string]string{
		"abs.lnk":      "/etc/hosts",
		"dangling.lnk": "../missing",
		"replace.lnk":  "new-target",
	} {
		got, err := os.Readlink(filepath.Join(env.dest, rel))
		require.NoError(t, err, rel)
		assert.Equal(t, want, got, rel)
	}

	ev, ok := env.status.GetEvent(fileset.Symlink, "replace.lnk")
	require.True(t, ok)
	assert.Equal(t, status.ActionUpdated, ev.Action)
	assert.Zero(t, env.status.Summary().Failed)
}
