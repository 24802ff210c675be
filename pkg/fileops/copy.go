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

package fileops

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/walteh/lumins/pkg/fileset"
	"github.com/walteh/lumins/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// tempPrefix marks in-flight files in the destination tree
const tempPrefix = ".lumins-"

// 📦 Copier mirrors entries from SrcRoot into DestRoot. Every entry is copied
// independently; a failure is reported and the remaining entries continue.
type Copier struct {
	SrcRoot  string
	DestRoot string
	Workers  int
	Reporter status.Reporter
}

// CopyEntries copies paths of the given kind in parallel
func (c *Copier) CopyEntries(ctx context.Context, kind fileset.Kind, paths []string) {
	switch kind {
	case fileset.Dir:
		c.CopyDirs(ctx, paths)
	case fileset.Symlink:
		c.CopySymlinks(ctx, paths)
	default:
		c.CopyFiles(ctx, paths)
	}
}

// 📁 CopyDirs creates the destination directories, with missing ancestors
func (c *Copier) CopyDirs(ctx context.Context, paths []string) {
	forEach(c.Workers, paths, func(rel string) {
		c.copyEntry(ctx, fileset.Dir, rel, c.CopyDir)
	})
}

// 📄 CopyFiles copies file contents, overwriting existing destination files
func (c *Copier) CopyFiles(ctx context.Context, paths []string) {
	forEach(c.Workers, paths, func(rel string) {
		c.copyEntry(ctx, fileset.File, rel, c.CopyFile)
	})
}

// 🔗 CopySymlinks recreates symlinks with the same target string
func (c *Copier) CopySymlinks(ctx context.Context, paths []string) {
	forEach(c.Workers, paths, func(rel string) {
		c.copyEntry(ctx, fileset.Symlink, rel, c.CopySymlink)
	})
}

func (c *Copier) copyEntry(ctx context.Context, kind fileset.Kind, rel string, fn func(ctx context.Context, rel string) error) {
	_, statErr := os.Lstat(filepath.Join(c.DestRoot, rel))
	existed := statErr == nil

	if err := fn(ctx, rel); err != nil {
		report(ctx, c.Reporter, status.Event{Path: rel, Kind: kind, Action: status.ActionFailed, Op: "copy", Err: err})
		return
	}

	action := status.ActionCreated
	if existed {
		action = status.ActionUpdated
		if kind == fileset.Dir {
			action = status.ActionUnchanged
		}
	}
	report(ctx, c.Reporter, status.Event{Path: rel, Kind: kind, Action: action})
}

// CopyDir creates one destination directory using the source permission bits.
// The owner always keeps rwx so the directory can be filled afterwards.
func (c *Copier) CopyDir(ctx context.Context, rel string) error {
	info, err := os.Lstat(filepath.Join(c.SrcRoot, rel))
	if err != nil {
		return errors.Errorf("reading source: %w", err)
	}

	if err := mkdirBelow(c.DestRoot, filepath.Dir(rel), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}
	if err := mkdirBelow(c.DestRoot, rel, info.Mode().Perm()|0o700); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

// mkdirBelow creates each missing component of rel under root. An existing
// component must be a real directory: a symlink or file there is an error, so
// nothing is ever written outside root.
func mkdirBelow(root, rel string, perm fs.FileMode) error {
	rel = filepath.Clean(rel)
	if rel == "." {
		return nil
	}

	path := root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		path = filepath.Join(path, part)

		info, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) {
			err = os.Mkdir(path, perm)
			if err == nil {
				continue
			}
			if !errors.Is(err, fs.ErrExist) {
				return errors.Errorf("creating %s: %w", path, err)
			}
			// created concurrently by a sibling entry
			info, err = os.Lstat(path)
		}
		if err != nil {
			return errors.Errorf("reading %s: %w", path, err)
		}
		if !info.IsDir() {
			return errors.Errorf("destination %s: %w", path, fileset.ErrNotDirectory)
		}
	}
	return nil
}

// CopyFile copies one regular file. The content goes to a temp file next to
// the destination which gets the source mode and mtime and is then renamed
// over the destination.
func (c *Copier) CopyFile(ctx context.Context, rel string) (err error) {
	srcPath := filepath.Join(c.SrcRoot, rel)
	destPath := filepath.Join(c.DestRoot, rel)

	src, err := os.Open(srcPath)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return errors.Errorf("reading source file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return errors.Errorf("source %s is not a regular file", rel)
	}

	dir := filepath.Dir(destPath)
	if err := mkdirBelow(c.DestRoot, filepath.Dir(rel), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath) // Clean up temp file
		}
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return errors.Errorf("copying file content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return errors.Errorf("setting mode: %w", err)
	}
	if err := os.Chtimes(tmpPath, time.Now(), info.ModTime()); err != nil {
		return errors.Errorf("setting modification time: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// CopySymlink recreates one symlink pointing at the same target as the source.
// The target is never resolved. An existing non-directory entry at the
// destination is replaced.
func (c *Copier) CopySymlink(ctx context.Context, rel string) error {
	target, err := os.Readlink(filepath.Join(c.SrcRoot, rel))
	if err != nil {
		return errors.Errorf("reading source link: %w", err)
	}

	destPath := filepath.Join(c.DestRoot, rel)
	dir := filepath.Dir(destPath)
	if err := mkdirBelow(c.DestRoot, filepath.Dir(rel), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tmpPath := filepath.Join(dir, tempPrefix+uuid.NewString())
	if err := os.Symlink(target, tmpPath); err != nil {
		return errors.Errorf("creating link: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Errorf("renaming link: %w", err)
	}
	return nil
}
