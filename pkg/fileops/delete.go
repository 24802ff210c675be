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
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/walteh/lumins/pkg/fileset"
	"github.com/walteh/lumins/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// overwriteBlock is the size of each zero-filled write during secure deletion
const overwriteBlock = 64 * 1024

// Remover abstracts the final unlink so tests can observe what is removed
type Remover interface {
	Remove(path string) error
}

// RemoverFunc adapts a function to the Remover interface
type RemoverFunc func(path string) error

func (f RemoverFunc) Remove(path string) error {
	return f(path)
}

// OSRemover removes entries with os.Remove, which never removes a non-empty
// directory
var OSRemover Remover = RemoverFunc(os.Remove)

// 🗑️ Deleter removes destination entries that are absent from the source.
//
// With Secure set, regular files are overwritten with zeros and flushed before
// they are unlinked. This narrows what can be recovered from the disk; it does
// not help on media that remap writes (flash wear levelling, copy-on-write
// filesystems, snapshots).
type Deleter struct {
	Root     string
	Workers  int
	Secure   bool
	Remover  Remover
	Reporter status.Reporter
}

// DeleteEntries removes paths of the given kind. Files and symlinks go in
// parallel. Directories go one at a time in SortForRemoval order so that a
// directory is only removed after everything below it.
func (d *Deleter) DeleteEntries(ctx context.Context, kind fileset.Kind, paths []string) {
	if kind == fileset.Dir {
		for _, rel := range SortForRemoval(paths) {
			d.deleteEntry(ctx, kind, rel)
		}
		return
	}

	forEach(d.Workers, paths, func(rel string) {
		d.deleteEntry(ctx, kind, rel)
	})
}

func (d *Deleter) deleteEntry(ctx context.Context, kind fileset.Kind, rel string) {
	path := filepath.Join(d.Root, rel)

	var reason string
	if d.Secure && kind == fileset.File {
		// a file that could not be scrubbed is left in place rather than
		// unlinked with its data intact
		if err := Overwrite(path); err != nil {
			report(ctx, d.Reporter, status.Event{Path: rel, Kind: kind, Action: status.ActionFailed, Op: "delete", Err: err})
			return
		}
		reason = "secure"
	}

	if err := d.remover().Remove(path); err != nil {
		report(ctx, d.Reporter, status.Event{Path: rel, Kind: kind, Action: status.ActionFailed, Op: "delete", Err: errors.Errorf("removing %s: %w", kind, err)})
		return
	}
	report(ctx, d.Reporter, status.Event{Path: rel, Kind: kind, Action: status.ActionDeleted, Reason: reason})
}

func (d *Deleter) remover() Remover {
	if d.Remover == nil {
		return OSRemover
	}
	return d.Remover
}

// 🔒 Overwrite replaces every byte of a regular file with zeros and flushes
// the file to storage. Symlinks are refused so a link target is never touched.
func Overwrite(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return errors.Errorf("reading file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return errors.Errorf("refusing to overwrite %s: not a regular file", path)
	}

	if info.Mode().Perm()&0o200 == 0 {
		if err := os.Chmod(path, info.Mode().Perm()|0o200); err != nil {
			return errors.Errorf("making file writable: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return errors.Errorf("opening file for overwrite: %w", err)
	}
	defer f.Close()

	zeros := make([]byte, overwriteBlock)
	for remaining := info.Size(); remaining > 0; {
		n := int64(len(zeros))
		if remaining < n {
			n = remaining
		}
		if _, err := f.Write(zeros[:n]); err != nil {
			return errors.Errorf("overwriting file: %w", err)
		}
		remaining -= n
	}

	if err := f.Sync(); err != nil {
		return errors.Errorf("flushing file: %w", err)
	}
	if err := f.Close(); err != nil {
		return errors.Errorf("closing file: %w", err)
	}
	return nil
}

// SortForRemoval returns paths ordered deepest first, ties broken by reverse
// lexicographic order. The input is not modified.
func SortForRemoval(paths []string) []string {
	sorted := slices.Clone(paths)
	slices.SortFunc(sorted, func(a, b string) int {
		if da, db := depth(a), depth(b); da != db {
			return db - da
		}
		return strings.Compare(b, a)
	})
	return sorted
}

func depth(rel string) int {
	return strings.Count(filepath.Clean(rel), string(filepath.Separator)) + 1
}
