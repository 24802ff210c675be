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
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/walteh/lumins/pkg/fileset"
	"github.com/walteh/lumins/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// DifferenceType categorizes why two entries differ
type DifferenceType string

const (
	// DiffNone indicates the entries are identical
	DiffNone DifferenceType = "none"
	// DiffKind indicates the destination is a different kind of entry
	DiffKind DifferenceType = "kind"
	// DiffSize indicates different file sizes
	DiffSize DifferenceType = "size"
	// DiffContent indicates equal sizes but different bytes
	DiffContent DifferenceType = "content"
	// DiffTarget indicates symlinks pointing at different targets
	DiffTarget DifferenceType = "target"
)

// 🔍 Comparator checks entries present in both trees and copies the ones that
// differ through Copier.
//
// Files are compared cheapest first: a size mismatch settles it, equal size
// and mtime are taken as identical unless Checksum is set, anything else is
// decided by hashing both files.
type Comparator struct {
	Copier   *Copier
	Checksum bool
}

// CompareFiles compares and conditionally copies regular files in parallel
func (c *Comparator) CompareFiles(ctx context.Context, paths []string) {
	forEach(c.Copier.Workers, paths, func(rel string) {
		c.compareEntry(ctx, fileset.File, rel, c.FileDiffers, c.Copier.CopyFile)
	})
}

// CompareSymlinks re-points symlinks whose target differs from the source
func (c *Comparator) CompareSymlinks(ctx context.Context, paths []string) {
	forEach(c.Copier.Workers, paths, func(rel string) {
		c.compareEntry(ctx, fileset.Symlink, rel, c.SymlinkDiffers, c.Copier.CopySymlink)
	})
}

func (c *Comparator) compareEntry(
	ctx context.Context,
	kind fileset.Kind,
	rel string,
	differs func(ctx context.Context, rel string) (DifferenceType, error),
	copyFn func(ctx context.Context, rel string) error,
) {
	diff, err := differs(ctx, rel)
	if err != nil {
		report(ctx, c.Copier.Reporter, status.Event{Path: rel, Kind: kind, Action: status.ActionFailed, Op: "compare", Err: err})
		return
	}

	if diff == DiffNone {
		report(ctx, c.Copier.Reporter, status.Event{Path: rel, Kind: kind, Action: status.ActionUnchanged})
		return
	}

	if err := copyFn(ctx, rel); err != nil {
		report(ctx, c.Copier.Reporter, status.Event{Path: rel, Kind: kind, Action: status.ActionFailed, Op: "copy", Err: err})
		return
	}
	report(ctx, c.Copier.Reporter, status.Event{Path: rel, Kind: kind, Action: status.ActionUpdated, Reason: string(diff)})
}

// FileDiffers decides whether the destination copy of rel differs from the
// source. Identical content with a stale mtime gets the source mtime so the
// next comparison takes the fast path.
func (c *Comparator) FileDiffers(ctx context.Context, rel string) (DifferenceType, error) {
	srcPath := filepath.Join(c.Copier.SrcRoot, rel)
	destPath := filepath.Join(c.Copier.DestRoot, rel)

	srcInfo, err := os.Lstat(srcPath)
	if err != nil {
		return "", errors.Errorf("reading source: %w", err)
	}
	destInfo, err := os.Lstat(destPath)
	if err != nil {
		return "", errors.Errorf("reading destination: %w", err)
	}

	if !destInfo.Mode().IsRegular() {
		return DiffKind, nil
	}
	if srcInfo.Size() != destInfo.Size() {
		return DiffSize, nil
	}

	sameTime := srcInfo.ModTime().Equal(destInfo.ModTime())
	if sameTime && !c.Checksum {
		return DiffNone, nil
	}

	srcSum, err := hashFile(srcPath)
	if err != nil {
		return "", errors.Errorf("hashing source: %w", err)
	}
	destSum, err := hashFile(destPath)
	if err != nil {
		return "", errors.Errorf("hashing destination: %w", err)
	}
	if srcSum != destSum {
		return DiffContent, nil
	}

	if !sameTime {
		if err := os.Chtimes(destPath, time.Now(), srcInfo.ModTime()); err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("path", rel).Msg("syncing modification time")
		}
	}
	return DiffNone, nil
}

// SymlinkDiffers compares the link targets without resolving them
func (c *Comparator) SymlinkDiffers(ctx context.Context, rel string) (DifferenceType, error) {
	srcTarget, err := os.Readlink(filepath.Join(c.Copier.SrcRoot, rel))
	if err != nil {
		return "", errors.Errorf("reading source link: %w", err)
	}

	destPath := filepath.Join(c.Copier.DestRoot, rel)
	info, err := os.Lstat(destPath)
	if err != nil {
		return "", errors.Errorf("reading destination: %w", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return DiffKind, nil
	}

	destTarget, err := os.Readlink(destPath)
	if err != nil {
		return "", errors.Errorf("reading destination link: %w", err)
	}
	if srcTarget != destTarget {
		return DiffTarget, nil
	}
	return DiffNone, nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, errors.Errorf("reading file: %w", err)
	}
	return h.Sum64(), nil
}
