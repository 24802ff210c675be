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

package fileset

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrNotDirectory is returned when a scan root exists but is not a directory
var ErrNotDirectory = errors.Base("not a directory")

type scanOptions struct {
	exclude []string
}

// 🔧 ScanOption configures Scan
type ScanOption func(*scanOptions)

// WithExclude skips every path matching one of the doublestar patterns.
// Patterns are matched against the slash-separated relative path; a matching
// directory is pruned together with everything below it.
func WithExclude(patterns ...string) ScanOption {
	return func(o *scanOptions) {
		o.exclude = append(o.exclude, patterns...)
	}
}

// 🔍 Scan walks root and sorts every descendant into the file, dir or symlink
// set by its own metadata. Symlinks are recorded, never followed.
//
// Any error reading the tree aborts the scan: a partial view would make the
// diff against another tree unsafe. So does cancelling ctx.
func Scan(ctx context.Context, root string, opts ...ScanOption) (*FileSets, error) {
	var o scanOptions
	for _, opt := range opts {
		opt(&o)
	}

	walkRoot, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	sets := newFileSets(root)

	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == walkRoot {
			return nil
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}

		if Excluded(o.exclude, rel) {
			logger.Trace().Str("path", rel).Msg("excluded by pattern")
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch typ := d.Type(); {
		case typ&fs.ModeSymlink != 0:
			sets.Symlinks.Add(rel)
		case typ.IsDir():
			sets.Dirs.Add(rel)
		case typ.IsRegular():
			sets.Files.Add(rel)
		default:
			logger.Debug().Str("path", rel).Str("mode", typ.String()).Msg("skipping special file")
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("scanning %s: %w", root, err)
	}

	logger.Debug().
		Str("root", root).
		Int("files", sets.Files.Len()).
		Int("dirs", sets.Dirs.Len()).
		Int("symlinks", sets.Symlinks.Len()).
		Msg("scan complete")

	return sets, nil
}

// resolveRoot checks that root is a directory. A root that is itself a symlink
// is resolved once so the walk descends into its target.
func resolveRoot(root string) (string, error) {
	info, err := os.Lstat(root)
	if err != nil {
		return "", errors.Errorf("reading root %s: %w", root, err)
	}

	walkRoot := root
	if info.Mode()&fs.ModeSymlink != 0 {
		walkRoot, err = filepath.EvalSymlinks(root)
		if err != nil {
			return "", errors.Errorf("resolving root %s: %w", root, err)
		}
		info, err = os.Stat(walkRoot)
		if err != nil {
			return "", errors.Errorf("reading root %s: %w", walkRoot, err)
		}
	}

	if !info.IsDir() {
		return "", errors.Errorf("root %s: %w", root, ErrNotDirectory)
	}
	return walkRoot, nil
}

// Excluded reports whether rel matches any of the doublestar patterns. Matching
// uses the slash form of rel so patterns are portable.
func Excluded(patterns []string, rel string) bool {
	if len(patterns) == 0 {
		return false
	}
	slashed := filepath.ToSlash(rel)
	for _, pattern := range patterns {
		// patterns are validated by the config layer, a bad one here just never matches
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}
