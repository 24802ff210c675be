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

// Package watch re-runs a function whenever a directory tree changes.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/walteh/lumins/pkg/fileset"
	"gitlab.com/tozd/go/errors"
)

// DefaultDebounce is the quiet period used when no WithDebounce option is given
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc receives the sorted relative paths that changed since the last call
type ChangeFunc func(ctx context.Context, changed []string) error

// Option configures a Watcher
type Option func(*Watcher)

// WithExclude skips events for paths matching any doublestar pattern.
// Matching directories are not watched at all.
func WithExclude(patterns ...string) Option {
	return func(w *Watcher) {
		w.exclude = append(w.exclude, patterns...)
	}
}

// WithDebounce sets how long the tree must be quiet before ChangeFunc runs
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// 👀 Watcher follows every directory below root, including directories
// created after it started
type Watcher struct {
	root     string
	exclude  []string
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// 🏗️ New creates a watcher and registers root and all its subdirectories
func New(ctx context.Context, root string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		root:     filepath.Clean(root),
		debounce: DefaultDebounce,
		fsw:      fsw,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addRecursive(ctx, w.root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching and releases the underlying descriptors
func (w *Watcher) Close() error {
	if err := w.fsw.Close(); err != nil {
		return errors.Errorf("closing file watcher: %w", err)
	}
	return nil
}

// addRecursive registers dir and every directory below it
func (w *Watcher) addRecursive(ctx context.Context, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return errors.Errorf("walking %s: %w", path, err)
			}
			// the entry vanished or is unreadable, the next event will tell
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := w.rel(path); ok && rel != "." && fileset.Excluded(w.exclude, rel) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return errors.Errorf("watching %s: %w", path, err)
		}
		zerolog.Ctx(ctx).Trace().Str("dir", path).Msg("watching directory")
		return nil
	})
}

func (w *Watcher) rel(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	return rel, true
}

// 🏃 Run delivers batches of changes to fn until ctx is cancelled or fn
// returns an error. fn runs on the calling goroutine, so batches never
// overlap; events arriving while fn runs are collected into the next batch.
func (w *Watcher) Run(ctx context.Context, fn ChangeFunc) error {
	logger := zerolog.Ctx(ctx)

	pending := fileset.NewPathSet()
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			rel, ok := w.rel(event.Name)
			if !ok || rel == "." || fileset.Excluded(w.exclude, rel) {
				continue
			}

			logger.Trace().Str("path", rel).Str("op", event.Op.String()).Msg("file event")
			pending.Add(rel)

			if event.Has(fsnotify.Create) {
				if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(ctx, event.Name); err != nil {
						logger.Warn().Err(err).Str("dir", rel).Msg("watching new directory")
					}
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("file watcher error")

		case <-timerC:
			timer = nil
			timerC = nil

			changed := pending.Sorted()
			pending = fileset.NewPathSet()

			logger.Debug().Int("changes", len(changed)).Msg("tree settled")
			if err := fn(ctx, changed); err != nil {
				return errors.Errorf("handling changes: %w", err)
			}
		}
	}
}
