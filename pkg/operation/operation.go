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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/lumins/pkg/fileops"
	"github.com/walteh/lumins/pkg/fileset"
	"github.com/walteh/lumins/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains configuration for a run
type Options struct {
	// Flags selects copy or synchronize and their modifiers
	Flags Flags
	// Workers bounds the number of concurrent entry operations, <= 0 means one per CPU
	Workers int
	// Exclude lists doublestar globs removed from both trees before classification
	Exclude []string
	// Checksum forces a content hash for files whose size and mtime match
	Checksum bool
	// Reporter receives one event per entry, nil logs through a fresh status.Manager
	Reporter status.Reporter
	// Remover performs the final unlink of deleted entries, nil means os.Remove
	Remover fileops.Remover
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return fileops.DefaultWorkers()
	}
	return o.Workers
}

func (o Options) reporter() status.Reporter {
	if o.Reporter == nil {
		return status.New(nil)
	}
	return o.Reporter
}

// 🎯 Operation is one prepared run between a source and a destination tree
type Operation interface {
	// Execute runs the operation. Only scan failures are returned; per-entry
	// failures go to the reporter.
	Execute(ctx context.Context) error
	// Mode names the operation for display
	Mode() string
}

// 🏭 New returns a copy operation when FlagCopy is set and a synchronize
// operation otherwise
func New(src, dest string, opts Options) Operation {
	base := newBaseOperation(src, dest, opts)
	if opts.Flags.Has(FlagCopy) {
		return &copyOperation{baseOperation: base}
	}
	return &syncOperation{baseOperation: base}
}

// Run executes the operation selected by opts.Flags
func Run(ctx context.Context, src, dest string, opts Options) error {
	return New(src, dest, opts).Execute(ctx)
}

// 🔄 Synchronize makes dest mirror src
func Synchronize(ctx context.Context, src, dest string, opts Options) error {
	opts.Flags &^= FlagCopy
	return Run(ctx, src, dest, opts)
}

// 📦 Copy copies every entry of src into dest without comparing or deleting
func Copy(ctx context.Context, src, dest string, opts Options) error {
	opts.Flags |= FlagCopy
	return Run(ctx, src, dest, opts)
}

// baseOperation wires the shared collaborators for both modes
type baseOperation struct {
	src     string
	dest    string
	opts    Options
	workers int

	copier     *fileops.Copier
	comparator *fileops.Comparator
	deleter    *fileops.Deleter
}

func newBaseOperation(src, dest string, opts Options) baseOperation {
	workers := opts.workers()
	reporter := opts.reporter()

	copier := &fileops.Copier{SrcRoot: src, DestRoot: dest, Workers: workers, Reporter: reporter}
	return baseOperation{
		src:        src,
		dest:       dest,
		opts:       opts,
		workers:    workers,
		copier:     copier,
		comparator: &fileops.Comparator{Copier: copier, Checksum: opts.Checksum},
		deleter: &fileops.Deleter{
			Root:     dest,
			Workers:  workers,
			Secure:   opts.Flags.Has(FlagSecure),
			Remover:  opts.Remover,
			Reporter: reporter,
		},
	}
}

func (b *baseOperation) scan(ctx context.Context, root, which string) (*fileset.FileSets, error) {
	sets, err := fileset.Scan(ctx, root, fileset.WithExclude(b.opts.Exclude...))
	if err != nil {
		return nil, errors.Errorf("scanning %s: %w", which, err)
	}
	zerolog.Ctx(ctx).Debug().
		Str("root", sets.Root).
		Int("files", sets.Files.Len()).
		Int("dirs", sets.Dirs.Len()).
		Int("symlinks", sets.Symlinks.Len()).
		Msgf("scanned %s", which)
	return sets, nil
}

// syncOperation makes the destination identical to the source
type syncOperation struct {
	baseOperation
}

func (op *syncOperation) Mode() string {
	return "synchronize"
}

// Execute runs the phases in an order that keeps concurrent work from
// colliding: nothing is written below a directory that is still being removed,
// and a directory is removed only after everything below it.
func (op *syncOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	src, err := op.scan(ctx, op.src, "source")
	if err != nil {
		return err
	}
	dest, err := op.scan(ctx, op.dest, "destination")
	if err != nil {
		return err
	}

	plan := Classify(src, dest, op.opts.Flags, op.workers)
	logger.Debug().Object("plan", plan).Str("flags", op.opts.Flags.String()).Msg("classified entries")

	op.deleter.DeleteEntries(ctx, fileset.Symlink, plan.SymlinksToDelete)
	op.deleter.DeleteEntries(ctx, fileset.File, plan.FilesToDelete)

	op.copier.CopyDirs(ctx, plan.DirsToCopy)

	op.copier.CopySymlinks(ctx, plan.SymlinksToCopy)
	op.comparator.CompareSymlinks(ctx, plan.SymlinksToCompare)

	op.copier.CopyFiles(ctx, plan.FilesToCopy)
	op.comparator.CompareFiles(ctx, plan.FilesToCompare)

	op.deleter.DeleteEntries(ctx, fileset.Dir, plan.DirsToDelete)

	logger.Debug().Msg("synchronize finished")
	return nil
}

// copyOperation copies every source entry over the destination
type copyOperation struct {
	baseOperation
}

func (op *copyOperation) Mode() string {
	return "copy"
}

// Execute copies directories first so files and symlinks always have a parent
func (op *copyOperation) Execute(ctx context.Context) error {
	src, err := op.scan(ctx, op.src, "source")
	if err != nil {
		return err
	}

	op.copier.CopyDirs(ctx, src.Dirs.Sorted())
	op.copier.CopyFiles(ctx, src.Files.Sorted())
	op.copier.CopySymlinks(ctx, src.Symlinks.Sorted())

	zerolog.Ctx(ctx).Debug().Msg("copy finished")
	return nil
}
