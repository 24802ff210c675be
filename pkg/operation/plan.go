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
	"github.com/rs/zerolog"
	"github.com/walteh/lumins/pkg/fileset"
)

// 📋 Plan holds the work buckets of one synchronize run. Every bucket is
// lexicographically sorted.
type Plan struct {
	DirsToCopy        []string
	SymlinksToCopy    []string
	SymlinksToCompare []string
	FilesToCopy       []string
	FilesToCompare    []string
	SymlinksToDelete  []string
	FilesToDelete     []string
	DirsToDelete      []string
}

// Classify splits the two trees into work buckets. With FlagNoDelete the
// delete buckets stay empty.
func Classify(src, dest *fileset.FileSets, flags Flags, workers int) *Plan {
	p := &Plan{
		DirsToCopy:        src.Dirs.Difference(dest.Dirs, workers).Sorted(),
		SymlinksToCopy:    src.Symlinks.Difference(dest.Symlinks, workers).Sorted(),
		SymlinksToCompare: src.Symlinks.Intersection(dest.Symlinks, workers).Sorted(),
		FilesToCopy:       src.Files.Difference(dest.Files, workers).Sorted(),
		FilesToCompare:    src.Files.Intersection(dest.Files, workers).Sorted(),
	}

	if !flags.Has(FlagNoDelete) {
		p.SymlinksToDelete = dest.Symlinks.Difference(src.Symlinks, workers).Sorted()
		p.FilesToDelete = dest.Files.Difference(src.Files, workers).Sorted()
		p.DirsToDelete = dest.Dirs.Difference(src.Dirs, workers).Sorted()
	}

	return p
}

// Len is the total number of entries the plan touches
func (p *Plan) Len() int {
	return len(p.DirsToCopy) + len(p.SymlinksToCopy) + len(p.SymlinksToCompare) +
		len(p.FilesToCopy) + len(p.FilesToCompare) +
		len(p.SymlinksToDelete) + len(p.FilesToDelete) + len(p.DirsToDelete)
}

// MarshalZerologObject logs the bucket sizes
func (p *Plan) MarshalZerologObject(e *zerolog.Event) {
	e.Int("dirs_to_copy", len(p.DirsToCopy)).
		Int("symlinks_to_copy", len(p.SymlinksToCopy)).
		Int("symlinks_to_compare", len(p.SymlinksToCompare)).
		Int("files_to_copy", len(p.FilesToCopy)).
		Int("files_to_compare", len(p.FilesToCompare)).
		Int("symlinks_to_delete", len(p.SymlinksToDelete)).
		Int("files_to_delete", len(p.FilesToDelete)).
		Int("dirs_to_delete", len(p.DirsToDelete))
}
