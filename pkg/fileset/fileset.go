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

// Package fileset scans a directory tree into per-kind sets of root-relative
// paths and provides the set algebra used to classify work between two trees.
package fileset

import (
	"slices"
)

// 🏷️ Kind is the type of a filesystem entry as seen by lstat
type Kind int

const (
	File Kind = iota
	Dir
	Symlink
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Dir:
		return "dir"
	case Symlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// 📦 PathSet is an unordered set of root-relative paths
type PathSet map[string]struct{}

// NewPathSet creates a set holding the given paths
func NewPathSet(paths ...string) PathSet {
	s := make(PathSet, len(paths))
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts a path into the set
func (s PathSet) Add(path string) {
	s[path] = struct{}{}
}

// Contains reports whether path is in the set
func (s PathSet) Contains(path string) bool {
	_, ok := s[path]
	return ok
}

// Len returns the number of paths in the set
func (s PathSet) Len() int {
	return len(s)
}

// Sorted returns the paths in lexicographic order
func (s PathSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// 🌳 FileSets holds the scan result for one root. It is never modified after
// Scan returns, so it can be read from any number of goroutines.
type FileSets struct {
	Root     string
	Files    PathSet
	Dirs     PathSet
	Symlinks PathSet
}

func newFileSets(root string) *FileSets {
	return &FileSets{
		Root:     root,
		Files:    make(PathSet),
		Dirs:     make(PathSet),
		Symlinks: make(PathSet),
	}
}

// Set returns the PathSet for the given kind
func (fs *FileSets) Set(kind Kind) PathSet {
	switch kind {
	case Dir:
		return fs.Dirs
	case Symlink:
		return fs.Symlinks
	default:
		return fs.Files
	}
}

// Kind reports which set holds path, if any
func (fs *FileSets) Kind(path string) (Kind, bool) {
	switch {
	case fs.Files.Contains(path):
		return File, true
	case fs.Dirs.Contains(path):
		return Dir, true
	case fs.Symlinks.Contains(path):
		return Symlink, true
	}
	return 0, false
}

// Len returns the total number of entries across all kinds
func (fs *FileSets) Len() int {
	return fs.Files.Len() + fs.Dirs.Len() + fs.Symlinks.Len()
}
