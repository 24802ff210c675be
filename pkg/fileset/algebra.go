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
	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the smallest chunk worth handing to its own goroutine
const parallelThreshold = 1024

// ➖ Difference returns the paths in s that are not in other
func (s PathSet) Difference(other PathSet, workers int) PathSet {
	return s.filter(workers, func(p string) bool { return !other.Contains(p) })
}

// 🔀 Intersection returns the paths present in both s and other
func (s PathSet) Intersection(other PathSet, workers int) PathSet {
	// iterate the smaller side, membership is symmetric
	if other.Len() < s.Len() {
		s, other = other, s
	}
	return s.filter(workers, other.Contains)
}

// filter keeps the paths for which keep returns true. Large sets are split in
// chunks and filtered concurrently; the sets are only read, so no locking.
func (s PathSet) filter(workers int, keep func(string) bool) PathSet {
	if workers < 1 {
		workers = 1
	}

	if workers == 1 || len(s) < 2*parallelThreshold {
		out := make(PathSet)
		for p := range s {
			if keep(p) {
				out.Add(p)
			}
		}
		return out
	}

	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}

	chunk := max(parallelThreshold, (len(paths)+workers-1)/workers)
	var chunks [][]string
	for start := 0; start < len(paths); start += chunk {
		chunks = append(chunks, paths[start:min(start+chunk, len(paths))])
	}

	results := make([][]string, len(chunks))
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, c := range chunks {
		eg.Go(func() error {
			var kept []string
			for _, p := range c {
				if keep(p) {
					kept = append(kept, p)
				}
			}
			results[i] = kept
			return nil
		})
	}
	_ = eg.Wait()

	out := make(PathSet)
	for _, kept := range results {
		for _, p := range kept {
			out.Add(p)
		}
	}
	return out
}
