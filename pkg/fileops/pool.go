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
	"runtime"

	"github.com/walteh/lumins/pkg/status"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is used when a component is configured with no worker count
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// ⚡ forEach runs fn for every path on at most workers goroutines and returns
// once all of them finished. fn reports its own failures, it never stops the
// other entries.
func forEach(workers int, paths []string, fn func(rel string)) {
	if len(paths) == 0 {
		return
	}
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	var eg errgroup.Group
	eg.SetLimit(workers)
	for _, rel := range paths {
		eg.Go(func() error {
			fn(rel)
			return nil
		})
	}
	_ = eg.Wait()
}

func report(ctx context.Context, r status.Reporter, ev status.Event) {
	if r == nil {
		return
	}
	r.Report(ctx, ev)
}
