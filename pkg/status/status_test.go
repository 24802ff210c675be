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

package status

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/lumins/pkg/fileset"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 TestManagerConcurrentReports checks counters under concurrent reporters
func TestManagerConcurrentReports(t *testing.T) {
	ctx := testContext(t)
	mgr := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			action := ActionCreated
			if i%2 == 0 {
				action = ActionUnchanged
			}
			mgr.Report(ctx, Event{Path: fmt.Sprintf("f%03d", i), Kind: fileset.File, Action: action})
		}()
	}
	wg.Wait()

	s := mgr.Summary()
	assert.Equal(t, 50, s.Created)
	assert.Equal(t, 50, s.Unchanged)
	assert.Equal(t, 50, s.Changes())
	assert.Len(t, mgr.Events(), 100)
	assert.Equal(t, "f000", mgr.Events()[0].Path, "events are ordered by path")
}

func TestManagerFailuresAndLookup(t *testing.T) {
	ctx := testContext(t)
	mgr := New(nil)

	boom := errors.New("permission denied")
	mgr.Report(ctx, Event{Path: "a", Kind: fileset.File, Action: ActionFailed, Op: "copy", Err: boom})
	mgr.Report(ctx, Event{Path: "a", Kind: fileset.Symlink, Action: ActionDeleted})

	failures := mgr.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "copy", failures[0].Op)
	assert.ErrorIs(t, failures[0].Err, boom)

	ev, ok := mgr.GetEvent(fileset.Symlink, "a")
	require.True(t, ok)
	assert.Equal(t, ActionDeleted, ev.Action)

	ev, ok = mgr.GetEvent(fileset.File, "a")
	require.True(t, ok, "same path with a different kind is tracked separately")
	assert.Equal(t, ActionFailed, ev.Action)

	mgr.Reset()
	assert.Equal(t, Summary{}, mgr.Summary())
	assert.Empty(t, mgr.Failures())
	assert.Empty(t, mgr.Events())
}

func TestManagerConsoleEcho(t *testing.T) {
	color.NoColor = true
	ctx := testContext(t)

	var buf bytes.Buffer
	mgr := New(&buf)
	mgr.Report(ctx, Event{Path: "new.txt", Kind: fileset.File, Action: ActionCreated})
	mgr.Report(ctx, Event{Path: "same.txt", Kind: fileset.File, Action: ActionUnchanged})

	out := buf.String()
	assert.Contains(t, out, "new.txt")
	assert.NotContains(t, out, "same.txt", "unchanged entries are not echoed")
}

func TestReporterFunc(t *testing.T) {
	var got []Event
	r := ReporterFunc(func(_ context.Context, ev Event) { got = append(got, ev) })
	r.Report(context.Background(), Event{Path: "x"})
	Discard.Report(context.Background(), Event{Path: "y"})

	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].Path)
}

func TestActionString(t *testing.T) {
	for action, want := range map[Action]string{
		ActionCreated:   "created",
		ActionUpdated:   "updated",
		ActionUnchanged: "unchanged",
		ActionDeleted:   "deleted",
		ActionFailed:    "failed",
		ActionUnknown:   "unknown",
	} {
		assert.Equal(t, want, action.String())
	}
}

func TestSummaryString(t *testing.T) {
	s := Summary{Created: 1, Updated: 2, Unchanged: 3, Deleted: 4, Failed: 5}
	assert.Equal(t, "1 created, 2 updated, 3 unchanged, 4 deleted, 5 failed", s.String())
	assert.Equal(t, 7, s.Changes())
}
