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
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/lumins/pkg/fileset"
)

// 📊 Action is the outcome of processing one entry
type Action int

const (
	ActionUnknown   Action = iota
	ActionCreated          // Entry did not exist in destination
	ActionUpdated          // Entry existed but differed and was rewritten
	ActionUnchanged        // Entry existed and matched
	ActionDeleted          // Entry was removed from destination
	ActionFailed           // Processing the entry failed
)

// String returns a string representation of Action
func (a Action) String() string {
	switch a {
	case ActionCreated:
		return "created"
	case ActionUpdated:
		return "updated"
	case ActionUnchanged:
		return "unchanged"
	case ActionDeleted:
		return "deleted"
	case ActionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Event describes what happened to a single entry
type Event struct {
	Path   string       // Path relative to the synchronization root
	Kind   fileset.Kind // Kind of the entry
	Action Action       // Outcome
	Op     string       // Operation attempted: copy, compare or delete
	Reason string       // Why an entry was updated (size, content, target...)
	Err    error        // Set when Action is ActionFailed
}

// 📈 Reporter receives per-entry events. Implementations must be safe for
// concurrent use, events arrive from every worker.
type Reporter interface {
	Report(ctx context.Context, ev Event)
}

// ReporterFunc adapts a function to the Reporter interface
type ReporterFunc func(ctx context.Context, ev Event)

func (f ReporterFunc) Report(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// Discard is a Reporter that drops every event
var Discard Reporter = ReporterFunc(func(context.Context, Event) {})

// 🧮 Summary counts events by action
type Summary struct {
	Created   int
	Updated   int
	Unchanged int
	Deleted   int
	Failed    int
}

// Changes returns the number of entries that were written or removed
func (s Summary) Changes() int {
	return s.Created + s.Updated + s.Deleted
}

func (s Summary) String() string {
	return fmt.Sprintf("%d created, %d updated, %d unchanged, %d deleted, %d failed",
		s.Created, s.Updated, s.Unchanged, s.Deleted, s.Failed)
}

func (s *Summary) add(a Action) {
	switch a {
	case ActionCreated:
		s.Created++
	case ActionUpdated:
		s.Updated++
	case ActionUnchanged:
		s.Unchanged++
	case ActionDeleted:
		s.Deleted++
	case ActionFailed:
		s.Failed++
	}
}

// 🔧 Manager records every event of a run. It logs each one through the
// context logger and, when a console is set, echoes changed entries to it.
type Manager struct {
	console   io.Writer     // Optional console for verbose output
	formatter FileFormatter // Formatter for log messages

	mu       sync.Mutex
	events   map[string]Event
	failures []Event
	summary  Summary
}

// 🏭 New creates a new status manager. A nil console disables echoing.
func New(console io.Writer) *Manager {
	return &Manager{
		console:   console,
		formatter: NewDefaultFileFormatter(),
		events:    make(map[string]Event),
	}
}

var _ Reporter = (*Manager)(nil)

// Report implements Reporter
func (m *Manager) Report(ctx context.Context, ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events[eventKey(ev)] = ev
	m.summary.add(ev.Action)

	logger := zerolog.Ctx(ctx)
	msg := m.formatter.FormatEvent(ev)
	if ev.Action == ActionFailed {
		m.failures = append(m.failures, ev)
		logger.Error().
			Err(ev.Err).
			Str("path", ev.Path).
			Str("kind", ev.Kind.String()).
			Str("op", ev.Op).
			Msg(msg)
	} else {
		logger.Debug().
			Str("path", ev.Path).
			Str("kind", ev.Kind.String()).
			Str("action", ev.Action.String()).
			Str("reason", ev.Reason).
			Msg(msg)
	}

	if m.console != nil && ev.Action != ActionUnchanged {
		fmt.Fprintln(m.console, FormatEvent(ev))
	}
}

// GetEvent returns the last event recorded for a path and kind
func (m *Manager) GetEvent(kind fileset.Kind, path string) (Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev, ok := m.events[eventKey(Event{Kind: kind, Path: path})]
	return ev, ok
}

// Events returns every recorded event ordered by path
func (m *Manager) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Event, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev)
	}
	slices.SortFunc(out, func(a, b Event) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return int(a.Kind) - int(b.Kind)
	})
	return out
}

// Failures returns the failed events in the order they were reported
func (m *Manager) Failures() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.failures)
}

// Summary returns the counts for everything recorded so far
func (m *Manager) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.summary
}

// Reset forgets all recorded events, used between watch runs
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = make(map[string]Event)
	m.failures = nil
	m.summary = Summary{}
}

// a path may be deleted as a symlink and recreated as a file in one run
func eventKey(ev Event) string {
	return ev.Kind.String() + ":" + ev.Path
}
