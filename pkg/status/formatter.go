package status

import (
	"fmt"
)

// FileFormatter defines how events and summaries are turned into log messages
type FileFormatter interface {
	// FormatEvent formats a single entry event
	FormatEvent(ev Event) string

	// FormatSummary formats the totals of a run
	FormatSummary(s Summary) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatEvent formats an event message with emojis
func (f *DefaultFileFormatter) FormatEvent(ev Event) string {
	switch ev.Action {
	case ActionCreated:
		return fmt.Sprintf("✨ Created %s", ev.Path)
	case ActionUpdated:
		if ev.Reason != "" {
			return fmt.Sprintf("📝 Updated %s (%s)", ev.Path, ev.Reason)
		}
		return fmt.Sprintf("📝 Updated %s", ev.Path)
	case ActionDeleted:
		if ev.Reason != "" {
			return fmt.Sprintf("🗑️  Deleted %s (%s)", ev.Path, ev.Reason)
		}
		return fmt.Sprintf("🗑️  Deleted %s", ev.Path)
	case ActionFailed:
		if ev.Op != "" {
			return fmt.Sprintf("❌ Failed to %s %s", ev.Op, ev.Path)
		}
		return fmt.Sprintf("❌ Failed %s", ev.Path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", ev.Path)
	}
}

// FormatSummary formats the totals of a run
func (f *DefaultFileFormatter) FormatSummary(s Summary) string {
	if s.Failed > 0 {
		return fmt.Sprintf("⚠️  Finished with errors: %s", s)
	}
	return fmt.Sprintf("✅ Finished: %s", s)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return "❌ Unknown error"
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
