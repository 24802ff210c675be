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
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 40 // Base width for the path
	kindWidth   = 8  // Width for the entry kind
	actionWidth = 10 // Width for the action text
)

// 🎯 FormatEvent formats an event for console display
func FormatEvent(ev Event) string {
	// Determine prefix symbol
	var prefix string
	switch ev.Action {
	case ActionCreated:
		prefix = color.GreenString("✓")
	case ActionUpdated:
		prefix = color.YellowString("⟳")
	case ActionDeleted:
		prefix = color.RedString("✗")
	case ActionFailed:
		prefix = color.New(color.FgRed, color.Bold).Sprint("!")
	default:
		prefix = color.HiBlackString("-")
	}

	// Format parts with padding
	namePart := fmt.Sprintf("%-*s", nameWidth, ev.Path)
	kindPart := color.CyanString("%-*s", kindWidth, ev.Kind.String())
	actionPart := fmt.Sprintf("%-*s", actionWidth, ev.Action.String())

	line := fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		kindPart,
		actionPart,
	)

	switch {
	case ev.Err != nil:
		line += color.RedString(ev.Err.Error())
	case ev.Reason != "":
		line += color.HiBlackString(ev.Reason)
	}
	return strings.TrimRight(line, " ")
}
