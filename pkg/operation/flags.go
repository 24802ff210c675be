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

import "strings"

// 🚩 Flags selects the mode and behaviour of a run
type Flags uint32

const (
	// FlagCopy runs a one-way copy with no comparison and no deletion
	FlagCopy Flags = 1 << iota
	// FlagNoDelete keeps destination entries that are absent from the source
	FlagNoDelete
	// FlagSecure overwrites deleted files with zeros before unlinking
	FlagSecure
	// FlagVerbose echoes every change to the console
	FlagVerbose
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagCopy, "copy"},
	{FlagNoDelete, "nodelete"},
	{FlagSecure, "secure"},
	{FlagVerbose, "verbose"},
}

// Has reports whether every bit of flag is set
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
