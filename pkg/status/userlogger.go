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
	"strconv"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback about a run
type UserLogger struct {
	log       zerolog.Logger // for debug/error logging
	formatter FileFormatter
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log:       *zerolog.Ctx(ctx),
		formatter: NewDefaultFileFormatter(),
	}
}

// 📦 LogStart announces the operation about to run
func (u *UserLogger) LogStart(mode, src, dest string) {
	msg := fmt.Sprintf("%s %s → %s", mode, src, dest)
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).Println(msg)
	u.log.Info().Str("mode", mode).Str("source", src).Str("destination", dest).Msg("starting")
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
		pterm.Error.Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
	u.log.Warn().Msg(description)
}

// 📊 LogSummary prints the totals and any per-entry failures of a run
func (u *UserLogger) LogSummary(s Summary, failures []Event) {
	msg := u.formatter.FormatSummary(s)
	if s.Failed > 0 {
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(msg)
	} else {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(msg)
	}

	data := pterm.TableData{
		{"created", "updated", "unchanged", "deleted", "failed"},
		{
			strconv.Itoa(s.Created),
			strconv.Itoa(s.Updated),
			strconv.Itoa(s.Unchanged),
			strconv.Itoa(s.Deleted),
			strconv.Itoa(s.Failed),
		},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		u.log.Debug().Err(err).Msg("rendering summary table")
	}

	for _, ev := range failures {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(u.formatter.FormatEvent(ev))
		if ev.Err != nil {
			pterm.Error.Println(ev.Err)
		}
	}

	u.log.Info().
		Int("created", s.Created).
		Int("updated", s.Updated).
		Int("unchanged", s.Unchanged).
		Int("deleted", s.Deleted).
		Int("failed", s.Failed).
		Msg("run complete")
}
