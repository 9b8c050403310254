// Copyright 2024 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package deferred

import "log/slog"

// Reporter is the error channel for failures that have no caller to
// return to: listener panics, Foreach body panics, and similar
// notification-side errors. They are reported here and never propagated
// to the completing goroutine.
//
// A Reporter is injected per cell through CellConfig, and inherited by
// every cell derived from it. It's never global.
type Reporter interface {
	Report(err error, source, msg string)
}

// SlogReporter returns a Reporter that emits each report as an error
// record on the provided logger. A nil logger uses slog.Default.
func SlogReporter(l *slog.Logger) Reporter {
	if l == nil {
		l = slog.Default()
	}
	return slogReporter{l: l}
}

// DiscardReporter returns a Reporter that drops every report. It's
// meant for tests that intentionally provoke listener errors.
func DiscardReporter() Reporter {
	return discardReporter{}
}

type slogReporter struct{ l *slog.Logger }

func (r slogReporter) Report(err error, source, msg string) {
	r.l.Error(msg, "source", source, "err", err)
}

type discardReporter struct{}

func (discardReporter) Report(err error, source, msg string) {}

// defReporter is used by cells created without an explicit Reporter.
// it's a variable to allow overriding it for the purpose of testing.
var defReporter Reporter = SlogReporter(nil)
