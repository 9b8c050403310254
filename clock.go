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

import "github.com/asmsh/deferred/internal/mono"

// Clock is a monotonic nanosecond source. Cells use it to compute their
// absolute deadline at creation and to evaluate expiry afterwards.
//
// The default Clock is the process-local monotonic clock. A fixed or
// scripted Clock can be injected through CellConfig, mainly for testing
// expiry without sleeping.
type Clock func() int64

// monoClock is the default Clock.
func monoClock() int64 {
	return mono.Now()
}
