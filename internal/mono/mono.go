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

// Package mono provides a process-local monotonic nanosecond source.
//
// The values it returns are offsets from an arbitrary base captured at
// process start, so they are meaningful only relative to each other,
// never across processes. They are immune to wall-clock adjustments.
package mono

import "time"

// base anchors the monotonic readings. time.Since uses the monotonic
// clock reading embedded in it.
var base = time.Now()

// Now returns the current monotonic reading, in nanoseconds since an
// arbitrary process-local base.
func Now() int64 {
	return int64(time.Since(base))
}
