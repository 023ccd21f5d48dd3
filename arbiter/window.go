// Copyright 2026 Google LLC. All Rights Reserved.
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

package arbiter

// Window is a deadline measured on a free-running 32 bit tick counter.
// The zero value is disarmed.
type Window struct {
	armed   bool
	horizon uint32
}

// Arm starts the window at now; it expires once more than n ticks have passed.
func (w *Window) Arm(now, n uint32) {
	w.armed = true
	w.horizon = now + n
}

// Cancel disarms the window.
func (w *Window) Cancel() {
	w.armed = false
	w.horizon = 0
}

// Armed returns true if the window has been armed and not cancelled.
func (w *Window) Armed() bool {
	return w.armed
}

// Expired returns true if the window is armed and now is past its horizon.
// Counter wrap-around is handled as long as the window is shorter than 2^31 ticks.
func (w *Window) Expired(now uint32) bool {
	return w.armed && int32(now-w.horizon) > 0
}
