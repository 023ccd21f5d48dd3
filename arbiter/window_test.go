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

import (
	"math"
	"testing"
)

func TestWindow(t *testing.T) {
	for _, test := range []struct {
		desc  string
		start uint32
		n     uint32
		now   uint32
		want  bool
	}{
		{desc: "before horizon", start: 10, n: 50, now: 30, want: false},
		{desc: "at horizon", start: 10, n: 50, now: 60, want: false},
		{desc: "past horizon", start: 10, n: 50, now: 61, want: true},
		{desc: "wrapped, not yet due", start: math.MaxUint32 - 10, n: 50, now: 5, want: false},
		{desc: "wrapped, due", start: math.MaxUint32 - 10, n: 50, now: 40, want: true},
		{desc: "counter before start", start: 10, n: 50, now: 9, want: false},
	} {
		t.Run(test.desc, func(t *testing.T) {
			var w Window
			w.Arm(test.start, test.n)
			if got := w.Expired(test.now); got != test.want {
				t.Fatalf("Expired(%d) = %t, want %t", test.now, got, test.want)
			}
		})
	}
}

func TestWindowZeroValue(t *testing.T) {
	var w Window
	if w.Armed() || w.Expired(math.MaxUint32) {
		t.Fatal("zero Window is armed")
	}
	w.Arm(0, 1)
	w.Cancel()
	if w.Armed() || w.Expired(100) {
		t.Fatal("cancelled Window still armed")
	}
}
