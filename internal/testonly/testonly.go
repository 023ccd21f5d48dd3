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

// Package testonly provides flash contents for tests.
package testonly

import (
	"encoding/binary"
	"testing"

	"github.com/google/bootarbiter/image"
)

const (
	// AppStart is the application base address used by tests (SAMD21 layout).
	AppStart = 0x2000
	// FlashSize is the flash size used by tests.
	FlashSize = 0x40000
	// StackTop is the initial stack pointer written into test vector tables.
	StackTop = 0x20008000
)

// App returns n bytes of application code whose vector table declares
// StackTop and a reset handler at handler.
func App(t *testing.T, n int, handler uint32) []byte {
	t.Helper()
	if n < 8 {
		t.Fatalf("App: %d bytes is too small for a vector table", n)
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + 3)
	}
	binary.LittleEndian.PutUint32(b[0:4], StackTop)
	binary.LittleEndian.PutUint32(b[4:8], handler)
	return b
}

// Flash returns an erased flash of FlashSize bytes with img written at base.
func Flash(t *testing.T, base uint32, img []byte) image.MemFlash {
	t.Helper()
	f := make(image.MemFlash, FlashSize)
	for i := range f {
		f[i] = 0xff
	}
	if int(base)+len(img) > len(f) {
		t.Fatalf("Flash: %d bytes at %#x do not fit in %#x", len(img), base, FlashSize)
	}
	copy(f[base:], img)
	return f
}

// Wrapped returns app prefixed with a valid metablock.
func Wrapped(t *testing.T, app []byte) []byte {
	t.Helper()
	b, err := image.Wrap(app, nil)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	return b
}
