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

//go:build tinygo && (atsamd21 || atsamd51)

package main

import (
	"device/arm"
	"io"
	"runtime/volatile"
	"unsafe"

	"github.com/google/bootarbiter/bootflag"
	"github.com/google/bootarbiter/transfer"
)

// singleResetMarker is written by applications at appStart+0xb4 to ask for
// single-reset behaviour.
const (
	singleResetOffset = 0xb4
	singleResetMarker = 0x87eeb07c
)

// flagWord is the last word of SRAM.
var flagWord bootflag.Register = sramWord{(*volatile.Register32)(unsafe.Pointer(uintptr(ramEnd - 4)))}

type sramWord struct {
	r *volatile.Register32
}

func (w sramWord) Load() uint32   { return w.r.Get() }
func (w sramWord) Store(v uint32) { w.r.Set(v) }

func singleResetRequested() bool {
	p := (*volatile.Register32)(unsafe.Pointer(uintptr(appStart + singleResetOffset)))
	return p.Get() == singleResetMarker
}

// onChipFlash reads memory-mapped flash directly.
type onChipFlash struct{}

func (onChipFlash) ReadAt(b []byte, off int64) (int, error) {
	if off < 0 || off >= flashSize {
		return 0, io.EOF
	}
	n := len(b)
	if rem := flashSize - off; int64(n) > rem {
		n = int(rem)
	}
	copy(b, unsafe.Slice((*byte)(unsafe.Pointer(uintptr(off))), n))
	if n < len(b) {
		return n, io.EOF
	}
	return n, nil
}

func (onChipFlash) Size() uint32 {
	return flashSize
}

// Slice implements image.Mapped.
func (onChipFlash) Slice(addr, n uint32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), n)
}

const scbVTOR = 0xe000ed08

// cpu performs the handoff in a single asm block, so nothing touches the
// stack between rebasing MSP and the branch.
type cpu struct{}

func (cpu) Jump(h transfer.Handoff) {
	arm.AsmFull(`
		msr msp, {sp}
		str {vtor}, [{scb}]
		dsb
		isb
		bx {pc}
	`, map[string]interface{}{
		"sp":   h.StackPointer,
		"vtor": h.VectorTable,
		"scb":  uintptr(scbVTOR),
		"pc":   h.ResetHandler,
	})
	for {
	}
}
