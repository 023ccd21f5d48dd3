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

// Package transfer hands control from the bootloader to a validated
// application image.
//
// The handoff is split in two: Prepare reads the application's vector table
// and checks it, and Commit performs the irreversible jump. Only Prepare can
// fail.
package transfer

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/bootarbiter/image"
)

// VectorTableMask is the SCB->VTOR TBLOFF field on Cortex-M0+ and Cortex-M4.
const VectorTableMask uint32 = 0xffffff80

var (
	// ErrResetHandlerOutOfRange means the image's reset handler does not point into the image.
	ErrResetHandlerOutOfRange = errors.New("reset handler out of range")
	// ErrUnreadable means the vector table could not be read from flash.
	ErrUnreadable = errors.New("vector table unreadable")
)

// Handoff holds everything needed to start an application.
type Handoff struct {
	// Entry is the address of the application's vector table in flash.
	Entry uint32
	// StackPointer is the initial main stack pointer, vector 0.
	StackPointer uint32
	// ResetHandler is the address branched to, vector 1.
	ResetHandler uint32
	// VectorTable is the value written to VTOR.
	VectorTable uint32
}

func (h Handoff) String() string {
	return fmt.Sprintf("entry=%#x sp=%#x reset=%#x vtor=%#x", h.Entry, h.StackPointer, h.ResetHandler, h.VectorTable)
}

// Prepare reads the vector table at entry and checks that the reset handler
// lies within [entry, end of flash].
func Prepare(f image.Flash, entry uint32) (Handoff, error) {
	var vt [8]byte
	if n, err := f.ReadAt(vt[:], int64(entry)); n != len(vt) {
		return Handoff{}, fmt.Errorf("%w at %#x: %v", ErrUnreadable, entry, err)
	}
	h := Handoff{
		Entry:        entry,
		StackPointer: binary.LittleEndian.Uint32(vt[0:4]),
		ResetHandler: binary.LittleEndian.Uint32(vt[4:8]),
		VectorTable:  entry & VectorTableMask,
	}
	if h.ResetHandler < entry || h.ResetHandler > f.Size() {
		return Handoff{}, fmt.Errorf("%w: %#x not in [%#x, %#x]", ErrResetHandlerOutOfRange, h.ResetHandler, entry, f.Size())
	}
	return h, nil
}

// CPU performs the final register writes and branch.
type CPU interface {
	// Jump sets the main stack pointer to h.StackPointer, then VTOR to
	// h.VectorTable, then branches to h.ResetHandler. Nothing may touch the
	// stack between the stack pointer write and the branch.
	//
	// Jump must not return.
	Jump(h Handoff)
}

// Commit starts the application described by h. It does not return.
func Commit(cpu CPU, h Handoff) {
	cpu.Jump(h)
	panic(fmt.Sprintf("transfer: CPU returned from jump to %v", h))
}

// Transfer prepares and commits a handoff to the image at entry.
//
// It only returns if the handoff was refused, in which case the bootloader
// must remain in maintenance mode.
func Transfer(f image.Flash, entry uint32, cpu CPU) error {
	h, err := Prepare(f, entry)
	if err != nil {
		return err
	}
	Commit(cpu, h)
	panic("unreachable")
}
