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

// Package bootflag holds the single word of state which survives a reset
// that does not remove power.
//
// The word lives at a fixed address outside of the normal memory allocator
// (on SAMD parts, the last word of SRAM). It is only ever read and written
// through a Cell, which restricts it to the three states the bootloader
// understands.
package bootflag

import "fmt"

const (
	// MagicEnterMaintenance is the encoding of EnterMaintenance.
	MagicEnterMaintenance uint32 = 0xf01669ef
	// MagicQuickBoot is the encoding of QuickBootPending.
	MagicQuickBoot uint32 = 0xf02669ef
)

// Flag is the decoded state of the persisted boot word.
type Flag uint8

const (
	// None means no request is pending for the next reset.
	None Flag = iota
	// EnterMaintenance means the next non power-on reset should stay in the bootloader.
	EnterMaintenance
	// QuickBootPending means the next reset should go straight to the application.
	QuickBootPending
)

func (f Flag) String() string {
	switch f {
	case None:
		return "none"
	case EnterMaintenance:
		return "enter-maintenance"
	case QuickBootPending:
		return "quick-boot-pending"
	}
	return fmt.Sprintf("Flag(%d)", uint8(f))
}

// Decode returns the Flag encoded by w.
//
// Only the two exact magic values decode to a request; every other word,
// including torn or uninitialised RAM contents, decodes as None.
func Decode(w uint32) Flag {
	switch w {
	case MagicEnterMaintenance:
		return EnterMaintenance
	case MagicQuickBoot:
		return QuickBootPending
	}
	return None
}

// Word returns the encoding of f which should be stored in the register.
func (f Flag) Word() uint32 {
	switch f {
	case EnterMaintenance:
		return MagicEnterMaintenance
	case QuickBootPending:
		return MagicQuickBoot
	}
	return 0
}

// Register is the raw memory word backing the flag.
type Register interface {
	// Load returns the current contents of the word.
	Load() uint32
	// Store overwrites the word.
	Store(uint32)
}

// Cell is a typed view onto a Register.
type Cell struct {
	r Register
}

// NewCell wraps r.
func NewCell(r Register) *Cell {
	return &Cell{r: r}
}

// Get returns the normalised flag.
func (c *Cell) Get() Flag {
	return Decode(c.r.Load())
}

// Set stores the encoding of f.
func (c *Cell) Set(f Flag) {
	c.r.Store(f.Word())
}

// Clear resets the flag to None.
func (c *Cell) Clear() {
	c.r.Store(None.Word())
}

// Word is a Register held in ordinary memory.
type Word uint32

// Load implements Register.
func (w *Word) Load() uint32 {
	return uint32(*w)
}

// Store implements Register.
func (w *Word) Store(v uint32) {
	*w = Word(v)
}
