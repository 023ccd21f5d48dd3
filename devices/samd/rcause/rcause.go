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

// Package rcause decodes the SAMD reset cause register. SAMD21 (PM.RCAUSE)
// and SAMD51 (RSTC.RCAUSE) share the bit layout used here.
package rcause

import "github.com/google/bootarbiter/arbiter"

// RCAUSE bits.
const (
	POR  = 0x01
	BOD1 = 0x02
	BOD2 = 0x04
	EXT  = 0x10
	WDT  = 0x20
	SYST = 0x40
)

// Decode maps an RCAUSE value to a reset cause.
//
// Only POR is a power-on reset. Brown-out resets go through the double-tap
// path like any other reset.
func Decode(rc uint8) arbiter.ResetCause {
	switch {
	case rc&POR != 0:
		return arbiter.PowerOn
	case rc&EXT != 0:
		return arbiter.External
	case rc&SYST != 0:
		return arbiter.Software
	case rc&WDT != 0:
		return arbiter.Watchdog
	}
	return arbiter.Other
}
