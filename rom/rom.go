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

// Package rom is the first thing the bootloader runs after a reset.
//
// It classifies the reset, validates the application image and, if both
// allow it, jumps into the application. If Reset returns at all, the device
// must remain in maintenance mode.
package rom

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/google/bootarbiter/arbiter"
	"github.com/google/bootarbiter/image"
	"github.com/google/bootarbiter/transfer"
)

// Platform is the hardware the boot sequence runs on. Interrupts are expected
// to be disabled until Reset returns.
type Platform interface {
	transfer.CPU

	// ResetCause reports why the device was reset.
	ResetCause() arbiter.ResetCause
	// SingleResetRequested reports the board's single-reset mode signal.
	SingleResetRequested() bool
	// VectorTableBase returns the current value of VTOR.
	VectorTableBase() uint32
	// Flash returns the on-chip flash.
	Flash() image.Flash
	// Halt stops the processor. It must not return.
	Halt()
}

// Config describes the memory layout the bootloader was built for.
type Config struct {
	// AppStart is the address at which application images are flashed.
	AppStart uint32
	// Checksum is used to validate images with a metablock. Nil means CRC-16-CCITT.
	Checksum image.Checksum
}

// Reason says why the device is remaining in maintenance mode.
type Reason uint8

const (
	// Requested means the reset was a double-tap or a single-reset request.
	Requested Reason = iota
	// InvalidImage means the image metablock did not match its contents.
	InvalidImage
	// Refused means the image's vector table was rejected.
	Refused
)

func (r Reason) String() string {
	switch r {
	case Requested:
		return "maintenance requested"
	case InvalidImage:
		return "invalid image"
	case Refused:
		return "handoff refused"
	}
	return fmt.Sprintf("Reason(%d)", uint8(r))
}

// Verdict is returned when the bootloader remains in maintenance mode.
type Verdict struct {
	Reason Reason
	Detail string
}

func (v Verdict) String() string {
	if v.Detail == "" {
		return v.Reason.String()
	}
	return fmt.Sprintf("%v: %s", v.Reason, v.Detail)
}

// Reset runs the boot decision for the current reset.
//
// On success control passes to the application and Reset never returns. If
// VTOR has already been moved away from the bootloader the boot logic is being
// re-entered from an application, and the processor is halted.
func Reset(p Platform, arb *arbiter.Arbiter, cfg Config) Verdict {
	if vtor := p.VectorTableBase(); vtor != 0 {
		glog.Errorf("VTOR is %#x, refusing to re-run boot logic", vtor)
		p.Halt()
		panic("rom: Halt returned")
	}

	cause := p.ResetCause()
	if d := arb.Classify(cause, p.SingleResetRequested()); d == arbiter.Stay {
		glog.Infof("%v reset: staying in bootloader", cause)
		return Verdict{Reason: Requested, Detail: cause.String() + " reset"}
	}

	f := p.Flash()
	var entry uint32
	switch r := (image.Validator{Checksum: cfg.Checksum}).Validate(f, cfg.AppStart).(type) {
	case image.Valid:
		glog.Infof("Application verified: %v", r)
		entry = r.Entry
	case image.Legacy:
		glog.Infof("No metablock, starting %v unverified", r)
		entry = r.Entry
	case image.InvalidMetadata:
		glog.Warningf("Not starting application: %v", r)
		return Verdict{Reason: InvalidImage, Detail: r.Reason}
	default:
		panic(fmt.Sprintf("rom: unknown validation result %T", r))
	}

	h, err := transfer.Prepare(f, entry)
	if err != nil {
		glog.Warningf("Not starting application: %v", err)
		return Verdict{Reason: Refused, Detail: err.Error()}
	}
	glog.Infof("Starting application: %v", h)
	glog.Flush()
	transfer.Commit(p, h)
	panic("unreachable")
}
