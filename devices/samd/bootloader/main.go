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

// bootloader is the first-stage bootloader for SAMD21 and SAMD51 boards,
// built with TinyGo.
//
// It decides on every reset whether to stay in maintenance mode or to start
// the application flashed at appStart. The linker script must keep the last
// word of SRAM out of .bss and the stack, as it holds the boot flag across
// resets.
//
// Build with:
//
//	tinygo build -target=feather-m0 -o bootloader.uf2 ./devices/samd/bootloader
package main

import (
	"device/arm"
	"machine"
	"time"

	"github.com/google/bootarbiter/arbiter"
	"github.com/google/bootarbiter/image"
	"github.com/google/bootarbiter/transfer"
)

// policy is fixed at build time; boards with a single-reset marker use
// arbiter.SingleResetPolicy.
var policy = arbiter.SimplePolicy

// maintenanceTimeout is how long to wait in maintenance mode before resetting.
const maintenanceTimeout = 5 * time.Second

func main() {
	// VTOR is only non-zero once an application has moved it; running boot
	// logic again from there would leave the hardware inconsistent.
	if arm.SCB.VTOR.Get() != 0 {
		for {
		}
	}

	cfg := arbiter.DefaultConfig()
	cfg.Policy = policy
	start := time.Now()
	arb := arbiter.New(flagWord, arbiter.RealSleeper, ticker{start}, cfg)

	if arb.Classify(resetCause(), singleResetRequested()) == arbiter.Continue {
		var entry uint32
		switch r := image.Validate(onChipFlash{}, appStart).(type) {
		case image.Valid:
			entry = r.Entry
		case image.Legacy:
			entry = r.Entry
		case image.InvalidMetadata:
			println("bootloader:", r.Reason)
		}
		if entry != 0 {
			err := transfer.Transfer(onChipFlash{}, entry, cpu{})
			println("bootloader:", err.Error())
		}
	}

	maintain(arb)
}

// maintain blinks the LED until the quick-boot window expires or the timeout
// passes, then resets. The update protocols hook in here.
func maintain(arb *arbiter.Arbiter) {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	deadline := time.Now().Add(maintenanceTimeout)
	for time.Now().Before(deadline) {
		if arb.QuickBootDue() {
			arb.RequestQuickBoot()
			arm.SystemReset()
		}
		led.Set(!led.Get())
		time.Sleep(100 * time.Millisecond)
	}
	arm.SystemReset()
}

// ticker is the high counter, advancing every tickPeriod since boot.
type ticker struct {
	start time.Time
}

const tickPeriod = 30 * time.Millisecond

func (t ticker) Ticks() uint32 {
	return uint32(time.Since(t.start) / tickPeriod)
}
