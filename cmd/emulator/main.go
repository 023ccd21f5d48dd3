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

// emulator runs the bootloader's reset logic against an emulated device.
//
// Device state (flash contents and the boot flag word which survives a reset)
// is kept in --device_storage, so that consecutive invocations behave like
// consecutive resets of the same board.
//
// Usage:
//
//	go run ./cmd/emulator --logtostderr --device_storage=/tmp/samd --reset_cause=external
//
// Running it again with --second_tap emulates pressing reset twice. With
// --listen and --attach_after the device waits in maintenance mode for
// `mkimage --emulator_url` to send it an image.
package main

import (
	"flag"
	"time"

	"github.com/golang/glog"
	"github.com/google/bootarbiter/cmd/emulator/impl"
)

var (
	deviceStorage  = flag.String("device_storage", "/tmp/bootarbiter_device", "Directory path of the emulated device's state storage")
	board          = flag.String("board", "samd21", "One of [samd21, samd51]")
	boardConfig    = flag.String("board_config", "", "Optional JSON file describing a custom memory map; overrides --board")
	resetCause     = flag.String("reset_cause", "power-on", "One of [power-on, external, software, watchdog]")
	policy         = flag.String("policy", "simple", "One of [simple, single-reset]")
	singleReset    = flag.Bool("single_reset", false, "Assert the board's single-reset mode signal")
	secondTap      = flag.Bool("second_tap", false, "Press reset again during the double-tap window")
	vtor           = flag.Uint("vtor", 0, "Vector table base found on entry; non-zero emulates re-entry")
	tapWindow      = flag.Duration("tap_window", 500*time.Millisecond, "Double-tap detection window")
	attachAfter    = flag.Duration("attach_after", 0, "Enumerate over USB this long after entering maintenance mode; 0 never attaches")
	sharp          = flag.Bool("uart_sharp", false, "Send '#' over the UART when in maintenance mode")
	updateFile     = flag.String("update_file", "", "Image written by the update session, as produced by mkimage")
	listen         = flag.String("listen", "", "Address to accept update images on over HTTP, e.g. localhost:8080; overrides --update_file")
	monitorTimeout = flag.Int("monitor_timeout", 100000, "Maintenance loop iterations before resetting")
	monitorIdle    = flag.Duration("monitor_idle", 50*time.Microsecond, "Pause between maintenance loop iterations")
	maxResets      = flag.Int("max_resets", 3, "Give up after this many resets")
)

func main() {
	flag.Parse()

	if err := impl.Main(impl.EmulatorOpts{
		DeviceStorage:  *deviceStorage,
		Board:          *board,
		BoardConfig:    *boardConfig,
		ResetCause:     *resetCause,
		Policy:         *policy,
		SingleReset:    *singleReset,
		SecondTap:      *secondTap,
		VTOR:           uint32(*vtor),
		TapWindow:      *tapWindow,
		AttachAfter:    *attachAfter,
		Sharp:          *sharp,
		UpdateFile:     *updateFile,
		ListenAddr:     *listen,
		MonitorTimeout: *monitorTimeout,
		MonitorIdle:    *monitorIdle,
		MaxResets:      *maxResets,
	}); err != nil {
		glog.Exitf("emulator: %v", err)
	}
	glog.Flush()
}
