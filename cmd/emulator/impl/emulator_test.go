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

package impl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/bootarbiter/arbiter"
	"github.com/google/bootarbiter/bootflag"
	"github.com/google/bootarbiter/devices/emulator"
	"github.com/google/bootarbiter/image"
)

func TestRunUpdateThenBoot(t *testing.T) {
	dir := t.TempDir()
	app := []byte{0x00, 0x80, 0x00, 0x20, 0x41, 0x21, 0x00, 0x00}
	img, err := image.Wrap(app, nil)
	if err != nil {
		t.Fatal(err)
	}
	update := filepath.Join(dir, "update.img")
	if err := os.WriteFile(update, img, 0o644); err != nil {
		t.Fatal(err)
	}
	opts := EmulatorOpts{
		DeviceStorage: filepath.Join(dir, "dev"),
		Board:         "samd21",
		ResetCause:    "power-on",
		Policy:        "simple",
		TapWindow:     time.Millisecond,
		AttachAfter:   time.Nanosecond,
		UpdateFile:    update,
	}

	out, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Handoff == nil || out.Handoff.ResetHandler != 0x2141 {
		t.Fatalf("Handoff = %v, want reset handler 0x2141", out.Handoff)
	}

	// The next external reset is a single tap and boots straight away.
	opts.ResetCause = "external"
	opts.UpdateFile = ""
	out, err = Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if out.Handoff == nil || out.Resets != 0 {
		t.Fatalf("second Run = %+v, want an immediate handoff", out)
	}
}

// Consecutive invocations share the flag word, so a reset landing inside the
// tap window of a previous run is seen as a double tap.
func TestDoubleTapAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	b, _ := emulator.LookupBoard("samd21")
	s, err := emulator.OpenStorage(dir, b)
	if err != nil {
		t.Fatal(err)
	}
	s.FlagRegister().Store(bootflag.MagicEnterMaintenance)

	out, err := Run(context.Background(), EmulatorOpts{
		DeviceStorage:  dir,
		Board:          "samd21",
		ResetCause:     "external",
		Policy:         "simple",
		TapWindow:      time.Millisecond,
		MonitorTimeout: 1,
		MaxResets:      1,
	})
	if err == nil {
		t.Fatal("Run on erased flash succeeded")
	}
	if len(out.Verdicts) == 0 || out.Verdicts[0].Detail != arbiter.External.String()+" reset" {
		t.Fatalf("first verdict = %v, want a requested stay", out.Verdicts)
	}
}

func TestBadOpts(t *testing.T) {
	for _, opts := range []EmulatorOpts{
		{DeviceStorage: t.TempDir(), Board: "esp32", ResetCause: "power-on", Policy: "simple"},
		{DeviceStorage: t.TempDir(), Board: "samd21", ResetCause: "brownout?", Policy: "simple"},
		{DeviceStorage: t.TempDir(), Board: "samd21", ResetCause: "power-on", Policy: "triple-tap"},
		{DeviceStorage: t.TempDir(), Board: "samd21", ResetCause: "power-on", Policy: "simple", UpdateFile: "/does/not/exist"},
	} {
		if err := Main(opts); err == nil {
			t.Errorf("Main(%+v) succeeded", opts)
		}
	}
}
