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

// Package arbiter decides, on every reset, whether the bootloader should stay
// in maintenance mode or go on to validate and start the application.
//
// Two policies are supported. The simple policy implements "double-tap":
// pressing reset twice in quick succession keeps the device in the
// bootloader. The single-reset policy is used on boards which signal in
// hardware that a single reset should enter the bootloader; a short
// quick-boot window then allows the application to be restarted
// automatically if no client attaches.
//
// The Arbiter is the only writer of the persisted boot flag.
package arbiter

import (
	"fmt"
	"time"

	"github.com/google/bootarbiter/bootflag"
)

// ResetCause is the reason for the current reset as reported by the reset controller.
type ResetCause uint8

const (
	// PowerOn is a power-on reset; persisted RAM contents are garbage.
	PowerOn ResetCause = iota
	// External is a reset from the reset pin.
	External
	// Software is a reset requested by code, e.g. NVIC_SystemReset.
	Software
	// Watchdog is a watchdog timeout.
	Watchdog
	// Other is any cause not listed above.
	Other
)

// IsPowerOn returns true if the reset removed power.
func (c ResetCause) IsPowerOn() bool {
	return c == PowerOn
}

func (c ResetCause) String() string {
	switch c {
	case PowerOn:
		return "power-on"
	case External:
		return "external"
	case Software:
		return "software"
	case Watchdog:
		return "watchdog"
	}
	return "other"
}

// Decision is the outcome of classifying a reset.
type Decision uint8

const (
	// Stay means remain in maintenance mode.
	Stay Decision = iota
	// Continue means go on to validate the application image.
	Continue
)

func (d Decision) String() string {
	if d == Continue {
		return "continue"
	}
	return "stay"
}

// Policy selects how resets are interpreted. It is fixed per build.
type Policy uint8

const (
	// SimplePolicy is double-tap detection.
	SimplePolicy Policy = iota
	// SingleResetPolicy enters maintenance on a single reset when the board requests it.
	SingleResetPolicy
)

func (p Policy) String() string {
	switch p {
	case SimplePolicy:
		return "simple"
	case SingleResetPolicy:
		return "single-reset"
	}
	return fmt.Sprintf("Policy(%d)", uint8(p))
}

// ParsePolicy returns the policy named by s.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "simple", "double-tap":
		return SimplePolicy, nil
	case "single-reset":
		return SingleResetPolicy, nil
	}
	return 0, fmt.Errorf("unknown policy %q", s)
}

// Config holds the build-time parameters of the arbiter.
type Config struct {
	// Policy selects the reset interpretation. SingleResetPolicy needs a
	// Ticker to time the quick-boot window.
	Policy Policy
	// TapWindow is how long a second reset will be interpreted as a double-tap.
	TapWindow time.Duration
	// QuickBootTicks is the length of the single-reset quick-boot window, in
	// ticks of the free-running high counter.
	QuickBootTicks uint32
}

// DefaultConfig returns the parameters used on SAMD boards.
func DefaultConfig() Config {
	return Config{
		Policy:         SimplePolicy,
		TapWindow:      500 * time.Millisecond,
		QuickBootTicks: 50,
	}
}

// Sleeper waits for a fixed duration. It is never cancelled.
type Sleeper interface {
	Sleep(time.Duration)
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(time.Duration)

// Sleep implements Sleeper.
func (f SleeperFunc) Sleep(d time.Duration) { f(d) }

// RealSleeper waits using the runtime timer.
var RealSleeper Sleeper = SleeperFunc(time.Sleep)

// Ticker is the free-running high counter which advances while in maintenance mode.
type Ticker interface {
	Ticks() uint32
}

// Arbiter owns the persisted boot flag and the quick-boot window.
type Arbiter struct {
	cfg    Config
	flag   *bootflag.Cell
	sleep  Sleeper
	ticks  Ticker
	window Window
}

// New creates an arbiter over the given flag register.
//
// ticks may be nil if the single-reset policy is not in use; New panics if
// it is, as the quick-boot window could never expire.
func New(r bootflag.Register, sleep Sleeper, ticks Ticker, cfg Config) *Arbiter {
	if cfg.Policy == SingleResetPolicy && ticks == nil {
		panic("arbiter: single-reset policy requires a Ticker")
	}
	if sleep == nil {
		sleep = RealSleeper
	}
	return &Arbiter{
		cfg:   cfg,
		flag:  bootflag.NewCell(r),
		sleep: sleep,
		ticks: ticks,
	}
}

// Flag returns the current decoded flag.
func (a *Arbiter) Flag() bootflag.Flag {
	return a.flag.Get()
}

// Window returns the quick-boot window.
func (a *Arbiter) Window() *Window {
	return &a.window
}

// Classify interprets the reset which has just happened.
//
// singleReset is the board's hardware signal requesting single-reset mode; it
// is ignored unless the arbiter was built with SingleResetPolicy.
//
// Under the simple policy a reset that is neither power-on nor a deliberate
// double-tap sets EnterMaintenance and then blocks for the tap window, so that
// a second reset arriving during the wait is seen as a double-tap by the next
// call to Classify.
func (a *Arbiter) Classify(cause ResetCause, singleReset bool) Decision {
	f := a.flag.Get()

	if a.cfg.Policy == SingleResetPolicy && singleReset {
		if cause.IsPowerOn() || f != bootflag.QuickBootPending {
			// A second reset while this is still set goes to the application.
			a.flag.Set(bootflag.QuickBootPending)
			a.armWindow()
			return Stay
		}
	}

	switch {
	case cause.IsPowerOn():
		a.flag.Clear()
		return Continue
	case f == bootflag.EnterMaintenance:
		a.flag.Clear()
		return Stay
	}

	if f != bootflag.QuickBootPending {
		// The write must land before the wait starts.
		a.flag.Set(bootflag.EnterMaintenance)
		a.sleep.Sleep(a.cfg.TapWindow)
	}
	a.flag.Clear()
	return Continue
}

func (a *Arbiter) armWindow() {
	a.window.Arm(a.ticks.Ticks(), a.cfg.QuickBootTicks)
}

// ClientAttached is called by the maintenance monitor once a host has
// enumerated the device. It cancels any pending quick-boot window.
func (a *Arbiter) ClientAttached() {
	a.window.Cancel()
}

// QuickBootDue returns true once the quick-boot window has expired.
func (a *Arbiter) QuickBootDue() bool {
	if a.ticks == nil {
		return false
	}
	return a.window.Expired(a.ticks.Ticks())
}

// RequestQuickBoot marks the next reset as one which should start the
// application without the double-tap wait. The caller is expected to reset
// the device immediately afterwards.
func (a *Arbiter) RequestQuickBoot() {
	a.window.Cancel()
	a.flag.Set(bootflag.QuickBootPending)
}
