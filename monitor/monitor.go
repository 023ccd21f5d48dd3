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

// Package monitor runs maintenance mode: it waits for an update agent to
// attach over USB or serial and hands the link to an update session.
//
// The USB stack, the UART and the update protocol itself are provided by the
// caller.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/google/bootarbiter/arbiter"
)

// DefaultTimeout is the number of polling iterations before giving up, about 5s on SAMD parts.
const DefaultTimeout = 100000

var (
	// ErrTimeout is returned when no agent attached in time and the device was reset.
	ErrTimeout = errors.New("no update agent attached")
	// ErrQuickBoot is returned when the quick-boot window expired and the device was reset into the application.
	ErrQuickBoot = errors.New("quick-boot window expired")
)

// Interface is the link an update session runs over.
type Interface uint8

const (
	// USB is the CDC/MSC USB link.
	USB Interface = iota
	// UART is the serial link.
	UART
)

func (i Interface) String() string {
	switch i {
	case USB:
		return "usb"
	case UART:
		return "uart"
	}
	return fmt.Sprintf("Interface(%d)", uint8(i))
}

// Link reports USB enumeration.
type Link interface {
	// Enumerated returns true once a host has configured the device.
	Enumerated() bool
}

// Serial reports activity on the UART.
type Serial interface {
	// SharpReceived returns true once a '#' has been received.
	SharpReceived() bool
}

// Session is an update protocol, e.g. SAM-BA or mass storage.
type Session interface {
	// Run serves the update agent on the given link until it is done.
	Run(ctx context.Context, on Interface) error
}

// Resetter restarts the device. On hardware SystemReset does not return.
type Resetter interface {
	SystemReset()
}

// Opts configures Run.
type Opts struct {
	// Arbiter owns the boot flag and the quick-boot window.
	Arbiter *arbiter.Arbiter
	USB     Link
	// Serial may be nil if the board has no UART monitor.
	Serial  Serial
	Session Session
	Reset   Resetter
	// Timeout is the number of iterations to wait; zero means DefaultTimeout.
	Timeout int
	// Idle is called on each iteration while nothing is attached, to give
	// predictable loop timing. It may be nil.
	Idle arbiter.Sleeper
	// IdleFor is passed to Idle.
	IdleFor time.Duration
}

// Run waits for an update agent and runs the session for it.
//
// It returns the session's result once an agent has attached. Otherwise it
// resets the device, either into the application when the quick-boot window
// expires (ErrQuickBoot) or after the timeout (ErrTimeout).
func Run(ctx context.Context, opts Opts) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	for i := 0; i < timeout; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if opts.Arbiter.QuickBootDue() {
			glog.Info("Quick-boot window expired, resetting into application")
			opts.Arbiter.RequestQuickBoot()
			opts.Reset.SystemReset()
			return ErrQuickBoot
		}

		if opts.USB.Enumerated() {
			glog.Info("USB enumerated, cancelling quick-boot window")
			opts.Arbiter.ClientAttached()
			return serve(ctx, opts.Session, USB)
		}
		if opts.Serial != nil && opts.Serial.SharpReceived() {
			return serve(ctx, opts.Session, UART)
		}

		if opts.Idle != nil {
			opts.Idle.Sleep(opts.IdleFor)
		}
	}

	glog.Infof("Nothing attached after %d iterations, resetting", timeout)
	opts.Reset.SystemReset()
	return ErrTimeout
}

func serve(ctx context.Context, s Session, on Interface) error {
	glog.Infof("Entering monitor over %v", on)
	if err := s.Run(ctx, on); err != nil {
		return fmt.Errorf("%v session: %w", on, err)
	}
	return nil
}
