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

// Package emulator provides a host-side device which runs the bootloader's
// reset logic against flash and RAM state kept in a local directory.
//
// Each call to Run emulates the device from a reset until it either jumps
// into the application, halts, or has been reset the maximum number of
// times. Jumping and halting end the boot goroutine with runtime.Goexit, so
// like on hardware the boot code never sees them return.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/google/bootarbiter/arbiter"
	"github.com/google/bootarbiter/image"
	"github.com/google/bootarbiter/monitor"
	"github.com/google/bootarbiter/rom"
	"github.com/google/bootarbiter/transfer"
	"golang.org/x/sync/errgroup"
)

// TickPeriod is how often the high counter advances while in maintenance mode.
const TickPeriod = 30 * time.Millisecond

// Opts configures an emulated device.
type Opts struct {
	// Cause is the reason for the first reset.
	Cause arbiter.ResetCause
	// Arbiter holds the policy and timings the bootloader was built with.
	Arbiter arbiter.Config
	// SingleReset is the board's single-reset mode signal.
	SingleReset bool
	// SecondTap presses reset again during the double-tap window.
	SecondTap bool
	// VTOR is the vector table base the bootloader finds on entry.
	VTOR uint32

	// AttachAfter is when a USB host enumerates the device in maintenance
	// mode; zero means never.
	AttachAfter time.Duration
	// Sharp makes the UART report a '#' straight away.
	Sharp bool
	// Update is written to the application area by the update session.
	Update []byte
	// Updates, if set, supplies the update session's image instead of Update.
	Updates UpdateSource

	// MonitorTimeout is the number of monitor iterations before a reset.
	MonitorTimeout int
	// MonitorIdle is the pause between monitor iterations.
	MonitorIdle time.Duration
	// MaxResets bounds how many resets Run will emulate.
	MaxResets int
}

// Outcome describes how an emulated run ended.
type Outcome struct {
	// Handoff is set if the bootloader started the application.
	Handoff *transfer.Handoff
	// Halted is set if the bootloader stopped the processor.
	Halted bool
	// Verdicts holds the reason for every boot which stayed in maintenance mode.
	Verdicts []rom.Verdict
	// Resets is the number of resets after the first.
	Resets int
}

// ErrTooManyResets is returned when the device did not settle within MaxResets.
var ErrTooManyResets = errors.New("too many resets")

// Device is an emulated board. It implements rom.Platform.
type Device struct {
	storage *Storage
	opts    Opts
	flag    *FlagRegister

	// State for the boot in progress.
	flash image.MemFlash
	cause arbiter.ResetCause
	vtor  uint32
	exit  chan exit
	ticks atomic.Uint32
	tap   bool
}

// exit is how a boot goroutine finished without returning from rom.Reset.
type exit struct {
	handoff *transfer.Handoff
	halted  bool
	reset   bool
}

var _ rom.Platform = &Device{}

// New creates a device backed by s.
func New(s *Storage, opts Opts) *Device {
	if opts.MaxResets <= 0 {
		opts.MaxResets = 3
	}
	return &Device{
		storage: s,
		opts:    opts,
		flag:    s.FlagRegister(),
	}
}

// Run emulates the device from a reset with cause opts.Cause.
func (d *Device) Run(ctx context.Context) (Outcome, error) {
	var out Outcome
	cause := d.opts.Cause
	d.vtor = d.opts.VTOR
	d.tap = d.opts.SecondTap

	for {
		glog.Info("----RESET----")
		glog.Infof("Cause: %v", cause)
		if cause.IsPowerOn() {
			d.flag.PowerLoss()
		}
		f, err := d.storage.ReadFlash()
		if err != nil {
			return out, err
		}
		d.flash, d.cause = f, cause
		d.ticks.Store(0)

		arb := arbiter.New(d.flag, arbiter.SleeperFunc(d.tapWindow), d, d.opts.Arbiter)
		v, x := d.boot(arb)
		switch {
		case x.handoff != nil:
			out.Handoff = x.handoff
			return out, nil
		case x.halted:
			out.Halted = true
			return out, nil
		case x.reset:
			glog.Info("Reset pressed during double-tap window")
			cause = arbiter.External
		default:
			out.Verdicts = append(out.Verdicts, *v)
			glog.Infof("Remaining in bootloader: %v", v)
			if err := d.maintain(ctx, arb); err != nil && !errors.Is(err, monitor.ErrTimeout) && !errors.Is(err, monitor.ErrQuickBoot) {
				return out, err
			}
			cause = arbiter.Software
		}

		if out.Resets == d.opts.MaxResets {
			return out, fmt.Errorf("%w: %d", ErrTooManyResets, out.Resets)
		}
		out.Resets++
	}
}

// boot runs rom.Reset on its own goroutine so that Jump and Halt can end it.
func (d *Device) boot(arb *arbiter.Arbiter) (*rom.Verdict, exit) {
	d.exit = make(chan exit, 1)
	done := make(chan rom.Verdict, 1)
	go func() {
		done <- rom.Reset(d, arb, rom.Config{AppStart: d.storage.Board().AppStart})
	}()
	select {
	case v := <-done:
		return &v, exit{}
	case x := <-d.exit:
		return nil, x
	}
}

// maintain runs the monitor with the high counter advancing alongside it.
func (d *Device) maintain(ctx context.Context, arb *arbiter.Arbiter) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var src UpdateSource = staticUpdate(d.opts.Update)
	if d.opts.Updates != nil {
		src = d.opts.Updates
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t := time.NewTicker(TickPeriod)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				d.ticks.Add(1)
			}
		}
	})
	g.Go(func() error {
		defer cancel()
		return monitor.Run(ctx, monitor.Opts{
			Arbiter: arb,
			USB:     usbHost{start: start, after: d.opts.AttachAfter},
			Serial:  uart{sharp: d.opts.Sharp},
			Session: &updateSession{storage: d.storage, src: src, arb: arb},
			Reset:   resetter{},
			Timeout: d.opts.MonitorTimeout,
			Idle:    arbiter.RealSleeper,
			IdleFor: d.opts.MonitorIdle,
		})
	})
	return g.Wait()
}

// tapWindow is the double-tap wait. A second tap resets the device part way through.
func (d *Device) tapWindow(w time.Duration) {
	if d.tap {
		d.tap = false
		d.exit <- exit{reset: true}
		runtime.Goexit()
	}
	time.Sleep(w)
}

// ResetCause implements rom.Platform.
func (d *Device) ResetCause() arbiter.ResetCause {
	return d.cause
}

// SingleResetRequested implements rom.Platform.
func (d *Device) SingleResetRequested() bool {
	return d.opts.SingleReset
}

// VectorTableBase implements rom.Platform.
func (d *Device) VectorTableBase() uint32 {
	return d.vtor
}

// Flash implements rom.Platform.
func (d *Device) Flash() image.Flash {
	return d.flash
}

// Halt implements rom.Platform.
func (d *Device) Halt() {
	glog.Error("Processor halted")
	d.exit <- exit{halted: true}
	runtime.Goexit()
}

// Jump implements transfer.CPU.
func (d *Device) Jump(h transfer.Handoff) {
	glog.Infof("MSP <- %#08x", h.StackPointer)
	glog.Infof("VTOR <- %#08x", h.VectorTable)
	glog.Infof("bx %#08x", h.ResetHandler)
	d.vtor = h.VectorTable
	d.exit <- exit{handoff: &h}
	runtime.Goexit()
}

// Ticks implements arbiter.Ticker.
func (d *Device) Ticks() uint32 {
	return d.ticks.Load()
}
