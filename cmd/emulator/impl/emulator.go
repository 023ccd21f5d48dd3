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

// Package impl is the implementation of the bootloader emulator.
package impl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/google/bootarbiter/arbiter"
	"github.com/google/bootarbiter/devices/emulator"
	eh "github.com/google/bootarbiter/devices/emulator/http"
	"github.com/gorilla/mux"
)

// EmulatorOpts encapsulates the parameters for running the emulator.
type EmulatorOpts struct {
	DeviceStorage string
	Board         string
	BoardConfig   string

	ResetCause  string
	Policy      string
	SingleReset bool
	SecondTap   bool
	VTOR        uint32
	TapWindow   time.Duration

	AttachAfter time.Duration
	Sharp       bool
	UpdateFile  string
	// ListenAddr, if set, serves an HTTP endpoint which supplies the update
	// session's image instead of UpdateFile.
	ListenAddr string

	MonitorTimeout int
	MonitorIdle    time.Duration
	MaxResets      int
}

// Main is the entry point for the emulator.
func Main(opts EmulatorOpts) error {
	_, err := Run(context.Background(), opts)
	return err
}

// Run emulates the device and reports the outcome.
func Run(ctx context.Context, opts EmulatorOpts) (emulator.Outcome, error) {
	board, err := loadBoard(opts)
	if err != nil {
		return emulator.Outcome{}, err
	}
	cause, err := parseCause(opts.ResetCause)
	if err != nil {
		return emulator.Outcome{}, err
	}
	pol, err := arbiter.ParsePolicy(opts.Policy)
	if err != nil {
		return emulator.Outcome{}, err
	}
	var update []byte
	if opts.UpdateFile != "" {
		if update, err = os.ReadFile(opts.UpdateFile); err != nil {
			return emulator.Outcome{}, fmt.Errorf("failed to read update_file: %w", err)
		}
	}

	if err := os.MkdirAll(opts.DeviceStorage, 0o755); err != nil {
		return emulator.Outcome{}, fmt.Errorf("failed to create device storage: %w", err)
	}
	s, err := emulator.OpenStorage(opts.DeviceStorage, board)
	if err != nil {
		return emulator.Outcome{}, err
	}

	cfg := arbiter.DefaultConfig()
	cfg.Policy = pol
	if opts.TapWindow > 0 {
		cfg.TapWindow = opts.TapWindow
	}

	var updates emulator.UpdateSource
	if opts.ListenAddr != "" {
		srv := eh.NewServer(0)
		r := mux.NewRouter()
		srv.RegisterHandlers(r)
		hServer := &http.Server{
			Addr:    opts.ListenAddr,
			Handler: r,
		}
		go func() {
			if err := hServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				glog.Errorf("ListenAndServe(): %v", err)
			}
		}()
		defer func() {
			if err := hServer.Shutdown(context.Background()); err != nil {
				glog.Errorf("server.Shutdown(): %v", err)
			}
		}()
		glog.Infof("Accepting updates on http://%s%s", opts.ListenAddr, eh.FlashPath)
		updates = srv
	}

	glog.Infof("Emulating %s from %q", board.Name, opts.DeviceStorage)
	out, err := emulator.New(s, emulator.Opts{
		Cause:          cause,
		Arbiter:        cfg,
		SingleReset:    opts.SingleReset,
		SecondTap:      opts.SecondTap,
		VTOR:           opts.VTOR,
		AttachAfter:    opts.AttachAfter,
		Sharp:          opts.Sharp,
		Update:         update,
		Updates:        updates,
		MonitorTimeout: opts.MonitorTimeout,
		MonitorIdle:    opts.MonitorIdle,
		MaxResets:      opts.MaxResets,
	}).Run(ctx)
	if err != nil {
		return out, fmt.Errorf("device: %w", err)
	}

	switch {
	case out.Handoff != nil:
		glog.Infof("Application started after %d resets: %v", out.Resets, out.Handoff)
	case out.Halted:
		glog.Warning("Bootloader halted")
	}
	return out, nil
}

func loadBoard(opts EmulatorOpts) (emulator.Board, error) {
	if opts.BoardConfig != "" {
		return emulator.LoadBoard(opts.BoardConfig)
	}
	return emulator.LookupBoard(opts.Board)
}

func parseCause(s string) (arbiter.ResetCause, error) {
	switch s {
	case "power-on", "por":
		return arbiter.PowerOn, nil
	case "external", "pin":
		return arbiter.External, nil
	case "software", "system":
		return arbiter.Software, nil
	case "watchdog", "wdt":
		return arbiter.Watchdog, nil
	}
	return 0, errors.New("reset_cause must be one of: 'power-on', 'external', 'software', 'watchdog'")
}
