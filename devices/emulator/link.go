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

package emulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/google/bootarbiter/arbiter"
	"github.com/google/bootarbiter/monitor"
)

// usbHost enumerates the device a fixed time after maintenance mode starts.
type usbHost struct {
	start time.Time
	after time.Duration
}

func (u usbHost) Enumerated() bool {
	return u.after > 0 && time.Since(u.start) >= u.after
}

type uart struct {
	sharp bool
}

func (u uart) SharpReceived() bool {
	return u.sharp
}

// resetter ends maintenance mode; Device.Run performs the following reset.
type resetter struct{}

func (resetter) SystemReset() {
	glog.Info("NVIC_SystemReset")
}

// errNoUpdate is returned by a session which has nothing to flash.
var errNoUpdate = errors.New("no update image")

// UpdateSource supplies the image sent by an attached update agent.
type UpdateSource interface {
	// Next blocks until an image arrives or ctx is done.
	Next(ctx context.Context) ([]byte, error)
}

// staticUpdate is an image prepared before the device started.
type staticUpdate []byte

func (u staticUpdate) Next(ctx context.Context) ([]byte, error) {
	if len(u) == 0 {
		return nil, errNoUpdate
	}
	return u, ctx.Err()
}

// updateSession stands in for the mass storage and SAM-BA update protocols:
// it programs the agent's image and resets into it.
type updateSession struct {
	storage *Storage
	src     UpdateSource
	arb     *arbiter.Arbiter
}

func (s *updateSession) Run(ctx context.Context, on monitor.Interface) error {
	img, err := s.src.Next(ctx)
	if err != nil {
		return err
	}
	glog.Infof("Writing %d byte image received over %v", len(img), on)
	if err := s.storage.WriteApp(img); err != nil {
		return fmt.Errorf("failed to write update: %w", err)
	}
	s.arb.RequestQuickBoot()
	resetter{}.SystemReset()
	return nil
}
