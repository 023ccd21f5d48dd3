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

// Package impl is the implementation of a util to build application images.
package impl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/google/bootarbiter/devices/emulator"
	eh "github.com/google/bootarbiter/devices/emulator/http"
	"github.com/google/bootarbiter/image"
)

// MkImageOpts encapsulates the image tool parameters.
type MkImageOpts struct {
	AppFile       string
	Output        string
	Legacy        bool
	DeviceStorage string
	Board         string

	// EmulatorURL is a running emulator to send the image to.
	EmulatorURL   string
	UploadTimeout time.Duration
}

// Main builds the image and writes it out.
func Main(ctx context.Context, opts MkImageOpts) error {
	if len(opts.AppFile) == 0 {
		return errors.New("must specify app")
	}
	if len(opts.Output) == 0 && len(opts.DeviceStorage) == 0 && len(opts.EmulatorURL) == 0 {
		return errors.New("must specify at least one of output, device_storage, emulator_url")
	}

	app, err := os.ReadFile(opts.AppFile)
	if err != nil {
		return fmt.Errorf("failed to read app %q: %w", opts.AppFile, err)
	}
	img, err := Build(app, opts.Legacy)
	if err != nil {
		return err
	}

	if len(opts.Output) > 0 {
		if err := os.WriteFile(opts.Output, img, 0o644); err != nil {
			return fmt.Errorf("failed to write image to %q: %w", opts.Output, err)
		}
		glog.Infof("Wrote %d byte image to %q", len(img), opts.Output)
	}

	if len(opts.DeviceStorage) > 0 {
		b, err := emulator.LookupBoard(opts.Board)
		if err != nil {
			return err
		}
		s, err := emulator.OpenStorage(opts.DeviceStorage, b)
		if err != nil {
			return fmt.Errorf("failed to open device: %w", err)
		}
		if err := s.WriteApp(img); err != nil {
			return fmt.Errorf("failed to program device: %w", err)
		}
		glog.Infof("Programmed %d byte image at %#x", len(img), b.AppStart)
	}

	if len(opts.EmulatorURL) > 0 {
		if err := eh.Upload(ctx, nil, opts.EmulatorURL, img, opts.UploadTimeout); err != nil {
			return fmt.Errorf("failed to send image to %q: %w", opts.EmulatorURL, err)
		}
		glog.Infof("Sent %d byte image to %q", len(img), opts.EmulatorURL)
	}
	return nil
}

// Build returns the bytes to program at the application base.
func Build(app []byte, legacy bool) ([]byte, error) {
	if len(app) < 8 {
		return nil, fmt.Errorf("app is %d bytes, too short to hold a vector table", len(app))
	}
	if legacy {
		if mb, ok := image.ParseMetablock(app); ok {
			glog.Warningf("Legacy app starts with metablock magic (size %d); it will be validated as a metablock image", mb.Size)
		}
		return app, nil
	}
	img, err := image.Wrap(app, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap app: %w", err)
	}
	return img, nil
}
