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

// mkimage wraps an application binary in a metablock so the bootloader can
// verify it before starting it.
//
// The result is written to --output, and is also programmed into an emulated
// device if --device_storage is given, or sent to a running emulator with
// --emulator_url.
//
// Usage:
//
//	go run ./cmd/mkimage --logtostderr --app=app.bin --output=app.img
//	go run ./cmd/mkimage --logtostderr --app=app.bin --device_storage=/tmp/samd
//	go run ./cmd/mkimage --logtostderr --app=app.bin --emulator_url=http://localhost:8080
package main

import (
	"context"
	"flag"
	"time"

	"github.com/golang/glog"
	"github.com/google/bootarbiter/cmd/mkimage/impl"
)

var (
	appFile       = flag.String("app", "", "Application binary, linked to run after the metablock")
	output        = flag.String("output", "", "File path to write the image to")
	legacy        = flag.Bool("legacy", false, "Write the binary without a metablock")
	deviceStorage = flag.String("device_storage", "", "Emulated device to program the image into")
	board         = flag.String("board", "samd21", "Board layout of --device_storage")
	emulatorURL   = flag.String("emulator_url", "", "Emulator started with --listen to send the image to, e.g. http://localhost:8080")
	uploadTimeout = flag.Duration("upload_timeout", time.Minute, "How long to keep retrying until the emulator takes the image")
)

func main() {
	flag.Parse()

	if err := impl.Main(context.Background(), impl.MkImageOpts{
		AppFile:       *appFile,
		Output:        *output,
		Legacy:        *legacy,
		DeviceStorage: *deviceStorage,
		Board:         *board,
		EmulatorURL:   *emulatorURL,
		UploadTimeout: *uploadTimeout,
	}); err != nil {
		glog.Exitf("mkimage: %v", err)
	}
}
