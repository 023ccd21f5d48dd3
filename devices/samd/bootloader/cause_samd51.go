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

//go:build tinygo && atsamd51

package main

import (
	"device/sam"

	"github.com/google/bootarbiter/arbiter"
	"github.com/google/bootarbiter/devices/samd/rcause"
)

const (
	appStart  = 0x4000
	flashSize = 0x80000
	ramEnd    = 0x20000000 + 192*1024
)

func resetCause() arbiter.ResetCause {
	return rcause.Decode(sam.RSTC.RCAUSE.Get())
}
