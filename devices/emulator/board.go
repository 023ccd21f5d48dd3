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
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Board is the memory map of an emulated device.
type Board struct {
	// Name identifies the board in logs.
	Name string `json:"name"`
	// AppStart is where the bootloader expects application images.
	AppStart uint32 `json:"app_start"`
	// FlashSize is the size of on-chip flash, starting at address 0.
	FlashSize uint32 `json:"flash_size"`
}

var boards = map[string]Board{
	"samd21": {Name: "samd21", AppStart: 0x2000, FlashSize: 0x40000},
	"samd51": {Name: "samd51", AppStart: 0x4000, FlashSize: 0x80000},
}

// LookupBoard returns the named built-in board.
func LookupBoard(name string) (Board, error) {
	b, ok := boards[name]
	if !ok {
		return Board{}, fmt.Errorf("unknown board %q", name)
	}
	return b, nil
}

// LoadBoard reads a board description from a JSON file.
func LoadBoard(path string) (Board, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Board{}, fmt.Errorf("failed to read board config %q: %w", path, err)
	}
	var b Board
	if err := json.Unmarshal(raw, &b); err != nil {
		return Board{}, fmt.Errorf("failed to parse board config %q: %w", path, err)
	}
	return b, b.Check()
}

// Check returns an error if the memory map cannot hold an application.
func (b Board) Check() error {
	switch {
	case b.FlashSize == 0:
		return errors.New("flash_size must be set")
	case b.AppStart == 0:
		return errors.New("app_start must be above the bootloader")
	case b.AppStart >= b.FlashSize:
		return fmt.Errorf("app_start %#x is beyond flash_size %#x", b.AppStart, b.FlashSize)
	}
	return nil
}
