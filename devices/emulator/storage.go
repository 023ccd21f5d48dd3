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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/google/bootarbiter/image"
)

const (
	flashPath = "flash.bin"
	flagPath  = "bootflag"
)

// Storage is the state of an emulated device kept in a local directory: the
// flash contents and the RAM word which survives a reset.
type Storage struct {
	dir   string
	board Board
}

// OpenStorage opens device state in dir, which must exist.
func OpenStorage(dir string, board Board) (*Storage, error) {
	dStat, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to stat device storage dir %q: %w", dir, err)
	}
	if !dStat.Mode().IsDir() {
		return nil, fmt.Errorf("device storage %q is not a directory", dir)
	}
	if err := board.Check(); err != nil {
		return nil, fmt.Errorf("invalid board %q: %w", board.Name, err)
	}
	return &Storage{dir: dir, board: board}, nil
}

// Board returns the memory map the storage was opened with.
func (s *Storage) Board() Board {
	return s.board
}

// ReadFlash returns the flash contents. Missing flash reads as erased.
func (s *Storage) ReadFlash() (image.MemFlash, error) {
	p := filepath.Join(s.dir, flashPath)
	raw, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
		glog.V(1).Infof("No flash at %q, starting erased", p)
		return erased(s.board.FlashSize), nil
	case err != nil:
		return nil, fmt.Errorf("failed to read flash %q: %w", p, err)
	case uint32(len(raw)) != s.board.FlashSize:
		return nil, fmt.Errorf("flash %q is %d bytes, board %q has %d", p, len(raw), s.board.Name, s.board.FlashSize)
	}
	return image.MemFlash(raw), nil
}

// WriteApp programs img at the board's application base, erasing the rest of
// the application area.
func (s *Storage) WriteApp(img []byte) error {
	f, err := s.ReadFlash()
	if err != nil {
		return err
	}
	space := s.board.FlashSize - s.board.AppStart
	if uint64(len(img)) > uint64(space) {
		return fmt.Errorf("image is %d bytes, only %d available at %#x", len(img), space, s.board.AppStart)
	}
	app := f[s.board.AppStart:]
	copy(app, erased(space))
	copy(app, img)

	p := filepath.Join(s.dir, flashPath)
	if err := os.WriteFile(p, f, 0o644); err != nil {
		return fmt.Errorf("failed to write flash %q: %w", p, err)
	}
	return nil
}

func erased(n uint32) image.MemFlash {
	return bytes.Repeat([]byte{0xff}, int(n))
}

// FlagRegister is the persisted boot flag word, stored little endian in a
// file. It implements bootflag.Register.
type FlagRegister struct {
	path string
}

// FlagRegister returns the device's boot flag word.
func (s *Storage) FlagRegister() *FlagRegister {
	return &FlagRegister{path: filepath.Join(s.dir, flagPath)}
}

// Load implements bootflag.Register. An unreadable word reads as zero.
func (r *FlagRegister) Load() uint32 {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			glog.Warningf("Failed to read boot flag %q: %v", r.path, err)
		}
		return 0
	}
	if len(raw) < 4 {
		// A short file is a torn write.
		return 0
	}
	return binary.LittleEndian.Uint32(raw)
}

// Store implements bootflag.Register.
func (r *FlagRegister) Store(v uint32) {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], v)
	if err := os.WriteFile(r.path, raw[:], 0o644); err != nil {
		glog.Warningf("Failed to write boot flag %q: %v", r.path, err)
	}
}

// PowerLoss replaces the word with random contents, as SRAM holds after power
// is removed.
func (r *FlagRegister) PowerLoss() {
	r.Store(rand.Uint32())
}
