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

// Package image validates the application image stored in flash before the
// bootloader jumps into it.
//
// An image may be prefixed with a metablock which carries a checksum over the
// application code. Images without a metablock predate it and are started
// unverified.
package image

import (
	"fmt"
	"io"
)

// Flash is the read-only view of on-chip flash. Offsets passed to ReadAt are
// absolute addresses.
type Flash interface {
	io.ReaderAt
	// Size returns the address one past the last byte of flash.
	Size() uint32
}

// Mapped is implemented by flash which is directly addressable. Validate
// checksums mapped flash in place rather than copying the application.
type Mapped interface {
	// Slice returns the n bytes at addr, which lie within Size.
	Slice(addr, n uint32) []byte
}

// Result is the outcome of validating an image. It is one of Valid, Legacy
// or InvalidMetadata.
type Result interface {
	isResult()
}

// Valid is an image whose metablock checksum matched.
type Valid struct {
	// Entry is the address of the application's vector table.
	Entry uint32
	// Size is the declared length of the application code.
	Size uint32
}

// Legacy is an image without a metablock. It is trusted without verification.
type Legacy struct {
	// Entry is the address of the application's vector table.
	Entry uint32
}

// InvalidMetadata is an image with a metablock which does not describe
// trustworthy contents. The bootloader must not start it.
type InvalidMetadata struct {
	Reason string
}

func (Valid) isResult()           {}
func (Legacy) isResult()          {}
func (InvalidMetadata) isResult() {}

func (r Valid) String() string {
	return fmt.Sprintf("valid image at %#x (%d bytes)", r.Entry, r.Size)
}

func (r Legacy) String() string {
	return fmt.Sprintf("legacy image at %#x", r.Entry)
}

func (r InvalidMetadata) String() string {
	return "invalid metadata: " + r.Reason
}

// Validator checks images against their metablock.
type Validator struct {
	// Checksum is used over the application code. Nil means CRC16CCITT.
	Checksum Checksum
}

// Validate inspects the image at base.
//
// It only reads from f, so calling it repeatedly on unchanged flash returns
// the same Result.
func (v Validator) Validate(f Flash, base uint32) Result {
	var magic [len(Magic)]byte
	if err := readFull(f, magic[:], base); err != nil || magic != Magic {
		// Only the magic decides whether there is a metablock at all.
		return Legacy{Entry: base}
	}
	hdr := make([]byte, MetablockSize)
	if err := readFull(f, hdr, base); err != nil {
		return InvalidMetadata{Reason: fmt.Sprintf("reading metablock at %#x: %v", base, err)}
	}
	mb, _ := ParseMetablock(hdr)

	entry := base + MetablockSize
	end := uint64(entry) + uint64(mb.Size)
	if entry < base || end > uint64(f.Size()) {
		return InvalidMetadata{Reason: fmt.Sprintf("declared size %d at %#x runs past end of flash %#x", mb.Size, entry, f.Size())}
	}
	var code []byte
	if m, ok := f.(Mapped); ok {
		code = m.Slice(entry, mb.Size)
	} else {
		code = make([]byte, mb.Size)
		if err := readFull(f, code, entry); err != nil {
			return InvalidMetadata{Reason: fmt.Sprintf("reading %d bytes at %#x: %v", mb.Size, entry, err)}
		}
	}

	sum := v.Checksum
	if sum == nil {
		sum = CRC16CCITT
	}
	if got := sum(code); got != mb.CRC {
		return InvalidMetadata{Reason: fmt.Sprintf("checksum %#04x, metablock says %#04x", got, mb.CRC)}
	}
	return Valid{Entry: entry, Size: mb.Size}
}

// Validate inspects the image at base using the default checksum.
func Validate(f Flash, base uint32) Result {
	return Validator{}.Validate(f, base)
}

func readFull(f Flash, b []byte, addr uint32) error {
	n, err := f.ReadAt(b, int64(addr))
	if n == len(b) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return err
}
