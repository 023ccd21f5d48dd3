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

package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sigurn/crc16"
)

// MetablockSize is the space reserved for the metablock in front of the
// application code. The application's vector table follows it.
const MetablockSize = 0x100

// Magic identifies a metablock.
var Magic = [2]byte{0x01, 0x05}

// Metablock is the header written by the update tooling in front of an
// application image.
//
//	offset 0: magic [2]byte
//	offset 2: crc   uint16, little endian
//	offset 4: size  uint32, little endian
//
// The remainder of the block is reserved and written as 0xff.
type Metablock struct {
	CRC  uint16
	Size uint32
}

// ParseMetablock decodes b. It returns false if b does not start with Magic.
func ParseMetablock(b []byte) (Metablock, bool) {
	if len(b) < 8 || !bytes.Equal(b[:len(Magic)], Magic[:]) {
		return Metablock{}, false
	}
	return Metablock{
		CRC:  binary.LittleEndian.Uint16(b[2:4]),
		Size: binary.LittleEndian.Uint32(b[4:8]),
	}, true
}

// MarshalBinary encodes m as a full MetablockSize block.
func (m Metablock) MarshalBinary() ([]byte, error) {
	b := bytes.Repeat([]byte{0xff}, MetablockSize)
	copy(b, Magic[:])
	binary.LittleEndian.PutUint16(b[2:4], m.CRC)
	binary.LittleEndian.PutUint32(b[4:8], m.Size)
	return b, nil
}

// Checksum computes the integrity value stored in a metablock.
type Checksum func([]byte) uint16

var ccittTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// CRC16CCITT is CRC-16-CCITT (polynomial 0x1021) with an initial value of 0.
func CRC16CCITT(b []byte) uint16 {
	return crc16.Checksum(b, ccittTable)
}

// ErrTooLarge is returned by Wrap when the application cannot be described by a metablock.
var ErrTooLarge = errors.New("application too large")

// Wrap returns app prefixed with a metablock describing it.
func Wrap(app []byte, sum Checksum) ([]byte, error) {
	if uint64(len(app)) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(app))
	}
	if sum == nil {
		sum = CRC16CCITT
	}
	hdr, err := Metablock{CRC: sum(app), Size: uint32(len(app))}.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(hdr, app...), nil
}
