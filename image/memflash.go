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

import "io"

// MemFlash is a flash image held in memory, starting at address 0.
type MemFlash []byte

// ReadAt implements io.ReaderAt.
func (m MemFlash) ReadAt(b []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(m)) {
		return 0, io.EOF
	}
	n := copy(b, m[off:])
	if n < len(b) {
		return n, io.EOF
	}
	return n, nil
}

// Size implements Flash.
func (m MemFlash) Size() uint32 {
	return uint32(len(m))
}

// Slice implements Mapped.
func (m MemFlash) Slice(addr, n uint32) []byte {
	return m[addr : uint64(addr)+uint64(n)]
}
