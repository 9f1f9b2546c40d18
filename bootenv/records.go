// Copyright 2024 The Armored Witness OS authors. All Rights Reserved.
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

package bootenv

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/transparency-dev/armored-witness-bootstore/crc16"
)

// Exists marks a record as validly populated.
const Exists uint32 = 0xA5A5A5A5

// ImageKind selects one of the two firmware images.
type ImageKind int

const (
	Application ImageKind = iota
	Golden
)

func (k ImageKind) String() string {
	switch k {
	case Application:
		return "application"
	case Golden:
		return "golden"
	}
	return fmt.Sprintf("ImageKind(%d)", int(k))
}

// ImageDescriptor locates a firmware image in memory.
//
// If Exists is not the sentinel the other fields are meaningless.
type ImageDescriptor struct {
	Exists  uint32
	Size    uint32
	Address uint32
	// CRC is the CRC16 over [Address, Address+Size).
	CRC uint16
}

// NewImageDescriptor returns the descriptor of image loaded at addr.
func NewImageDescriptor(addr uint32, image []byte) ImageDescriptor {
	return ImageDescriptor{
		Exists:  Exists,
		Size:    uint32(len(image)),
		Address: addr,
		CRC:     crc16.Checksum(image),
	}
}

// Present returns true if the descriptor records an image.
func (d ImageDescriptor) Present() bool {
	return d.Exists == Exists
}

// KeyStatus is the state of a key slot, the values are persisted.
type KeyStatus byte

const (
	KeyActive   KeyStatus = 'A'
	KeyInactive KeyStatus = 'I'
	// The following are never persisted, they report why a record could
	// not be trusted.
	KeyReadError    KeyStatus = 1
	KeyDoesNotExist KeyStatus = 2
	KeyCrcError     KeyStatus = 4
)

func (s KeyStatus) String() string {
	switch s {
	case KeyActive:
		return "active"
	case KeyInactive:
		return "inactive"
	case KeyReadError:
		return "read error"
	case KeyDoesNotExist:
		return "does not exist"
	case KeyCrcError:
		return "CRC error"
	}
	return fmt.Sprintf("KeyStatus(%#x)", byte(s))
}

// KeyRecord holds a CSP key.
type KeyRecord struct {
	Exists uint32
	Status KeyStatus
	Key    uint32
	// CRC is the CRC16 over the big-endian key bytes, it only detects
	// storage corruption.
	CRC uint16
}

func newKeyRecord(key uint32, status KeyStatus) KeyRecord {
	return KeyRecord{
		Exists: Exists,
		Status: status,
		Key:    key,
		CRC:    keyChecksum(key),
	}
}

func keyChecksum(key uint32) uint16 {
	var b [keyLength]byte
	binary.BigEndian.PutUint32(b[:], key)
	return crc16.Checksum(b[:])
}

// BootInfo holds the boot attempt counters.
type BootInfo struct {
	// Count is the total number of boot attempts.
	Count uint32
	// Attempts is the number of attempts since the last failure.
	Attempts uint32
}

// BootType selects the next boot path. Any byte value is stored as is.
type BootType byte

const (
	BootApplication BootType = 'A'
	BootGolden      BootType = 'G'
	BootBootloader  BootType = 'B'
)

func (t BootType) String() string {
	switch t {
	case BootApplication:
		return "application"
	case BootGolden:
		return "golden"
	case BootBootloader:
		return "bootloader"
	}
	return fmt.Sprintf("BootType(%#x)", byte(t))
}

// swapIntent is written ahead of a key slot swap and cleared once both slots
// have been updated.
type swapIntent struct {
	Exists uint32
	Target byte
	CRC    uint16
}

func newSwapIntent(target Slot) swapIntent {
	return swapIntent{
		Exists: Exists,
		Target: byte(target),
		CRC:    crc16.Checksum([]byte{byte(target)}),
	}
}

func (i swapIntent) valid() bool {
	return i.CRC == crc16.Checksum([]byte{i.Target}) && Slot(i.Target).valid()
}

// encode returns the packed big-endian representation of a record.
func encode(v any) []byte {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.BigEndian, v); err != nil {
		panic(fmt.Sprintf("encoding %T: %v", v, err))
	}
	return buf.Bytes()
}

func decode(buf []byte, v any) error {
	return binary.Read(bytes.NewReader(buf), binary.BigEndian, v)
}
