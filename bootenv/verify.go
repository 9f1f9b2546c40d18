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
	"fmt"
	"io"

	"k8s.io/klog/v2"

	"github.com/transparency-dev/armored-witness-bootstore/crc16"
)

// Mapped exposes R as memory starting at address Base, address Base+n reads
// offset n of R.
type Mapped struct {
	R    io.ReaderAt
	Base uint32
}

// NewRegion returns memory holding data at address base.
func NewRegion(base uint32, data []byte) Mapped {
	return Mapped{R: bytes.NewReader(data), Base: base}
}

func (m Mapped) ReadAt(p []byte, addr int64) (int, error) {
	if addr < int64(m.Base) {
		return 0, fmt.Errorf("address %#x below memory base %#x", addr, m.Base)
	}
	return m.R.ReadAt(p, addr-int64(m.Base))
}

// ImageChecksum returns the CRC16 of the size bytes at addr in mem.
func ImageChecksum(mem io.ReaderAt, addr uint32, size uint32) (uint16, error) {
	crc, err := ReadChecksum(io.NewSectionReader(mem, int64(addr), int64(size)), size)
	if err != nil {
		return 0, fmt.Errorf("image at %#x: %w", addr, err)
	}

	return crc, nil
}

// ReadChecksum returns the CRC16 of the next size bytes of r.
func ReadChecksum(r io.Reader, size uint32) (uint16, error) {
	d := crc16.New()

	n, err := io.Copy(d, io.LimitReader(r, int64(size)))
	if err != nil {
		return 0, err
	}

	if n != int64(size) {
		return 0, fmt.Errorf("short read: %d of %d bytes: %w", n, size, io.ErrUnexpectedEOF)
	}

	return d.Sum16(), nil
}

// Verifier checks firmware images in memory against their stored
// descriptors.
type Verifier struct {
	store *Store
	mem   io.ReaderAt
}

// NewVerifier returns a Verifier reading images from mem, which is addressed
// by absolute memory address.
func NewVerifier(store *Store, mem io.ReaderAt) *Verifier {
	return &Verifier{
		store: store,
		mem:   mem,
	}
}

// Check verifies an image, it returns nil if the image is recorded and its
// CRC16 matches the descriptor.
func (v *Verifier) Check(kind ImageKind) error {
	d, err := v.store.Descriptor(kind)
	if err != nil {
		return fmt.Errorf("could not read %v descriptor: %w", kind, err)
	}

	if !d.Present() {
		return fmt.Errorf("%v image: %w", kind, ErrRecordAbsent)
	}

	crc, err := ImageChecksum(v.mem, d.Address, d.Size)
	if err != nil {
		return fmt.Errorf("could not read %v image: %w", kind, err)
	}

	if crc != d.CRC {
		return &ChecksumError{
			Record: kind.String() + " image",
			Want:   d.CRC,
			Got:    crc,
		}
	}

	return nil
}

// Verify returns true if the image is recorded and matches its descriptor.
func (v *Verifier) Verify(kind ImageKind) bool {
	if err := v.Check(kind); err != nil {
		klog.V(1).Infof("%v image verification failed: %v", kind, err)
		return false
	}

	return true
}
