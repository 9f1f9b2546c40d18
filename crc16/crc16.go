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

// Package crc16 implements the CCITT CRC16 used by the bootloader to protect
// key records and firmware images.
//
// The construction is fixed: initial value 0, polynomial 0x1021, each byte
// processed MSB first into a 16-bit accumulator and no final XOR (also known
// as CRC-16/XMODEM). Any change breaks compatibility with data previously
// persisted to flash.
package crc16

import "hash"

const (
	// Polynomial is the CCITT generator polynomial.
	Polynomial = 0x1021
	// Size is the size of a CRC16 checksum in bytes.
	Size = 2

	highBit = 0x8000
)

// Checksum returns the CRC16 of b.
func Checksum(b []byte) uint16 {
	return Update(0, b)
}

// Update returns the result of adding the bytes in b to crc.
func Update(crc uint16, b []byte) uint16 {
	for _, c := range b {
		crc ^= uint16(c) << 8
		for i := 0; i < 8; i++ {
			if crc&highBit != 0 {
				crc = (crc << 1) ^ Polynomial
			} else {
				crc <<= 1
			}
		}
	}

	return crc
}

// Digest is a streaming CRC16, it implements hash.Hash.
type Digest struct {
	crc uint16
}

var _ hash.Hash = (*Digest)(nil)

// New returns a new Digest.
func New() *Digest {
	return &Digest{}
}

// Write adds p to the running checksum, it never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	d.crc = Update(d.crc, p)
	return len(p), nil
}

// Sum16 returns the current checksum.
func (d *Digest) Sum16() uint16 {
	return d.crc
}

// Sum appends the big-endian checksum to b.
func (d *Digest) Sum(b []byte) []byte {
	return append(b, byte(d.crc>>8), byte(d.crc))
}

func (d *Digest) Reset() {
	d.crc = 0
}

func (d *Digest) Size() int {
	return Size
}

func (d *Digest) BlockSize() int {
	return 1
}
