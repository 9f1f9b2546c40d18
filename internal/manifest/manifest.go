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

// Package manifest implements signed firmware image manifests and the
// bundles carrying them along with their image.
package manifest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/sumdb/note"

	"github.com/transparency-dev/armored-witness-bootstore/bootenv"
	"github.com/transparency-dev/armored-witness-bootstore/crc16"
)

const header = "bootstore image manifest v1"

// Manifest describes a firmware image release.
type Manifest struct {
	Kind    bootenv.ImageKind
	Address uint32
	Size    uint32
	CRC     uint16
}

// New returns the manifest of image, to be loaded at addr.
func New(kind bootenv.ImageKind, addr uint32, image []byte) Manifest {
	return Manifest{
		Kind:    kind,
		Address: addr,
		Size:    uint32(len(image)),
		CRC:     crc16.Checksum(image),
	}
}

// Marshal returns the manifest note text.
func (m Manifest) Marshal() []byte {
	return []byte(fmt.Sprintf("%s\n%v\n%#x\n%d\n%#04x\n", header, m.Kind, m.Address, m.Size, m.CRC))
}

func parseKind(s string) (bootenv.ImageKind, error) {
	for _, k := range []bootenv.ImageKind{bootenv.Application, bootenv.Golden} {
		if s == k.String() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown image kind %q", s)
}

// Unmarshal parses a manifest note text.
func (m *Manifest) Unmarshal(text []byte) error {
	lines := strings.Split(string(text), "\n")

	if len(lines) != 6 || lines[5] != "" {
		return errors.New("malformed manifest")
	}

	if lines[0] != header {
		return fmt.Errorf("invalid manifest header %q", lines[0])
	}

	kind, err := parseKind(lines[1])
	if err != nil {
		return err
	}

	addr, err := strconv.ParseUint(lines[2], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}

	size, err := strconv.ParseUint(lines[3], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid size: %w", err)
	}

	crc, err := strconv.ParseUint(lines[4], 0, 16)
	if err != nil {
		return fmt.Errorf("invalid CRC: %w", err)
	}

	*m = Manifest{
		Kind:    kind,
		Address: uint32(addr),
		Size:    uint32(size),
		CRC:     uint16(crc),
	}

	return nil
}

// Descriptor returns the image descriptor recording the manifest release.
func (m Manifest) Descriptor() bootenv.ImageDescriptor {
	return bootenv.ImageDescriptor{
		Exists:  bootenv.Exists,
		Size:    m.Size,
		Address: m.Address,
		CRC:     m.CRC,
	}
}

// Check verifies that image matches the manifest.
func (m Manifest) Check(image []byte) error {
	if uint32(len(image)) != m.Size {
		return fmt.Errorf("image size %d, manifest size %d", len(image), m.Size)
	}

	if crc := crc16.Checksum(image); crc != m.CRC {
		return &bootenv.ChecksumError{
			Record: m.Kind.String() + " image",
			Want:   m.CRC,
			Got:    crc,
		}
	}

	return nil
}

// Sign returns the manifest as a note signed by signer.
func Sign(m Manifest, signer note.Signer) ([]byte, error) {
	return note.Sign(&note.Note{Text: string(m.Marshal())}, signer)
}

// Open verifies a signed manifest note and parses it.
func Open(signed []byte, verifiers note.Verifiers) (*Manifest, error) {
	n, err := note.Open(signed, verifiers)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest signature: %w", err)
	}

	m := &Manifest{}

	if err = m.Unmarshal([]byte(n.Text)); err != nil {
		return nil, err
	}

	return m, nil
}
