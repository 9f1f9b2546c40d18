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

package fee

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"golang.org/x/crypto/pbkdf2"
	"k8s.io/klog/v2"
)

const (
	macLength = sha256.Size
	// each block is stored as a valid flag, its data and a MAC over both the
	// block number and the data
	flagLength = 1
	blockValid = 0x01

	diversifierMAC = "ArmoredBootFEEMAC"
	iter           = 4096
)

// FileDevice emulates an FEE device on top of a host file.
//
// Every block is authenticated with an HMAC-SHA256 keyed from a passphrase,
// blocks modified outside the device are reported as BlockInconsistent.
type FileDevice struct {
	sync.Mutex

	path    string
	geo     Geometry
	key     []byte
	offsets map[uint16]int64
	length  int64

	f      *os.File
	status Status
	result JobResult
}

// NewFileDevice returns a device backed by the file at path, which is created
// on Init if it does not exist.
func NewFileDevice(path string, geo Geometry, passphrase []byte) (*FileDevice, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}

	d := &FileDevice{
		path:    path,
		geo:     geo.Sorted(),
		key:     pbkdf2.Key(passphrase, []byte(diversifierMAC), iter, macLength, sha256.New),
		offsets: make(map[uint16]int64),
	}

	for _, b := range d.geo {
		d.offsets[b.Number] = d.length
		d.length += int64(flagLength + b.Size + macLength)
	}

	return d, nil
}

// Init opens the backing file, growing it to fit the geometry.
func (d *FileDevice) Init() (err error) {
	d.Lock()
	defer d.Unlock()

	if d.f != nil {
		return nil
	}

	f, err := os.OpenFile(d.path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("could not open FEE file: %v", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}

	if fi.Size() < d.length {
		klog.Infof("Formatting FEE file %q (%d bytes)", d.path, d.length)

		if err = f.Truncate(d.length); err != nil {
			f.Close()
			return fmt.Errorf("could not size FEE file: %v", err)
		}
	}

	d.f = f
	d.status = Idle

	return nil
}

// Shutdown closes the backing file.
func (d *FileDevice) Shutdown() {
	d.Lock()
	defer d.Unlock()

	if d.f != nil {
		if err := d.f.Close(); err != nil {
			klog.Warningf("Closing FEE file: %v", err)
		}
	}

	d.f = nil
	d.status = Uninit
}

func (d *FileDevice) Status() Status {
	d.Lock()
	defer d.Unlock()

	return d.status
}

func (d *FileDevice) JobResult() JobResult {
	d.Lock()
	defer d.Unlock()

	return d.result
}

func (d *FileDevice) ReadSync(block uint16, offset uint16, buf []byte) {
	d.Lock()
	defer d.Unlock()

	d.result = d.read(block, offset, buf)
}

func (d *FileDevice) WriteSync(block uint16, buf []byte) {
	d.Lock()
	defer d.Unlock()

	d.result = d.write(block, buf)
}

func (d *FileDevice) mac(block uint16, data []byte) []byte {
	var n [2]byte
	binary.BigEndian.PutUint16(n[:], block)

	m := hmac.New(sha256.New, d.key)
	m.Write(n[:])
	m.Write(data)

	return m.Sum(nil)
}

func (d *FileDevice) read(block uint16, offset uint16, buf []byte) JobResult {
	if d.f == nil {
		return JobFailed
	}

	size, ok := d.geo.Size(block)
	if !ok || int(offset)+len(buf) > size {
		return JobFailed
	}

	raw := make([]byte, flagLength+size+macLength)

	if _, err := d.f.ReadAt(raw, d.offsets[block]); err != nil {
		klog.Errorf("FEE file read block %d: %v", block, err)
		return JobFailed
	}

	if raw[0] != blockValid {
		return BlockInvalid
	}

	data := raw[flagLength : flagLength+size]

	if !hmac.Equal(raw[flagLength+size:], d.mac(block, data)) {
		return BlockInconsistent
	}

	copy(buf, data[offset:])

	return JobOK
}

func (d *FileDevice) write(block uint16, buf []byte) JobResult {
	if d.f == nil {
		return JobFailed
	}

	size, ok := d.geo.Size(block)
	if !ok || len(buf) != size {
		return JobFailed
	}

	raw := make([]byte, 0, flagLength+size+macLength)
	raw = append(raw, blockValid)
	raw = append(raw, buf...)
	raw = append(raw, d.mac(block, buf)...)

	if _, err := d.f.WriteAt(raw, d.offsets[block]); err != nil {
		klog.Errorf("FEE file write block %d: %v", block, err)
		return JobFailed
	}

	if err := d.f.Sync(); err != nil {
		klog.Errorf("FEE file sync: %v", err)
		return JobFailed
	}

	return JobOK
}
