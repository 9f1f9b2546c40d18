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

// Package testonly provides support for FEE storage tests.
package testonly

import (
	"sync"
	"testing"

	"github.com/transparency-dev/armored-witness-bootstore/fee"
)

// MemDev is a simple in-memory FEE device.
//
// Hooks are invoked with the device lock held and must not call back into
// the device.
type MemDev struct {
	sync.Mutex

	Geometry fee.Geometry
	// Blocks holds the content of written blocks.
	Blocks map[uint16][]byte

	// BusyPolls is the number of Status calls answered with Busy after
	// Init, a negative value keeps the device busy forever.
	BusyPolls int
	// InitErr is returned by Init.
	InitErr error

	// OnRead, when set, is called before a read job, a result other than
	// JobOK fails the job.
	OnRead func(block uint16) fee.JobResult
	// OnWrite, when set, is called before a write job, a result other than
	// JobOK fails the job leaving the block untouched.
	OnWrite func(block uint16) fee.JobResult

	// Writes counts the successful write jobs.
	Writes int
	// Polls counts the Status calls.
	Polls int

	status fee.Status
	result fee.JobResult
}

// NewMemDev creates a new in-memory FEE device with the given geometry.
func NewMemDev(t *testing.T, geo fee.Geometry) *MemDev {
	t.Helper()
	if err := geo.Validate(); err != nil {
		t.Fatalf("Invalid geometry: %v", err)
	}
	return &MemDev{
		Geometry: geo,
		Blocks:   make(map[uint16][]byte),
	}
}

func (md *MemDev) Init() error {
	md.Lock()
	defer md.Unlock()

	if md.InitErr != nil {
		return md.InitErr
	}

	md.status = fee.Busy
	if md.BusyPolls == 0 {
		md.status = fee.Idle
	}

	return nil
}

func (md *MemDev) Shutdown() {
	md.Lock()
	defer md.Unlock()

	md.status = fee.Uninit
}

func (md *MemDev) Status() fee.Status {
	md.Lock()
	defer md.Unlock()

	md.Polls++

	if md.status == fee.Busy && md.BusyPolls >= 0 {
		if md.BusyPolls == 0 {
			md.status = fee.Idle
		} else {
			md.BusyPolls--
		}
	}

	return md.status
}

func (md *MemDev) JobResult() fee.JobResult {
	md.Lock()
	defer md.Unlock()

	return md.result
}

func (md *MemDev) ReadSync(block uint16, offset uint16, buf []byte) {
	md.Lock()
	defer md.Unlock()

	size, ok := md.Geometry.Size(block)

	switch {
	case md.status != fee.Idle:
		md.result = fee.JobFailed
	case !ok || int(offset)+len(buf) > size:
		md.result = fee.JobFailed
	default:
		if md.OnRead != nil {
			if res := md.OnRead(block); res != fee.JobOK {
				md.result = res
				return
			}
		}
		if md.Blocks[block] == nil {
			md.result = fee.BlockInvalid
			return
		}
		copy(buf, md.Blocks[block][offset:])
		md.result = fee.JobOK
	}
}

func (md *MemDev) WriteSync(block uint16, buf []byte) {
	md.Lock()
	defer md.Unlock()

	size, ok := md.Geometry.Size(block)

	switch {
	case md.status != fee.Idle:
		md.result = fee.JobFailed
	case !ok || len(buf) != size:
		md.result = fee.JobFailed
	default:
		if md.OnWrite != nil {
			if res := md.OnWrite(block); res != fee.JobOK {
				md.result = res
				return
			}
		}
		md.Blocks[block] = append([]byte(nil), buf...)
		md.Writes++
		md.result = fee.JobOK
	}
}

// Poke overwrites stored bytes of a written block, bypassing the device
// job interface.
func (md *MemDev) Poke(t *testing.T, block uint16, offset int, b []byte) {
	t.Helper()
	md.Lock()
	defer md.Unlock()

	if md.Blocks[block] == nil || offset+len(b) > len(md.Blocks[block]) {
		t.Fatalf("Poke out of range: block %d offset %d len %d", block, offset, len(b))
	}
	copy(md.Blocks[block][offset:], b)
}
