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

// Package fee defines the contract of the Flash EEPROM Emulation (FEE) block
// store used to persist bootloader metadata, along with helpers to drive it.
//
// An FEE device stores fixed-size blocks addressed by a block number. Jobs are
// synchronous: a read or write blocks the caller and its outcome is retrieved
// afterwards through JobResult, mirroring the driver API exposed by the flash
// emulation layer on the target.
package fee

import (
	"errors"
	"fmt"
	"sort"

	"k8s.io/klog/v2"
)

// DefaultReadyPolls bounds the number of Status polls performed while waiting
// for a device to become idle.
const DefaultReadyPolls = 10000

// ErrNotReady is returned when a device does not report Idle within the
// allowed number of polls.
var ErrNotReady = errors.New("device not ready")

// Status represents the state of the device module.
type Status int

const (
	Uninit Status = iota
	Idle
	Busy
	BusyInternal
)

func (s Status) String() string {
	switch s {
	case Uninit:
		return "uninitialized"
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	case BusyInternal:
		return "busy (internal)"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// JobResult represents the outcome of the last job issued to the device.
type JobResult int

const (
	JobOK JobResult = iota
	JobFailed
	JobPending
	JobCancelled
	// BlockInconsistent reports a block whose contents failed the device
	// integrity check.
	BlockInconsistent
	// BlockInvalid reports a block which was never written, or was
	// invalidated.
	BlockInvalid
)

func (r JobResult) String() string {
	switch r {
	case JobOK:
		return "ok"
	case JobFailed:
		return "failed"
	case JobPending:
		return "pending"
	case JobCancelled:
		return "cancelled"
	case BlockInconsistent:
		return "block inconsistent"
	case BlockInvalid:
		return "block invalid"
	}
	return fmt.Sprintf("JobResult(%d)", int(r))
}

// Device is the FEE driver contract.
type Device interface {
	// Init starts the device, which may remain busy for a while after
	// returning.
	Init() error
	// Shutdown stops the device.
	Shutdown()
	// Status returns the current device state.
	Status() Status
	// ReadSync reads len(buf) bytes at offset within block into buf.
	ReadSync(block uint16, offset uint16, buf []byte)
	// WriteSync writes buf as the whole content of block.
	WriteSync(block uint16, buf []byte)
	// JobResult returns the outcome of the last ReadSync/WriteSync.
	JobResult() JobResult
}

// JobError is returned when a device job does not complete successfully.
type JobError struct {
	Op     string
	Block  uint16
	Result JobResult
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s block %d: %v", e.Op, e.Block, e.Result)
}

// Read performs a synchronous read job and converts its outcome into an
// error.
func Read(dev Device, block uint16, offset uint16, buf []byte) error {
	dev.ReadSync(block, offset, buf)

	if res := dev.JobResult(); res != JobOK {
		klog.V(2).Infof("FEE read block %d offset %d len %d: %v", block, offset, len(buf), res)
		return &JobError{Op: "read", Block: block, Result: res}
	}

	return nil
}

// Write performs a synchronous write job and converts its outcome into an
// error.
func Write(dev Device, block uint16, buf []byte) error {
	dev.WriteSync(block, buf)

	if res := dev.JobResult(); res != JobOK {
		klog.V(2).Infof("FEE write block %d len %d: %v", block, len(buf), res)
		return &JobError{Op: "write", Block: block, Result: res}
	}

	return nil
}

// IsBlockInvalid returns true if err reports a never-written block.
func IsBlockInvalid(err error) bool {
	var e *JobError
	return errors.As(err, &e) && e.Result == BlockInvalid
}

// WaitReady polls the device status until it reports Idle, giving up after
// polls non-idle answers.
//
// The bound only prevents hanging forever on a device which never comes up,
// it is not a timing guarantee.
func WaitReady(dev Device, polls int) error {
	if polls <= 0 {
		polls = DefaultReadyPolls
	}

	for n := 0; ; n++ {
		s := dev.Status()

		if s == Idle {
			klog.V(1).Infof("FEE ready after %d polls", n)
			return nil
		}

		if n >= polls {
			return fmt.Errorf("%w after %d polls (status %v)", ErrNotReady, n, s)
		}
	}
}

// BlockConfig describes a single block.
type BlockConfig struct {
	// Number identifies the block, 0 is reserved.
	Number uint16
	// Size is the block length in bytes.
	Size int
}

// Geometry describes the blocks configured on a device.
//
// Great care must be taken changing a geometry once data has been written
// with it.
type Geometry []BlockConfig

// Validate checks that the geometry is self-consistent.
func (g Geometry) Validate() error {
	seen := make(map[uint16]bool)

	for _, b := range g {
		if b.Number == 0 {
			return errors.New("invalid geometry: block 0 is reserved")
		}
		if b.Size <= 0 {
			return fmt.Errorf("invalid geometry: block %d has size %d", b.Number, b.Size)
		}
		if seen[b.Number] {
			return fmt.Errorf("invalid geometry: block %d configured twice", b.Number)
		}
		seen[b.Number] = true
	}

	return nil
}

// Size returns the length of block, or false if it is not configured.
func (g Geometry) Size(block uint16) (int, bool) {
	for _, b := range g {
		if b.Number == block {
			return b.Size, true
		}
	}
	return 0, false
}

// Sorted returns a copy of g ordered by block number.
func (g Geometry) Sorted() Geometry {
	r := append(Geometry(nil), g...)
	sort.Slice(r, func(i, j int) bool { return r[i].Number < r[j].Number })
	return r
}
