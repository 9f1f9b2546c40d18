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
	"fmt"
	"strings"

	"github.com/coreos/go-semver/semver"
	"k8s.io/klog/v2"

	"github.com/transparency-dev/armored-witness-bootstore/fee"
)

// Options configures a Store.
type Options struct {
	// ReadyPolls bounds the wait for the device to become idle,
	// fee.DefaultReadyPolls is used when zero.
	ReadyPolls int
	// SkipRecovery leaves an interrupted key swap pending rather than
	// completing it on Open.
	SkipRecovery bool
}

// Store gives access to the bootloader records held on an FEE device.
//
// Records are never cached, every accessor reads the device. A Store is not
// safe for concurrent use.
type Store struct {
	dev fee.Device
}

// Open initializes dev, waits for it to become ready and prepares the
// records for use.
func Open(dev fee.Device, opts *Options) (*Store, error) {
	if opts == nil {
		opts = &Options{}
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("could not initialize storage: %w", err)
	}

	if err := fee.WaitReady(dev, opts.ReadyPolls); err != nil {
		dev.Shutdown()
		return nil, fmt.Errorf("%w: %w", ErrStorageTimeout, err)
	}

	s := &Store{dev: dev}

	if err := s.checkLayout(); err != nil {
		dev.Shutdown()
		return nil, err
	}

	if !opts.SkipRecovery {
		if _, err := s.Recover(); err != nil {
			// the swap stays pending, a later Recover may complete it
			klog.Errorf("Could not complete interrupted key swap: %v", err)
		}
	}

	return s, nil
}

// Close shuts the device down.
func (s *Store) Close() {
	s.dev.Shutdown()
}

func (s *Store) read(loc location, buf []byte) error {
	return fee.Read(s.dev, loc.block, loc.offset, buf[:loc.length])
}

// write stores a record, records sharing a block with others are merged into
// the current block content.
func (s *Store) write(loc location, data []byte) error {
	size, ok := Geometry.Size(loc.block)
	if !ok {
		return fmt.Errorf("block %d not configured", loc.block)
	}

	if loc.offset == 0 && len(data) == size {
		return fee.Write(s.dev, loc.block, data)
	}

	buf := make([]byte, size)

	if err := fee.Read(s.dev, loc.block, 0, buf); err != nil && !fee.IsBlockInvalid(err) {
		return err
	}

	copy(buf[loc.offset:int(loc.offset)+loc.length], data)

	return fee.Write(s.dev, loc.block, buf)
}

// Layout returns the record layout version stored on the device.
func (s *Store) Layout() (*semver.Version, error) {
	buf := make([]byte, layoutEpochLength)

	if err := s.read(layoutEpochLoc, buf); err != nil {
		return nil, err
	}

	return parseLayout(buf)
}

func parseLayout(buf []byte) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimRight(string(buf), "\x00"))
}

func (s *Store) setLayout(v semver.Version) error {
	buf := make([]byte, layoutEpochLength)
	copy(buf, v.String())

	return s.write(layoutEpochLoc, buf)
}

// checkLayout verifies the stored layout version against LayoutVersion.
//
// Storage written by a newer layout is refused, older or fresh storage is
// stamped with LayoutVersion. An unreadable layout block is left alone and
// an unparseable one is stamped again, neither prevents opening the store.
func (s *Store) checkLayout() error {
	buf := make([]byte, layoutEpochLength)
	err := s.read(layoutEpochLoc, buf)

	switch {
	case fee.IsBlockInvalid(err):
		klog.Infof("Stamping storage with layout %v", LayoutVersion)
		return s.setLayout(LayoutVersion)
	case err != nil:
		klog.Warningf("Could not read layout version, leaving it as is: %v", err)
		return nil
	}

	stored, err := parseLayout(buf)
	if err != nil {
		klog.Warningf("Restamping unparseable layout version %q: %v", strings.TrimRight(string(buf), "\x00"), err)

		if err := s.setLayout(LayoutVersion); err != nil {
			klog.Warningf("Could not stamp layout version: %v", err)
		}
		return nil
	}

	switch {
	case LayoutVersion.LessThan(*stored):
		return fmt.Errorf("%w (%v > %v)", ErrLayoutTooNew, stored, LayoutVersion)
	case stored.Equal(LayoutVersion):
		return nil
	}

	klog.Infof("Upgrading storage layout %v to %v", stored, LayoutVersion)

	return s.setLayout(LayoutVersion)
}
