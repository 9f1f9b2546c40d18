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

	"k8s.io/klog/v2"

	"github.com/transparency-dev/armored-witness-bootstore/fee"
)

func (s *Store) setIntent(target Slot) error {
	return s.write(swapIntentLoc, encode(newSwapIntent(target)))
}

func (s *Store) clearIntent() error {
	if err := s.write(swapIntentLoc, encode(swapIntent{})); err != nil {
		return fmt.Errorf("could not clear key swap intent: %w", err)
	}
	return nil
}

func (s *Store) readIntent() (in swapIntent, err error) {
	buf := make([]byte, swapIntentLength)

	if err = s.read(swapIntentLoc, buf); err != nil {
		return
	}

	err = decode(buf, &in)

	return
}

// PendingSwap returns the slot being activated by an interrupted key swap, if
// any.
func (s *Store) PendingSwap() (Slot, bool, error) {
	in, err := s.readIntent()

	switch {
	case fee.IsBlockInvalid(err):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	case in.Exists != Exists || !in.valid():
		return 0, false, nil
	}

	return Slot(in.Target), true, nil
}

// Recover completes a key swap interrupted between its slot writes, leaving
// the intended slot Active and the other one Inactive.
//
// It returns true if a pending swap was completed.
func (s *Store) Recover() (bool, error) {
	in, err := s.readIntent()

	switch {
	case fee.IsBlockInvalid(err):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("could not read key swap intent: %w", err)
	case in.Exists != Exists:
		return false, nil
	case !in.valid():
		klog.Warningf("Discarding corrupted key swap intent %+v", in)
		return false, s.clearIntent()
	}

	target := Slot(in.Target)

	klog.Infof("Completing interrupted key swap to %v slot", target)

	if err := s.settle(target); err != nil {
		return false, err
	}

	return true, nil
}

// settle leaves target Active and the other slot Inactive, then clears the
// swap intent.
func (s *Store) settle(target Slot) error {
	if err := s.ensure(target, KeyActive); err != nil {
		return err
	}

	if err := s.ensure(target.Other(), KeyInactive); err != nil {
		return err
	}

	return s.clearIntent()
}

// resolveIntent brings a pending swap in line with a request for target
// made while the requested status is already stored.
func (s *Store) resolveIntent(target Slot) error {
	pending, ok, err := s.PendingSwap()

	switch {
	case err != nil:
		klog.Warningf("Could not read key swap intent: %v", err)
		return nil
	case !ok:
		return nil
	case pending != target:
		klog.Warningf("Overriding pending key swap to %v slot", pending)

		if err := s.setIntent(target); err != nil {
			return fmt.Errorf("could not record key swap: %w", err)
		}
	}

	return s.settle(target)
}

// discardIntent clears any swap intent record, valid or not.
func (s *Store) discardIntent() error {
	in, err := s.readIntent()

	switch {
	case fee.IsBlockInvalid(err):
		return nil
	case err != nil:
		return fmt.Errorf("could not read key swap intent: %w", err)
	case in.Exists != Exists:
		return nil
	}

	klog.Warningf("Discarding pending key swap intent %+v", in)

	return s.clearIntent()
}

// ensure sets the status of a single slot, without cascading.
func (s *Store) ensure(slot Slot, want KeyStatus) error {
	rec, err := s.readKey(slot)
	if err != nil {
		return fmt.Errorf("could not read %v key: %w", slot, err)
	}

	if rec.Exists != Exists || rec.Status == want {
		return nil
	}

	rec.Status = want

	if err := s.write(slot.location(), encode(rec)); err != nil {
		return fmt.Errorf("could not set %v key %v: %w", slot, want, err)
	}

	return nil
}
