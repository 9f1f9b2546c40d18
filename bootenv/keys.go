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
	"errors"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/transparency-dev/armored-witness-bootstore/fee"
)

// Slot identifies one of the two CSP key slots.
type Slot int

const (
	GoldenSlot Slot = iota
	SecondarySlot
)

func (s Slot) String() string {
	switch s {
	case GoldenSlot:
		return "golden"
	case SecondarySlot:
		return "secondary"
	}
	return fmt.Sprintf("Slot(%d)", int(s))
}

// Other returns the opposite slot.
func (s Slot) Other() Slot {
	if s == GoldenSlot {
		return SecondarySlot
	}
	return GoldenSlot
}

func (s Slot) valid() bool {
	return s == GoldenSlot || s == SecondarySlot
}

func (s Slot) location() location {
	if s == SecondarySlot {
		return secondaryKeyLoc
	}
	return goldenKeyLoc
}

// defaultStatus is the status given to a freshly stored key.
func (s Slot) defaultStatus() KeyStatus {
	if s == GoldenSlot {
		return KeyActive
	}
	return KeyInactive
}

func opposite(st KeyStatus) KeyStatus {
	if st == KeyActive {
		return KeyInactive
	}
	return KeyActive
}

// SetKey unconditionally stores key in slot, discarding its previous status.
//
// The golden key is stored Active and the secondary key Inactive, the other
// slot is left untouched. A pending key swap is discarded first so that it
// cannot later activate the new key.
func (s *Store) SetKey(slot Slot, key uint32) error {
	if !slot.valid() {
		return fmt.Errorf("invalid slot %v", slot)
	}

	if err := s.discardIntent(); err != nil {
		return fmt.Errorf("could not store %v key: %w", slot, err)
	}

	rec := newKeyRecord(key, slot.defaultStatus())

	if err := s.write(slot.location(), encode(rec)); err != nil {
		return fmt.Errorf("could not store %v key: %w", slot, err)
	}

	klog.Infof("Stored %v key (%v)", slot, rec.Status)

	return nil
}

// readKey returns the raw content of a key slot.
func (s *Store) readKey(slot Slot) (rec KeyRecord, err error) {
	if !slot.valid() {
		return rec, fmt.Errorf("invalid slot %v", slot)
	}

	buf := make([]byte, keyRecordLength)

	// a never written block holds an absent record
	if err = s.read(slot.location(), buf); fee.IsBlockInvalid(err) {
		return KeyRecord{}, nil
	} else if err != nil {
		return
	}

	err = decode(buf, &rec)

	return
}

// LookupKey returns the record held in slot.
//
// The returned error distinguishes a storage failure (*fee.JobError), an
// absent record (ErrRecordAbsent) and a corrupted record (*ChecksumError),
// checked in this order.
func (s *Store) LookupKey(slot Slot) (KeyRecord, error) {
	rec, err := s.readKey(slot)
	if err != nil {
		return KeyRecord{}, err
	}

	if rec.Exists != Exists {
		return rec, ErrRecordAbsent
	}

	if crc := keyChecksum(rec.Key); crc != rec.CRC {
		return rec, &ChecksumError{
			Record: slot.String() + " key",
			Want:   rec.CRC,
			Got:    crc,
		}
	}

	return rec, nil
}

// KeyRecord returns the record held in slot, with its status replaced by
// KeyReadError, KeyDoesNotExist or KeyCrcError when it cannot be trusted.
func (s *Store) KeyRecord(slot Slot) KeyRecord {
	rec, err := s.LookupKey(slot)

	var ce *ChecksumError

	switch {
	case err == nil:
	case errors.Is(err, ErrRecordAbsent):
		rec.Status = KeyDoesNotExist
	case errors.As(err, &ce):
		rec.Status = KeyCrcError
	default:
		klog.V(1).Infof("Reading %v key: %v", slot, err)
		rec.Status = KeyReadError
	}

	return rec
}

// ActiveSlot returns the slot whose key ActiveKey returns.
func (s *Store) ActiveSlot() Slot {
	if s.KeyRecord(SecondarySlot).Status == KeyActive {
		return SecondarySlot
	}
	return GoldenSlot
}

// ActiveKey returns the key authorizing secure boot operations.
//
// The secondary key is returned when Active, otherwise the golden key value is
// returned whatever its status, as the golden slot is the default trust
// anchor.
//
// WARNING: this means that a corrupted, unreadable or absent golden key is
// still returned. Callers which cannot accept this must check
// KeyRecord(GoldenSlot) themselves.
func (s *Store) ActiveKey() uint32 {
	if rec := s.KeyRecord(SecondarySlot); rec.Status == KeyActive {
		return rec.Key
	}

	rec := s.KeyRecord(GoldenSlot)

	if rec.Status != KeyActive && rec.Status != KeyInactive {
		klog.Warningf("Falling back to golden key with status: %v", rec.Status)
	}

	return rec.Key
}

// Activate makes slot the active key slot, deactivating the other one.
//
// Activating an already active slot writes nothing, unless a pending swap
// to the other slot is left over, in which case that swap is overridden. An
// absent slot is not activated and ErrRecordAbsent is returned. The two slot
// updates are preceded by a swap intent record so that an interrupted swap
// is completed by Recover, a failed swap is not rolled back.
func (s *Store) Activate(slot Slot) error {
	return s.transition(slot, KeyActive)
}

// Deactivate makes slot inactive, activating the other one.
//
// It is the mirror of Activate, an absent slot is left untouched and
// ErrRecordAbsent is returned.
func (s *Store) Deactivate(slot Slot) error {
	return s.transition(slot, KeyInactive)
}

func (s *Store) transition(slot Slot, want KeyStatus) error {
	rec, err := s.readKey(slot)
	if err != nil {
		return fmt.Errorf("could not read %v key: %w", slot, err)
	}

	target := slot
	if want == KeyInactive {
		target = slot.Other()
	}

	if rec.Status == want {
		return s.resolveIntent(target)
	}

	if rec.Exists != Exists {
		return fmt.Errorf("%v key: %w", slot, ErrRecordAbsent)
	}

	if err := s.setIntent(target); err != nil {
		return fmt.Errorf("could not record key swap: %w", err)
	}

	if err := s.apply(slot, rec, want); err != nil {
		return err
	}

	return s.clearIntent()
}

// setStatus gives slot the wanted status, cascading the opposite status onto
// the other slot. Absent records are skipped.
func (s *Store) setStatus(slot Slot, want KeyStatus) error {
	rec, err := s.readKey(slot)
	if err != nil {
		return fmt.Errorf("could not read %v key: %w", slot, err)
	}

	if rec.Status == want {
		return nil
	}

	if rec.Exists != Exists {
		klog.Warningf("Not setting absent %v key %v", slot, want)
		return nil
	}

	return s.apply(slot, rec, want)
}

func (s *Store) apply(slot Slot, rec KeyRecord, want KeyStatus) error {
	rec.Status = want

	if err := s.write(slot.location(), encode(rec)); err != nil {
		return fmt.Errorf("could not set %v key %v: %w", slot, want, err)
	}

	klog.V(1).Infof("%v key is now %v", slot, want)

	return s.setStatus(slot.Other(), opposite(want))
}
