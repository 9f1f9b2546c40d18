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

package api

import (
	"k8s.io/klog/v2"

	"github.com/transparency-dev/armored-witness-bootstore/bootenv"
)

// NewStatus reports the content of store, images are checked with v when
// not nil.
//
// Unreadable records are reported as absent.
func NewStatus(store *bootenv.Store, v *bootenv.Verifier) *Status {
	s := &Status{}

	if t, err := store.BootType(); err != nil {
		klog.V(1).Infof("Boot type: %v", err)
	} else {
		s.BootType = uint32(t)
	}

	if info, err := store.BootInfo(); err != nil {
		klog.V(1).Infof("Boot info: %v", err)
	} else {
		s.BootCount = info.Count
		s.BootAttempts = info.Attempts
	}

	s.Application = image(store, v, bootenv.Application)
	s.Golden = image(store, v, bootenv.Golden)
	s.GoldenKey = key(store, bootenv.GoldenSlot)
	s.SecondaryKey = key(store, bootenv.SecondarySlot)
	s.ActiveSlot = store.ActiveSlot().String()

	if l, err := store.Layout(); err == nil {
		s.Layout = l.String()
	}

	if slot, ok, err := store.PendingSwap(); err != nil {
		klog.Warningf("Key swap intent: %v", err)
	} else if ok {
		s.PendingSwap = slot.String()
	}

	return s
}

func image(store *bootenv.Store, v *bootenv.Verifier, kind bootenv.ImageKind) *Image {
	d, err := store.Descriptor(kind)
	if err != nil {
		klog.V(1).Infof("%v descriptor: %v", kind, err)
	}

	return &Image{
		Present:  d.Present(),
		Address:  d.Address,
		Size:     d.Size,
		Crc:      uint32(d.CRC),
		Verified: d.Present() && v != nil && v.Verify(kind),
	}
}

func key(store *bootenv.Store, slot bootenv.Slot) *Key {
	rec := store.KeyRecord(slot)

	return &Key{
		Status: rec.Status.String(),
		Key:    rec.Key,
	}
}
