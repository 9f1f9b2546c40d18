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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/transparency-dev/armored-witness-bootstore/fee"
)

func TestDescriptor(t *testing.T) {
	for _, test := range []struct {
		name string
		kind ImageKind
		d    ImageDescriptor
	}{
		{
			name: "application",
			kind: Application,
			d:    NewImageDescriptor(ApplicationDefaultAddress, []byte{1, 2, 3, 4}),
		}, {
			name: "golden",
			kind: Golden,
			d:    NewImageDescriptor(GoldenDefaultAddress, []byte("123456789")),
		}, {
			name: "stored as is",
			kind: Application,
			d:    ImageDescriptor{Exists: 0x01020304, Size: 0xFFFFFFFF, Address: 0, CRC: 0xBEEF},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			s, _ := memStore(t)

			if err := s.SetDescriptor(test.kind, test.d); err != nil {
				t.Fatalf("SetDescriptor: %v", err)
			}

			got, err := s.Descriptor(test.kind)
			if err != nil {
				t.Fatalf("Descriptor: %v", err)
			}
			if d := cmp.Diff(test.d, got); d != "" {
				t.Fatalf("Got diff: %s", d)
			}
		})
	}
}

func TestDescriptorsIndependent(t *testing.T) {
	s, _ := memStore(t)

	app := NewImageDescriptor(ApplicationDefaultAddress, []byte{1, 2, 3, 4})
	golden := NewImageDescriptor(GoldenDefaultAddress, []byte{1, 2, 3, 5})

	if err := s.SetDescriptor(Application, app); err != nil {
		t.Fatalf("SetDescriptor: %v", err)
	}
	if err := s.SetDescriptor(Golden, golden); err != nil {
		t.Fatalf("SetDescriptor: %v", err)
	}

	got, err := s.Descriptor(Application)
	if err != nil {
		t.Fatalf("Descriptor: %v", err)
	}
	if d := cmp.Diff(app, got); d != "" {
		t.Fatalf("Got diff: %s", d)
	}
	if got.CRC != 0x0D03 {
		t.Errorf("Got CRC %#x, want 0x0d03", got.CRC)
	}
}

func TestDescriptorErrors(t *testing.T) {
	for _, test := range []struct {
		name  string
		kind  ImageKind
		setup func(t *testing.T, s *Store)
	}{
		{
			name:  "never written",
			kind:  Golden,
			setup: func(t *testing.T, s *Store) {},
		}, {
			name: "read failure",
			kind: Application,
			setup: func(t *testing.T, s *Store) {
				if err := s.SetDescriptor(Application, NewImageDescriptor(1, []byte{1})); err != nil {
					t.Fatalf("SetDescriptor: %v", err)
				}
				s.Close()
			},
		}, {
			name:  "unknown kind",
			kind:  ImageKind(3),
			setup: func(t *testing.T, s *Store) {},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			s, _ := memStore(t)
			test.setup(t, s)

			d, err := s.Descriptor(test.kind)
			if err == nil {
				t.Fatal("Descriptor succeeded")
			}
			if d := cmp.Diff(ImageDescriptor{}, d); d != "" {
				t.Fatalf("Got diff: %s", d)
			}
			if d.Present() {
				t.Error("Descriptor reported present")
			}
		})
	}
}

func TestSetDescriptorFailure(t *testing.T) {
	s, md := memStore(t)
	md.OnWrite = failBlock(GoldenDescriptorBlock, fee.JobFailed)

	if err := s.SetDescriptor(Golden, NewImageDescriptor(GoldenDefaultAddress, []byte{1})); err == nil {
		t.Fatal("SetDescriptor succeeded on failing storage")
	}
}
