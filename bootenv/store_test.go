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
	"strings"
	"testing"

	"github.com/coreos/go-semver/semver"

	"github.com/transparency-dev/armored-witness-bootstore/fee"
	"github.com/transparency-dev/armored-witness-bootstore/fee/testonly"
)

func memStore(t *testing.T) (*Store, *testonly.MemDev) {
	t.Helper()
	md := testonly.NewMemDev(t, Geometry)
	s, err := Open(md, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, md
}

func layoutBlock(v string) []byte {
	b := make([]byte, layoutEpochLength)
	copy(b, v)
	return b
}

func TestGeometry(t *testing.T) {
	if err := Geometry.Validate(); err != nil {
		t.Fatalf("Geometry.Validate: %v", err)
	}

	for _, loc := range []location{
		bootTypeLoc,
		appDescriptorLoc,
		goldenDescriptorLoc,
		goldenKeyLoc,
		bootInfoLoc,
		secondaryKeyLoc,
		layoutEpochLoc,
		swapIntentLoc,
	} {
		size, ok := Geometry.Size(loc.block)
		if !ok {
			t.Errorf("Block %d not configured", loc.block)
			continue
		}
		if end := int(loc.offset) + loc.length; end > size {
			t.Errorf("Record at block %d offset %d ends at %d, block size %d", loc.block, loc.offset, end, size)
		}
	}

	if goldenKeyLoc.block == bootInfoLoc.block && int(goldenKeyLoc.offset)+goldenKeyLoc.length > int(bootInfoLoc.offset) {
		t.Errorf("Golden key record overlaps boot info")
	}
}

func TestOpen(t *testing.T) {
	for _, test := range []struct {
		name    string
		setup   func(md *testonly.MemDev)
		opts    *Options
		wantErr error
	}{
		{
			name: "fresh storage",
		}, {
			name:  "busy for a while",
			setup: func(md *testonly.MemDev) { md.BusyPolls = 20 },
			opts:  &Options{ReadyPolls: 50},
		}, {
			name:    "never ready",
			setup:   func(md *testonly.MemDev) { md.BusyPolls = -1 },
			opts:    &Options{ReadyPolls: 50},
			wantErr: ErrStorageTimeout,
		}, {
			name:    "newer layout",
			setup:   func(md *testonly.MemDev) { md.Blocks[LayoutEpochBlock] = layoutBlock("9.0.0") },
			wantErr: ErrLayoutTooNew,
		}, {
			name:  "older layout",
			setup: func(md *testonly.MemDev) { md.Blocks[LayoutEpochBlock] = layoutBlock("1.0.0") },
		}, {
			name:  "same layout",
			setup: func(md *testonly.MemDev) { md.Blocks[LayoutEpochBlock] = layoutBlock(LayoutVersion.String()) },
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			md := testonly.NewMemDev(t, Geometry)
			if test.setup != nil {
				test.setup(md)
			}

			s, err := Open(md, test.opts)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("Got %v, want %v", err, test.wantErr)
			}
			if err != nil {
				if md.Status() != fee.Uninit {
					t.Errorf("Device not shut down after failed Open")
				}
				return
			}
			defer s.Close()

			v, err := s.Layout()
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			if !v.Equal(LayoutVersion) {
				t.Errorf("Got layout %v, want %v", v, LayoutVersion)
			}
		})
	}
}

func TestOpenTimeoutBound(t *testing.T) {
	md := testonly.NewMemDev(t, Geometry)
	md.BusyPolls = -1

	_, err := Open(md, &Options{ReadyPolls: 100})
	if !errors.Is(err, ErrStorageTimeout) || !errors.Is(err, fee.ErrNotReady) {
		t.Fatalf("Got %v, want ErrStorageTimeout wrapping fee.ErrNotReady", err)
	}
	if got, want := md.Polls, 101; got != want {
		t.Errorf("Got %d polls, want %d", got, want)
	}
	if len(md.Blocks) != 0 {
		t.Errorf("Storage written by failed Open")
	}
}

func TestOpenInitError(t *testing.T) {
	md := testonly.NewMemDev(t, Geometry)
	md.InitErr = errors.New("no flash")

	if _, err := Open(md, nil); !errors.Is(err, md.InitErr) {
		t.Fatalf("Got %v, want %v", err, md.InitErr)
	}
}

func TestOpenCorruptedLayout(t *testing.T) {
	for _, test := range []struct {
		name    string
		onWrite func(block uint16) fee.JobResult
		want    string
	}{
		{
			name: "restamped",
			want: LayoutVersion.String(),
		}, {
			name:    "restamp failure",
			onWrite: failBlock(LayoutEpochBlock, fee.JobFailed),
			want:    "not a version",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			md := testonly.NewMemDev(t, Geometry)
			md.Blocks[LayoutEpochBlock] = layoutBlock("not a version")
			md.OnWrite = test.onWrite

			s, err := Open(md, nil)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer s.Close()
			md.OnWrite = nil

			if got := strings.TrimRight(string(md.Blocks[LayoutEpochBlock]), "\x00"); got != test.want {
				t.Errorf("Got layout block %q, want %q", got, test.want)
			}
			if err := s.SetKey(GoldenSlot, goldenKey); err != nil {
				t.Fatalf("SetKey: %v", err)
			}
		})
	}
}

func TestOpenLayoutUnreadable(t *testing.T) {
	md := testonly.NewMemDev(t, Geometry)
	md.Blocks[LayoutEpochBlock] = layoutBlock("1.0.0")
	md.OnRead = failBlock(LayoutEpochBlock, fee.BlockInconsistent)

	s, err := Open(md, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if got := string(md.Blocks[LayoutEpochBlock][:5]); got != "1.0.0" {
		t.Errorf("Got layout block %q, want it untouched", got)
	}

	var je *fee.JobError
	if _, err := s.Layout(); !errors.As(err, &je) || je.Result != fee.BlockInconsistent {
		t.Errorf("Got Layout error %v, want BlockInconsistent job error", err)
	}

	setKeys(t, s)
	if got := s.ActiveKey(); got != goldenKey {
		t.Errorf("Got active key %#x, want %#x", got, goldenKey)
	}
}

func TestLayoutVersion(t *testing.T) {
	if !semver.New("1.0.0").LessThan(LayoutVersion) {
		t.Errorf("Layout version %v does not follow the unversioned layout", LayoutVersion)
	}
}
