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

package crc16

import (
	"bytes"
	"io"
	"testing"
)

func TestChecksum(t *testing.T) {
	for _, test := range []struct {
		name string
		data []byte
		want uint16
	}{
		{
			name: "empty",
			data: []byte{},
			want: 0x0000,
		}, {
			name: "nil",
			want: 0x0000,
		}, {
			name: "single zero byte",
			data: []byte{0x00},
			want: 0x0000,
		}, {
			name: "check string",
			data: []byte("123456789"),
			want: 0x31C3,
		}, {
			name: "four bytes",
			data: []byte{0x01, 0x02, 0x03, 0x04},
			want: 0x0D03,
		}, {
			name: "one bit flipped",
			data: []byte{0x01, 0x02, 0x03, 0x05},
			want: 0x1D22,
		}, {
			name: "high bit set",
			data: []byte{0x80},
			want: 0x9188,
		}, {
			name: "all ones",
			data: []byte{0xFF},
			want: 0x1EF0,
		}, {
			name: "big-endian key",
			data: []byte{0x12, 0x34, 0x56, 0x78},
			want: 0xB42C,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			if got := Checksum(test.data); got != test.want {
				t.Errorf("Checksum(%x) = 0x%04X, want 0x%04X", test.data, got, test.want)
			}
		})
	}
}

func TestChecksumIsStateless(t *testing.T) {
	data := []byte("123456789")
	first := Checksum(data)
	Checksum([]byte{0xde, 0xad})
	if second := Checksum(data); first != second {
		t.Fatalf("Checksum changed between calls: 0x%04X != 0x%04X", first, second)
	}
}

func TestUpdateMatchesChecksum(t *testing.T) {
	data := []byte("123456789")
	for split := 0; split <= len(data); split++ {
		got := Update(Update(0, data[:split]), data[split:])
		if want := Checksum(data); got != want {
			t.Errorf("split at %d: got 0x%04X, want 0x%04X", split, got, want)
		}
	}
}

func TestDigest(t *testing.T) {
	d := New()
	if _, err := io.Copy(d, bytes.NewReader([]byte("123456789"))); err != nil {
		t.Fatalf("io.Copy: %v", err)
	}
	if got, want := d.Sum16(), uint16(0x31C3); got != want {
		t.Fatalf("Sum16() = 0x%04X, want 0x%04X", got, want)
	}
	if got, want := d.Sum([]byte{0xaa}), []byte{0xaa, 0x31, 0xC3}; !bytes.Equal(got, want) {
		t.Fatalf("Sum() = %x, want %x", got, want)
	}

	d.Reset()
	if got := d.Sum16(); got != 0 {
		t.Fatalf("Sum16() after Reset = 0x%04X, want 0", got)
	}
}

func BenchmarkChecksum(b *testing.B) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Checksum(data)
	}
}
