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

package manifest

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/mod/sumdb/note"

	"github.com/transparency-dev/armored-witness-bootstore/bootenv"
)

func keys(t *testing.T, name string) (note.Signer, note.Verifier) {
	t.Helper()

	skey, vkey, err := note.GenerateKey(rand.Reader, name)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	s, err := note.NewSigner(skey)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	v, err := note.NewVerifier(vkey)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	return s, v
}

func TestMarshal(t *testing.T) {
	m := New(bootenv.Application, bootenv.ApplicationDefaultAddress, []byte{1, 2, 3, 4})

	want := "bootstore image manifest v1\napplication\n0x200000\n4\n0x0d03\n"
	if got := string(m.Marshal()); got != want {
		t.Fatalf("Got %q, want %q", got, want)
	}

	var got Manifest
	if err := got.Unmarshal(m.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if d := cmp.Diff(m, got); d != "" {
		t.Fatalf("Got diff: %s", d)
	}
}

func TestUnmarshal(t *testing.T) {
	for _, test := range []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "valid", text: "bootstore image manifest v1\ngolden\n0x18000\n16\n0x1d22\n"},
		{name: "bad header", text: "bootstore image manifest v2\ngolden\n0x18000\n16\n0x1d22\n", wantErr: true},
		{name: "bad kind", text: "bootstore image manifest v1\nbootloader\n0x18000\n16\n0x1d22\n", wantErr: true},
		{name: "bad address", text: "bootstore image manifest v1\ngolden\n0x1000000000\n16\n0x1d22\n", wantErr: true},
		{name: "bad size", text: "bootstore image manifest v1\ngolden\n0x18000\n-1\n0x1d22\n", wantErr: true},
		{name: "bad crc", text: "bootstore image manifest v1\ngolden\n0x18000\n16\n0x10000\n", wantErr: true},
		{name: "trailing line", text: "bootstore image manifest v1\ngolden\n0x18000\n16\n0x1d22\nextra\n", wantErr: true},
		{name: "missing newline", text: "bootstore image manifest v1\ngolden\n0x18000\n16\n0x1d22", wantErr: true},
	} {
		t.Run(test.name, func(t *testing.T) {
			var m Manifest
			err := m.Unmarshal([]byte(test.text))
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("Got %v, wantErr %t", err, test.wantErr)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	signer, verifier := keys(t, "release")
	_, other := keys(t, "other")

	image := []byte("123456789")
	m := New(bootenv.Golden, bootenv.GoldenDefaultAddress, image)

	signed, err := Sign(m, signer)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	for _, test := range []struct {
		name      string
		signed    []byte
		verifiers note.Verifiers
		wantErr   bool
	}{
		{name: "valid", signed: signed, verifiers: note.VerifierList(verifier)},
		{name: "unknown key", signed: signed, verifiers: note.VerifierList(other), wantErr: true},
		{name: "altered", signed: append([]byte("x"), signed...), verifiers: note.VerifierList(verifier), wantErr: true},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := Open(test.signed, test.verifiers)
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("Got %v, wantErr %t", err, test.wantErr)
			}
			if err != nil {
				return
			}
			if d := cmp.Diff(&m, got); d != "" {
				t.Fatalf("Got diff: %s", d)
			}
			if err := got.Check(image); err != nil {
				t.Fatalf("Check: %v", err)
			}
			if d := cmp.Diff(bootenv.NewImageDescriptor(bootenv.GoldenDefaultAddress, image), got.Descriptor()); d != "" {
				t.Fatalf("Got descriptor diff: %s", d)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	m := New(bootenv.Application, 0, []byte{1, 2, 3, 4})

	if err := m.Check([]byte{1, 2, 3}); err == nil {
		t.Error("Check succeeded on short image")
	}

	var ce *bootenv.ChecksumError
	if err := m.Check([]byte{1, 2, 3, 5}); !errors.As(err, &ce) {
		t.Fatalf("Got %v, want *ChecksumError", err)
	}
	if ce.Want != 0x0D03 || ce.Got != 0x1D22 {
		t.Errorf("Got %v", ce)
	}
}

func TestBundle(t *testing.T) {
	for _, test := range []struct {
		name      string
		buf       []byte
		wantSig   []byte
		wantImage []byte
		wantErr   bool
	}{
		{
			name:      "valid",
			buf:       Bundle([]byte("signed"), []byte{1, 2, 3}),
			wantSig:   []byte("signed"),
			wantImage: []byte{1, 2, 3},
		}, {
			name:      "empty image",
			buf:       Bundle([]byte("signed"), nil),
			wantSig:   []byte("signed"),
			wantImage: []byte{},
		}, {
			name:    "short",
			buf:     []byte{0, 0},
			wantErr: true,
		}, {
			name:    "overlong manifest",
			buf:     []byte{0, 0, 0, 9, 'a'},
			wantErr: true,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			sig, image, err := Extract(test.buf)
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("Got %v, wantErr %t", err, test.wantErr)
			}
			if err != nil {
				return
			}
			if d := cmp.Diff(test.wantSig, sig); d != "" {
				t.Errorf("Got manifest diff: %s", d)
			}
			if d := cmp.Diff(test.wantImage, image); d != "" {
				t.Errorf("Got image diff: %s", d)
			}
		})
	}
}
