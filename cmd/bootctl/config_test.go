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

package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/transparency-dev/armored-witness-bootstore/fee"
)

func TestParseConfig(t *testing.T) {
	for _, test := range []struct {
		name    string
		yaml    string
		want    *Config
		wantErr bool
	}{
		{
			name: "defaults",
			yaml: "",
			want: defaultConfig(),
		}, {
			name: "full",
			yaml: `
storage: /var/lib/boot/fee.img
passphrase: s3cret
memory: /var/lib/boot/flash.bin
memory_base: 0x18000
ready_polls: 500
manifest_pubkey: release.pub
metrics_file: /tmp/bootctl.prom
`,
			want: &Config{
				Storage:        "/var/lib/boot/fee.img",
				Passphrase:     "s3cret",
				Memory:         "/var/lib/boot/flash.bin",
				MemoryBase:     0x18000,
				ReadyPolls:     500,
				ManifestPubKey: "release.pub",
				MetricsFile:    "/tmp/bootctl.prom",
			},
		}, {
			name: "partial",
			yaml: "passphrase: x\n",
			want: &Config{
				Storage:    "bootenv.fee",
				Passphrase: "x",
				ReadyPolls: fee.DefaultReadyPolls,
			},
		}, {
			name:    "empty storage",
			yaml:    "storage: \"\"\n",
			wantErr: true,
		}, {
			name:    "negative polls",
			yaml:    "ready_polls: -1\n",
			wantErr: true,
		}, {
			name:    "not yaml",
			yaml:    "storage: [\n",
			wantErr: true,
		}, {
			name:    "bad type",
			yaml:    "memory_base: high\n",
			wantErr: true,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := parseConfig([]byte(test.yaml))
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("Got %v, wantErr %t", err, test.wantErr)
			}
			if err != nil {
				return
			}
			if d := cmp.Diff(test.want, got); d != "" {
				t.Fatalf("Got diff: %s", d)
			}
		})
	}
}
