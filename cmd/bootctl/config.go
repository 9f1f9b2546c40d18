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
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/transparency-dev/armored-witness-bootstore/fee"
)

// Config holds the bootctl settings.
type Config struct {
	// Storage is the file backing the FEE device.
	Storage string `yaml:"storage"`
	// Passphrase derives the FEE block authentication key.
	Passphrase string `yaml:"passphrase"`

	// Memory is the file holding the firmware images memory region.
	Memory string `yaml:"memory"`
	// MemoryBase is the address of the first byte of Memory.
	MemoryBase uint32 `yaml:"memory_base"`

	// ReadyPolls bounds the wait for the device to become ready.
	ReadyPolls int `yaml:"ready_polls"`

	// ManifestPubKey is the file holding the note verifier key of signed
	// image manifests.
	ManifestPubKey string `yaml:"manifest_pubkey"`

	// MetricsFile, when set, receives the storage metrics in text format
	// on exit.
	MetricsFile string `yaml:"metrics_file"`
}

func defaultConfig() *Config {
	return &Config{
		Storage:    "bootenv.fee",
		ReadyPolls: fee.DefaultReadyPolls,
	}
}

// parseConfig decodes a YAML configuration over the defaults.
func parseConfig(buf []byte) (*Config, error) {
	cfg := defaultConfig()

	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadConfig(path string) (*Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return parseConfig(buf)
}

func (c *Config) validate() error {
	if c.Storage == "" {
		return errors.New("missing storage path")
	}

	if c.ReadyPolls < 0 {
		return fmt.Errorf("invalid ready_polls %d", c.ReadyPolls)
	}

	return nil
}
