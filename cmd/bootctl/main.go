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
//
// The bootctl tool inspects and updates a bootloader environment held in a
// file backed FEE device, only useful for development work.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/mod/sumdb/note"
	"k8s.io/klog/v2"

	"github.com/transparency-dev/armored-witness-bootstore/bootenv"
	"github.com/transparency-dev/armored-witness-bootstore/fee"
)

var (
	configFile   = flag.String("config", "", "YAML configuration file.")
	protoOut     = flag.Bool("proto", false, "Write the status in protobuf wire format.")
	showProgress = flag.Bool("progress", true, "Show progress while checksumming images.")
	skipRecovery = flag.Bool("skip_recovery", false, "Leave an interrupted key swap pending on startup.")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <command> [args]\n\nCommands:\n", os.Args[0])

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(flag.CommandLine.Output(), "  %s %s\n", name, commands[name].usage)
	}

	fmt.Fprintf(flag.CommandLine.Output(), "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()
	defer klog.Flush()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		klog.Exitf("Failed to load configuration %q: %v", *configFile, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	fd, err := fee.NewFileDevice(cfg.Storage, bootenv.Geometry, []byte(cfg.Passphrase))
	if err != nil {
		klog.Exitf("Failed to create storage device: %v", err)
	}

	dev, err := fee.Instrument(fd, reg)
	if err != nil {
		klog.Exitf("Failed to instrument storage device: %v", err)
	}

	store, err := bootenv.Open(dev, &bootenv.Options{
		ReadyPolls:   cfg.ReadyPolls,
		SkipRecovery: *skipRecovery,
	})
	if err != nil {
		klog.Exitf("Failed to open boot environment %q: %v", cfg.Storage, err)
	}

	c := &ctl{
		store:    store,
		memBase:  cfg.MemoryBase,
		out:      os.Stdout,
		proto:    *protoOut,
		readFile: os.ReadFile,
	}

	if *showProgress {
		c.progress = os.Stderr
	}

	if cfg.Memory != "" {
		f, err := os.OpenFile(cfg.Memory, os.O_RDWR|os.O_CREATE, 0o600)
		if err != nil {
			klog.Exitf("Failed to open memory region %q: %v", cfg.Memory, err)
		}
		defer f.Close()
		c.mem = f
	}

	if cfg.ManifestPubKey != "" {
		c.verifiers = note.VerifierList(verifierOrDie(cfg.ManifestPubKey))
	}

	err = c.run(flag.Args())

	store.Close()

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			klog.Errorf("Failed to write metrics to %q: %v", cfg.MetricsFile, err)
		}
	}

	if err != nil {
		klog.Exitf("%v", err)
	}
}

func verifierOrDie(p string) note.Verifier {
	vs, err := os.ReadFile(p)
	if err != nil {
		klog.Exitf("Failed to read manifest pub key file %q: %v", p, err)
	}
	v, err := note.NewVerifier(string(vs))
	if err != nil {
		klog.Exitf("Invalid manifest note verifier string %q: %v", vs, err)
	}
	return v
}
