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
	"io"
	"strconv"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/mod/sumdb/note"
	"k8s.io/klog/v2"

	"github.com/transparency-dev/armored-witness-bootstore/api"
	"github.com/transparency-dev/armored-witness-bootstore/bootenv"
	"github.com/transparency-dev/armored-witness-bootstore/internal/manifest"
)

// Memory is the firmware images memory region.
type Memory interface {
	io.ReaderAt
	io.WriterAt
}

type command struct {
	usage string
	nargs int
	run   func(c *ctl, args []string) error
}

var commands = map[string]command{
	"status":      {"", 0, (*ctl).status},
	"set-key":     {"<golden|secondary> <key>", 2, (*ctl).setKey},
	"activate":    {"<golden|secondary>", 1, (*ctl).activate},
	"deactivate":  {"<golden|secondary>", 1, (*ctl).deactivate},
	"active-key":  {"", 0, (*ctl).activeKey},
	"set-image":   {"<application|golden> <address> <size>", 3, (*ctl).setImage},
	"install":     {"<bundle>", 1, (*ctl).install},
	"verify":      {"<application|golden>", 1, (*ctl).verify},
	"boot-type":   {"[A|G|B]", -1, (*ctl).bootType},
	"boot-info":   {"[<count> <attempts>]", -1, (*ctl).bootInfo},
	"recover":     {"", 0, (*ctl).recoverSwap},
	"erase-image": {"<application|golden>", 1, (*ctl).eraseImage},
}

// ctl runs bootctl commands against an opened store.
type ctl struct {
	store *bootenv.Store
	// mem is nil when no memory region is configured.
	mem     Memory
	memBase uint32

	verifiers note.Verifiers

	out io.Writer
	// progress, when set, receives progress bars.
	progress io.Writer
	// proto selects the serialized status output.
	proto bool
	// readFile loads install bundles.
	readFile func(string) ([]byte, error)
}

func (c *ctl) run(args []string) error {
	if len(args) == 0 {
		return errors.New("missing command")
	}

	name, args := args[0], args[1:]

	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}

	if cmd.nargs >= 0 && len(args) != cmd.nargs {
		return fmt.Errorf("usage: %s %s", name, cmd.usage)
	}

	return cmd.run(c, args)
}

func parseSlot(s string) (bootenv.Slot, error) {
	for _, slot := range []bootenv.Slot{bootenv.GoldenSlot, bootenv.SecondarySlot} {
		if s == slot.String() {
			return slot, nil
		}
	}
	return 0, fmt.Errorf("unknown slot %q", s)
}

func parseKind(s string) (bootenv.ImageKind, error) {
	for _, k := range []bootenv.ImageKind{bootenv.Application, bootenv.Golden} {
		if s == k.String() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown image kind %q", s)
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	return uint32(v), err
}

func (c *ctl) status(_ []string) error {
	var v *bootenv.Verifier

	if c.mem != nil {
		v = bootenv.NewVerifier(c.store, c.mapped())
	}

	s := api.NewStatus(c.store, v)

	if c.proto {
		_, err := c.out.Write(s.Bytes())
		return err
	}

	_, err := fmt.Fprintln(c.out, s.Print())

	return err
}

func (c *ctl) setKey(args []string) error {
	slot, err := parseSlot(args[0])
	if err != nil {
		return err
	}

	key, err := parseUint32(args[1])
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}

	return c.store.SetKey(slot, key)
}

func (c *ctl) activate(args []string) error {
	slot, err := parseSlot(args[0])
	if err != nil {
		return err
	}

	return c.store.Activate(slot)
}

func (c *ctl) deactivate(args []string) error {
	slot, err := parseSlot(args[0])
	if err != nil {
		return err
	}

	return c.store.Deactivate(slot)
}

func (c *ctl) activeKey(_ []string) error {
	slot := c.store.ActiveSlot()
	rec := c.store.KeyRecord(slot)

	_, err := fmt.Fprintf(c.out, "%#08x (%v, %v)\n", c.store.ActiveKey(), slot, rec.Status)

	return err
}

func (c *ctl) mapped() bootenv.Mapped {
	return bootenv.Mapped{R: c.mem, Base: c.memBase}
}

// checksum computes the CRC16 of an image in memory, reporting progress
// when enabled.
func (c *ctl) checksum(addr uint32, size uint32) (uint16, error) {
	if c.progress == nil {
		return bootenv.ImageChecksum(c.mapped(), addr, size)
	}

	bar := pb.New64(int64(size)).SetTemplate(pb.Full).SetWriter(c.progress).Start()
	defer bar.Finish()

	r := bar.NewProxyReader(io.NewSectionReader(c.mapped(), int64(addr), int64(size)))

	crc, err := bootenv.ReadChecksum(r, size)
	if err != nil {
		return 0, fmt.Errorf("image at %#x: %w", addr, err)
	}

	return crc, nil
}

func (c *ctl) setImage(args []string) error {
	if c.mem == nil {
		return errors.New("no memory region configured")
	}

	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}

	addr, err := parseUint32(args[1])
	if err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}

	size, err := parseUint32(args[2])
	if err != nil {
		return fmt.Errorf("invalid size: %w", err)
	}

	crc, err := c.checksum(addr, size)
	if err != nil {
		return err
	}

	d := bootenv.ImageDescriptor{
		Exists:  bootenv.Exists,
		Size:    size,
		Address: addr,
		CRC:     crc,
	}

	klog.Infof("Recording %v image at %#x (%d bytes, crc %#04x)", kind, addr, size, crc)

	return c.store.SetDescriptor(kind, d)
}

func (c *ctl) eraseImage(args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}

	return c.store.SetDescriptor(kind, bootenv.ImageDescriptor{})
}

// install loads a signed image bundle into memory and records its
// descriptor.
func (c *ctl) install(args []string) error {
	if c.mem == nil {
		return errors.New("no memory region configured")
	}

	if c.verifiers == nil {
		return errors.New("no manifest verification key configured")
	}

	buf, err := c.readFile(args[0])
	if err != nil {
		return err
	}

	signed, image, err := manifest.Extract(buf)
	if err != nil {
		return fmt.Errorf("invalid bundle: %w", err)
	}

	m, err := manifest.Open(signed, c.verifiers)
	if err != nil {
		return err
	}

	if err = m.Check(image); err != nil {
		return err
	}

	if m.Address < c.memBase {
		return fmt.Errorf("%v image address %#x below memory base %#x", m.Kind, m.Address, c.memBase)
	}

	klog.Infof("Installing %v image at %#x (%d bytes)", m.Kind, m.Address, m.Size)

	if _, err = c.mem.WriteAt(image, int64(m.Address-c.memBase)); err != nil {
		return fmt.Errorf("could not load image: %w", err)
	}

	if crc, err := c.checksum(m.Address, m.Size); err != nil {
		return err
	} else if crc != m.CRC {
		return fmt.Errorf("loaded image checksum %#04x, manifest %#04x", crc, m.CRC)
	}

	return c.store.SetDescriptor(m.Kind, m.Descriptor())
}

func (c *ctl) verify(args []string) error {
	if c.mem == nil {
		return errors.New("no memory region configured")
	}

	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}

	if err := bootenv.NewVerifier(c.store, c.mapped()).Check(kind); err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.out, "%v image verified\n", kind)

	return err
}

func (c *ctl) bootType(args []string) error {
	switch len(args) {
	case 0:
		t, err := c.store.BootType()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.out, t)
		return err
	case 1:
		if len(args[0]) != 1 {
			return fmt.Errorf("invalid boot type %q", args[0])
		}
		return c.store.SetBootType(bootenv.BootType(args[0][0]))
	}

	return errors.New("usage: boot-type [A|G|B]")
}

func (c *ctl) bootInfo(args []string) error {
	switch len(args) {
	case 0:
		info, err := c.store.BootInfo()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(c.out, "count:%d attempts:%d\n", info.Count, info.Attempts)
		return err
	case 2:
		count, err := parseUint32(args[0])
		if err != nil {
			return fmt.Errorf("invalid count: %w", err)
		}
		attempts, err := parseUint32(args[1])
		if err != nil {
			return fmt.Errorf("invalid attempts: %w", err)
		}
		return c.store.SetBootInfo(bootenv.BootInfo{Count: count, Attempts: attempts})
	}

	return errors.New("usage: boot-info [<count> <attempts>]")
}

func (c *ctl) recoverSwap(_ []string) error {
	done, err := c.store.Recover()
	if err != nil {
		return err
	}

	if done {
		_, err = fmt.Fprintln(c.out, "interrupted key swap completed")
	} else {
		_, err = fmt.Fprintln(c.out, "no pending key swap")
	}

	return err
}
