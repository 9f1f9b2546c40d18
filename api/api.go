// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package api defines the status report exchanged by bootloader environment
// tools, serialized as a protobuf message.
package api

import (
	"bytes"
	"fmt"

	"google.golang.org/protobuf/proto"
)

//go:generate protoc --go_out=. --go_opt=paths=source_relative api.proto

// Bytes serializes a status message.
func (p *Status) Bytes() (buf []byte) {
	buf, _ = proto.Marshal(p)
	return
}

func (p *Image) print() string {
	if p == nil || !p.Present {
		return "absent"
	}
	return fmt.Sprintf("%#08x+%d crc:%#04x verified:%v", p.Address, p.Size, p.Crc, p.Verified)
}

func (p *Key) print() string {
	if p == nil {
		return "unknown"
	}
	return fmt.Sprintf("%#08x (%s)", p.Key, p.Status)
}

// Print returns the bootloader environment status in textual format.
func (p *Status) Print() string {
	var status bytes.Buffer

	pending := p.PendingSwap
	if pending == "" {
		pending = "none"
	}

	status.WriteString("----------------------------------------------- Boot environment ----\n")
	status.WriteString(fmt.Sprintf("Layout .................: %s\n", p.Layout))
	status.WriteString(fmt.Sprintf("Boot type ..............: %q\n", rune(p.BootType)))
	status.WriteString(fmt.Sprintf("Boot count .............: %d (%d attempts)\n", p.BootCount, p.BootAttempts))
	status.WriteString(fmt.Sprintf("Application image ......: %s\n", p.Application.print()))
	status.WriteString(fmt.Sprintf("Golden image ...........: %s\n", p.Golden.print()))
	status.WriteString(fmt.Sprintf("Golden key .............: %s\n", p.GoldenKey.print()))
	status.WriteString(fmt.Sprintf("Secondary key ..........: %s\n", p.SecondaryKey.print()))
	status.WriteString(fmt.Sprintf("Active slot ............: %s\n", p.ActiveSlot))
	status.WriteString(fmt.Sprintf("Pending key swap .......: %s", pending))

	return status.String()
}
