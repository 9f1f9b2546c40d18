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
	"github.com/coreos/go-semver/semver"

	"github.com/transparency-dev/armored-witness-bootstore/fee"
)

// FEE block numbers, these must match across firmware and tooling versions.
const (
	BootTypeBlock         = 1
	AppDescriptorBlock    = 2
	GoldenDescriptorBlock = 3
	GoldenKeyBlock        = 4
	// BootInfoBlock is shared with the golden key record, at a distinct
	// offset.
	BootInfoBlock     = 4
	SecondaryKeyBlock = 5
	LayoutEpochBlock  = 6
	SwapIntentBlock   = 7
)

const (
	bootTypeLength     = 1
	descriptorLength   = 14
	keyRecordLength    = 11
	keyLength          = 4
	bootInfoLength     = 8
	bootInfoOffset     = 16
	goldenKeyBlockSize = 24
	layoutEpochLength  = 32
	swapIntentLength   = 7
)

// Default load addresses of the golden and application images.
const (
	GoldenDefaultAddress      = 0x00018000
	ApplicationDefaultAddress = 0x00200000
)

// LayoutVersion is the version of the record layout implemented by this
// package. 1.0.0 lacks the layout epoch and swap intent blocks.
var LayoutVersion = *semver.New("1.1.0")

// Geometry is the FEE block configuration required by a Store.
var Geometry = fee.Geometry{
	{Number: BootTypeBlock, Size: bootTypeLength},
	{Number: AppDescriptorBlock, Size: descriptorLength},
	{Number: GoldenDescriptorBlock, Size: descriptorLength},
	{Number: GoldenKeyBlock, Size: goldenKeyBlockSize},
	{Number: SecondaryKeyBlock, Size: keyRecordLength},
	{Number: LayoutEpochBlock, Size: layoutEpochLength},
	{Number: SwapIntentBlock, Size: swapIntentLength},
}

// location identifies a record within a block.
type location struct {
	block  uint16
	offset uint16
	length int
}

var (
	bootTypeLoc         = location{BootTypeBlock, 0, bootTypeLength}
	appDescriptorLoc    = location{AppDescriptorBlock, 0, descriptorLength}
	goldenDescriptorLoc = location{GoldenDescriptorBlock, 0, descriptorLength}
	goldenKeyLoc        = location{GoldenKeyBlock, 0, keyRecordLength}
	bootInfoLoc         = location{BootInfoBlock, bootInfoOffset, bootInfoLength}
	secondaryKeyLoc     = location{SecondaryKeyBlock, 0, keyRecordLength}
	layoutEpochLoc      = location{LayoutEpochBlock, 0, layoutEpochLength}
	swapIntentLoc       = location{SwapIntentBlock, 0, swapIntentLength}
)
