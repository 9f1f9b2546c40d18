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

// Package bootenv implements the persistent bootloader environment: boot
// path marker, boot attempt counters, firmware image descriptors and the
// rotating pair of CSP keys authorizing secure boot operations.
//
// Records are packed big-endian structures held in FEE blocks:
//
//	block  offset  record
//	1      0       boot type (1 byte)
//	2      0       application image descriptor (14 bytes)
//	3      0       golden image descriptor (14 bytes)
//	4      0       golden key record (11 bytes)
//	4      16      boot info (8 bytes)
//	5      0       secondary key record (11 bytes)
//	6      0       layout version (32 bytes)
//	7      0       key swap intent (7 bytes)
//
// Exactly one key slot is meant to be Active. Activating or deactivating a
// slot cascades the opposite status onto the other slot through two
// independent writes, a swap intent record written beforehand lets Open
// complete a swap interrupted by a power loss.
package bootenv
