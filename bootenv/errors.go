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
	"fmt"
)

var (
	// ErrStorageTimeout is returned by Open when the device never becomes
	// ready.
	ErrStorageTimeout = errors.New("storage timeout")
	// ErrRecordAbsent reports a record without the Exists sentinel, which
	// is expected before the first write.
	ErrRecordAbsent = errors.New("record absent")
	// ErrLayoutTooNew is returned by Open when the storage was written with
	// a newer record layout.
	ErrLayoutTooNew = errors.New("storage layout newer than supported")
)

// ChecksumError reports a computed CRC16 which does not match the stored one.
type ChecksumError struct {
	Record string
	Want   uint16
	Got    uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%s checksum mismatch: stored 0x%04X, computed 0x%04X", e.Record, e.Want, e.Got)
}
