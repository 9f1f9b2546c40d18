// Copyright 2022 The Armored Witness OS authors. All Rights Reserved.
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
	"encoding/binary"
	"errors"
)

// Bundle concatenates a signed manifest and its image, prefixed by the
// big-endian manifest length.
func Bundle(signed []byte, image []byte) []byte {
	buf := make([]byte, 4, 4+len(signed)+len(image))
	binary.BigEndian.PutUint32(buf, uint32(len(signed)))

	buf = append(buf, signed...)
	return append(buf, image...)
}

// Extract splits a bundle into its signed manifest and image.
func Extract(buf []byte) (signed []byte, image []byte, err error) {
	if len(buf) < 4 {
		err = errors.New("invalid length")
		return
	}

	length := uint64(binary.BigEndian.Uint32(buf[0:4]))

	if length > uint64(len(buf)-4) {
		err = errors.New("manifest exceeds bundle")
		return
	}

	signed = buf[4 : 4+length]
	image = buf[4+length:]

	return
}
