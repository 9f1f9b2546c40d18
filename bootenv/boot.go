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

// BootType returns the stored boot path marker, zero on error.
func (s *Store) BootType() (BootType, error) {
	buf := make([]byte, bootTypeLength)

	if err := s.read(bootTypeLoc, buf); err != nil {
		return 0, err
	}

	return BootType(buf[0]), nil
}

// SetBootType stores the boot path marker.
func (s *Store) SetBootType(t BootType) error {
	return s.write(bootTypeLoc, []byte{byte(t)})
}

// BootInfo returns the stored boot attempt counters, zero on error.
func (s *Store) BootInfo() (info BootInfo, err error) {
	buf := make([]byte, bootInfoLength)

	if err = s.read(bootInfoLoc, buf); err != nil {
		return
	}

	if err = decode(buf, &info); err != nil {
		return BootInfo{}, err
	}

	return
}

// SetBootInfo stores the boot attempt counters.
func (s *Store) SetBootInfo(info BootInfo) error {
	return s.write(bootInfoLoc, encode(info))
}
