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
	"fmt"
)

func descriptorLocation(kind ImageKind) (location, error) {
	switch kind {
	case Application:
		return appDescriptorLoc, nil
	case Golden:
		return goldenDescriptorLoc, nil
	}
	return location{}, fmt.Errorf("unknown image kind %v", kind)
}

// Descriptor returns the stored descriptor of an image.
//
// On storage failure the zero descriptor, which reports the image as absent,
// is returned along with the error.
func (s *Store) Descriptor(kind ImageKind) (d ImageDescriptor, err error) {
	loc, err := descriptorLocation(kind)
	if err != nil {
		return
	}

	buf := make([]byte, descriptorLength)

	if err = s.read(loc, buf); err != nil {
		return ImageDescriptor{}, err
	}

	if err = decode(buf, &d); err != nil {
		return ImageDescriptor{}, err
	}

	return
}

// SetDescriptor overwrites the descriptor of an image, no validation is
// performed.
func (s *Store) SetDescriptor(kind ImageKind, d ImageDescriptor) error {
	loc, err := descriptorLocation(kind)
	if err != nil {
		return err
	}

	if err = s.write(loc, encode(d)); err != nil {
		return fmt.Errorf("could not store %v descriptor: %w", kind, err)
	}

	return nil
}
