// SPDX-License-Identifier: MIT

package elfobj

import "encoding/binary"

// ByteOrder returns the binary.ByteOrder matching the file's EI_DATA byte.
func (f *File) ByteOrder() binary.ByteOrder {
	if f.Endian == ELFDATA2MSB {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
