// SPDX-License-Identifier: MIT

package elfobj

import (
	"encoding/binary"
	"fmt"
	"io"
)

type rel32 struct {
	Offset uint32
	Info   uint32
}

type rel64 struct {
	Offset uint64
	Info   uint64
}

type rela32 struct {
	Offset uint32
	Info   uint32
	Addend int32
}

type rela64 struct {
	Offset uint64
	Info   uint64
	Addend int64
}

func sizeRelocation(class FileClass, t SectionHeaderType) int {
	if class == ELFCLASS64 {
		if t == SHT_RELA {
			return binary.Size(&rela64{})
		}
		return binary.Size(&rel64{})
	}
	if t == SHT_RELA {
		return binary.Size(&rela32{})
	}
	return binary.Size(&rel32{})
}

// readRawRelocation decodes one relocation entry, returning its symbol
// table index, type, offset and addend (zero for SHT_REL).
func (f *File) readRawRelocation(r io.Reader, t SectionHeaderType) (offset uint64, symIndex int, relType uint32, addend int64, err error) {
	switch {
	case f.Class == ELFCLASS64 && t == SHT_RELA:
		var rel rela64
		if err = binary.Read(r, f.ByteOrder(), &rel); err != nil {
			return
		}
		offset = rel.Offset
		symIndex = int(rel.Info >> 32)
		relType = uint32(rel.Info)
		addend = rel.Addend
	case f.Class == ELFCLASS64 && t == SHT_REL:
		var rel rel64
		if err = binary.Read(r, f.ByteOrder(), &rel); err != nil {
			return
		}
		offset = rel.Offset
		symIndex = int(rel.Info >> 32)
		relType = uint32(rel.Info)
	case f.Class == ELFCLASS32 && t == SHT_RELA:
		var rel rela32
		if err = binary.Read(r, f.ByteOrder(), &rel); err != nil {
			return
		}
		offset = uint64(rel.Offset)
		symIndex = int(rel.Info >> 8)
		relType = rel.Info & 0xFF
		addend = int64(rel.Addend)
	case f.Class == ELFCLASS32 && t == SHT_REL:
		var rel rel32
		if err = binary.Read(r, f.ByteOrder(), &rel); err != nil {
			return
		}
		offset = uint64(rel.Offset)
		symIndex = int(rel.Info >> 8)
		relType = rel.Info & 0xFF
	default:
		err = fmt.Errorf("unknown relocation section type: %d", t)
	}
	return
}

func (f *File) writeRelocation(w io.Writer, t SectionHeaderType, offset uint64, symIndex int, relType uint32, addend int64) error {
	switch {
	case f.Class == ELFCLASS64 && t == SHT_RELA:
		rel := rela64{Offset: offset, Info: (uint64(symIndex) << 32) | uint64(relType), Addend: addend}
		return binary.Write(w, f.ByteOrder(), &rel)
	case f.Class == ELFCLASS64:
		rel := rel64{Offset: offset, Info: (uint64(symIndex) << 32) | uint64(relType)}
		return binary.Write(w, f.ByteOrder(), &rel)
	case t == SHT_RELA:
		rel := rela32{Offset: uint32(offset), Info: (uint32(symIndex) << 8) | relType, Addend: int32(addend)}
		return binary.Write(w, f.ByteOrder(), &rel)
	default:
		rel := rel32{Offset: uint32(offset), Info: (uint32(symIndex) << 8) | relType}
		return binary.Write(w, f.ByteOrder(), &rel)
	}
}
