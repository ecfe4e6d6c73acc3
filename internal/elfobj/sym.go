// SPDX-License-Identifier: MIT

package elfobj

import (
	"encoding/binary"
	"io"
)

type symbol32 struct {
	Name         uint32
	Value        uint32
	Size         uint32
	Info         uint8
	Other        uint8
	SectionIndex uint16
}

type symbol64 struct {
	Name         uint32
	Info         uint8
	Other        uint8
	SectionIndex uint16
	Value        uint64
	Size         uint64
}

func sizeSymbol(class FileClass) int {
	if class == ELFCLASS64 {
		return binary.Size(&symbol64{})
	}
	return binary.Size(&symbol32{})
}

// readRawSymbol decodes a symbol-table entry's fixed fields. Name
// resolution against .strtab and Section binding happen in the loader
// once the rest of the graph exists.
func (f *File) readRawSymbol(r io.Reader) (*Symbol, error) {
	result := &Symbol{}

	if f.Class == ELFCLASS64 {
		var sy symbol64
		if err := binary.Read(r, f.ByteOrder(), &sy); err != nil {
			return nil, err
		}
		result.NameOffset = sy.Name
		result.Type = SymbolType(sy.Info & 0xF)
		result.Binding = SymbolBinding(sy.Info >> 4)
		result.Other = sy.Other
		result.SectionIndex = sy.SectionIndex
		result.Value = sy.Value
		result.Size = sy.Size
	} else {
		var sy symbol32
		if err := binary.Read(r, f.ByteOrder(), &sy); err != nil {
			return nil, err
		}
		result.NameOffset = sy.Name
		result.Type = SymbolType(sy.Info & 0xF)
		result.Binding = SymbolBinding(sy.Info >> 4)
		result.Other = sy.Other
		result.SectionIndex = sy.SectionIndex
		result.Value = uint64(sy.Value)
		result.Size = uint64(sy.Size)
	}

	return result, nil
}

// writeSymbol encodes sym using sym.SectionIndex as the raw st_shndx; the
// caller (the output synthesizer) is responsible for setting it to the
// section's freshly assigned output index, or to a reserved value, before
// calling this.
func (f *File) writeSymbol(w io.Writer, sym *Symbol) error {
	info := uint8(sym.Type) | (uint8(sym.Binding) << 4)

	if f.Class == ELFCLASS64 {
		sy := symbol64{
			Name:         sym.NameOffset,
			Info:         info,
			Other:        sym.Other,
			SectionIndex: sym.SectionIndex,
			Value:        sym.Value,
			Size:         sym.Size,
		}
		return binary.Write(w, f.ByteOrder(), &sy)
	}
	sy := symbol32{
		Name:         sym.NameOffset,
		Value:        uint32(sym.Value),
		Size:         uint32(sym.Size),
		Info:         info,
		Other:        sym.Other,
		SectionIndex: sym.SectionIndex,
	}
	return binary.Write(w, f.ByteOrder(), &sy)
}
