// SPDX-License-Identifier: MIT

package elfobj

import "io"

// The accessors below expose header geometry fields that stay unexported on
// File because nothing outside this package should ever set them directly —
// Load and Save own their lifecycle — but §4.8 input validation needs to
// read them off both inputs before diffing begins.

func (f *File) ProgramHeaderOffset() uint64    { return f.progHdrOffset }
func (f *File) HeaderSize() uint16             { return f.headerSize }
func (f *File) ProgramHeaderEntrySize() uint16 { return f.progHdrEntrySize }
func (f *File) SectionHeaderEntrySize() uint16 { return f.secHdrEntrySize }

// SetSectionHeaderStringIndex records which output section is .shstrtab, so
// the header written by Save references it.
func (f *File) SetSectionHeaderStringIndex(idx int) { f.secHdrStrIdx = uint16(idx) }

// WriteRelocationEntry encodes one relocation record, exposed for callers
// outside this package that rebuild a relocation section's data buffer.
func (f *File) WriteRelocationEntry(w io.Writer, t SectionHeaderType, offset uint64, symIndex int, relType uint32, addend int64) error {
	return f.writeRelocation(w, t, offset, symIndex, relType, addend)
}

// WriteSymbolRecord encodes one symbol-table entry, exposed for callers
// outside this package that rebuild .symtab's data buffer.
func (f *File) WriteSymbolRecord(w io.Writer, sym *Symbol) error {
	return f.writeSymbol(w, sym)
}
