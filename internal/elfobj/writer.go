// SPDX-License-Identifier: MIT

package elfobj

import (
	"fmt"
	"io"
)

// Save lays out and writes the file: header, section header table
// (including the reserved null entry at index 0), then section data, in
// that order. The caller is expected to have already built f.Sections
// with final Index values and NameOffset/Link/Info already resolved; Save
// computes file offsets, sets each section's Size (the length of its Data
// for a section with data in the file, 0 otherwise), and serializes.
//
// Output objects produced by this tool never carry program headers.
func (f *File) Save(w io.Writer) error {
	headerSize := sizeElfHeader(f.Class)
	secHdrSize := sizeSectionHeader(f.Class)

	if len(f.Sections) > 0xFF00-1 {
		return fmt.Errorf("too many sections: %d", len(f.Sections))
	}

	f.headerSize = uint16(headerSize)
	f.progHdrOffset = 0
	f.progHdrEntrySize = 0
	f.progHdrCount = 0
	f.secHdrEntrySize = uint16(secHdrSize)
	f.secHdrCount = uint16(len(f.Sections) + 1) // +1 for the null entry
	f.secHdrOffset = uint64(headerSize)

	offset := f.secHdrOffset + uint64(f.secHdrCount)*uint64(secHdrSize)
	for _, s := range f.Sections {
		if s.Type.HasDataInFile() {
			s.Size = uint32(len(s.Data))
			s.Offset = offset
			offset += uint64(s.Size)
		} else {
			s.Size = 0
			s.Offset = 0
		}
	}

	if err := f.writeHeader(w); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if err := f.writeSectionHeader(w, &Section{}); err != nil {
		return fmt.Errorf("write null section header: %w", err)
	}
	for _, s := range f.Sections {
		if err := f.writeSectionHeader(w, s); err != nil {
			return fmt.Errorf("write section header %s: %w", s.Name, err)
		}
	}

	for _, s := range f.Sections {
		if !s.Type.HasDataInFile() {
			continue
		}
		if _, err := w.Write(s.Data); err != nil {
			return fmt.Errorf("write section data %s: %w", s.Name, err)
		}
	}

	return nil
}
