// SPDX-License-Identifier: MIT

package elfobj

import (
	"encoding/binary"
	"io"
)

type sectionHeader32 struct {
	Name      uint32
	Type      uint32
	Flags     uint32
	Address   uint32
	Offset    uint32
	Size      uint32
	Link      uint32
	Info      uint32
	AddrAlign uint32
	EntrySize uint32
}

type sectionHeader64 struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Address   uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntrySize uint64
}

func sizeSectionHeader(class FileClass) int {
	if class == ELFCLASS64 {
		return binary.Size(&sectionHeader64{})
	}
	return binary.Size(&sectionHeader32{})
}

// readRawSectionHeader decodes only the header fields; Data is filled in
// by the caller once the section's on-disk name is known (needed to tell
// whether it even has file-resident data) and its offset can be resolved.
func (f *File) readRawSectionHeader(r io.Reader) (*Section, error) {
	result := &Section{}

	if f.Class == ELFCLASS64 {
		var sh sectionHeader64
		if err := binary.Read(r, f.ByteOrder(), &sh); err != nil {
			return nil, err
		}
		result.NameOffset = sh.Name
		result.Type = SectionHeaderType(sh.Type)
		result.Flags = SectionHeaderFlag(sh.Flags)
		result.Address = sh.Address
		result.Offset = sh.Offset
		result.Size = uint32(sh.Size)
		result.Link = sh.Link
		result.Info = sh.Info
		result.AddrAlign = uint32(sh.AddrAlign)
		result.EntrySize = uint32(sh.EntrySize)
	} else {
		var sh sectionHeader32
		if err := binary.Read(r, f.ByteOrder(), &sh); err != nil {
			return nil, err
		}
		result.NameOffset = sh.Name
		result.Type = SectionHeaderType(sh.Type)
		result.Flags = SectionHeaderFlag(sh.Flags)
		result.Address = uint64(sh.Address)
		result.Offset = uint64(sh.Offset)
		result.Size = sh.Size
		result.Link = sh.Link
		result.Info = sh.Info
		result.AddrAlign = sh.AddrAlign
		result.EntrySize = sh.EntrySize
	}

	return result, nil
}

func (f *File) writeSectionHeader(w io.Writer, s *Section) error {
	if f.Class == ELFCLASS64 {
		sh := sectionHeader64{
			Name:      s.NameOffset,
			Type:      uint32(s.Type),
			Flags:     uint64(s.Flags),
			Address:   s.Address,
			Offset:    s.Offset,
			Size:      uint64(s.Size),
			Link:      s.Link,
			Info:      s.Info,
			AddrAlign: uint64(s.AddrAlign),
			EntrySize: uint64(s.EntrySize),
		}
		return binary.Write(w, f.ByteOrder(), &sh)
	}
	sh := sectionHeader32{
		Name:      s.NameOffset,
		Type:      uint32(s.Type),
		Flags:     uint32(s.Flags),
		Address:   uint32(s.Address),
		Offset:    uint32(s.Offset),
		Size:      s.Size,
		Link:      s.Link,
		Info:      s.Info,
		AddrAlign: s.AddrAlign,
		EntrySize: s.EntrySize,
	}
	return binary.Write(w, f.ByteOrder(), &sh)
}
