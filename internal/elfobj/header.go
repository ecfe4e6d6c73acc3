// SPDX-License-Identifier: MIT

package elfobj

import (
	"encoding/binary"
	"fmt"
	"io"
)

type elfHeader32 struct {
	Type             uint16
	Machine          uint16
	Version          uint32
	Entry            uint32
	ProgHdrOff       uint32
	SecHdrOff        uint32
	Flags            uint32
	HeaderSize       uint16
	ProgHdrEntrySize uint16
	ProgHdrCount     uint16
	SecHdrEntrySize  uint16
	SecHdrCount      uint16
	SecHdrStrIndex   uint16
}

type elfHeader64 struct {
	Type             uint16
	Machine          uint16
	Version          uint32
	Entry            uint64
	ProgHdrOff       uint64
	SecHdrOff        uint64
	Flags            uint32
	HeaderSize       uint16
	ProgHdrEntrySize uint16
	ProgHdrCount     uint16
	SecHdrEntrySize  uint16
	SecHdrCount      uint16
	SecHdrStrIndex   uint16
}

func sizeElfHeader(class FileClass) int {
	if class == ELFCLASS64 {
		return binary.Size(&elfHeader64{}) + 16
	}
	return binary.Size(&elfHeader32{}) + 16
}

func (f *File) readHeader(r io.Reader) error {
	ident := make([]byte, 16)
	if _, err := io.ReadFull(r, ident); err != nil {
		return fmt.Errorf("read ident: %w", err)
	}

	if ident[0] != 0x7F || ident[1] != 0x45 || ident[2] != 0x4C || ident[3] != 0x46 {
		return fmt.Errorf("not an ELF file: bad magic")
	}

	f.Class = FileClass(ident[4])
	f.Endian = FileEndian(ident[5])
	f.HeaderVersion = ident[6]

	switch f.Class {
	case ELFCLASS64:
		f.ABI = FileABI(ident[7])
		f.ABIVersion = ident[8]

		var fh elfHeader64
		if err := binary.Read(r, f.ByteOrder(), &fh); err != nil {
			return fmt.Errorf("read header64: %w", err)
		}
		f.Type = FileType(fh.Type)
		f.Machine = MachineType(fh.Machine)
		f.Version = fh.Version
		f.Entry = fh.Entry
		f.progHdrOffset = fh.ProgHdrOff
		f.secHdrOffset = fh.SecHdrOff
		f.Flags = fh.Flags
		f.headerSize = fh.HeaderSize
		f.progHdrEntrySize = fh.ProgHdrEntrySize
		f.progHdrCount = fh.ProgHdrCount
		f.secHdrEntrySize = fh.SecHdrEntrySize
		f.secHdrCount = fh.SecHdrCount
		f.secHdrStrIdx = fh.SecHdrStrIndex
	case ELFCLASS32:
		f.ABI = 0
		f.ABIVersion = 0

		var fh elfHeader32
		if err := binary.Read(r, f.ByteOrder(), &fh); err != nil {
			return fmt.Errorf("read header32: %w", err)
		}
		f.Type = FileType(fh.Type)
		f.Machine = MachineType(fh.Machine)
		f.Version = fh.Version
		f.Entry = uint64(fh.Entry)
		f.progHdrOffset = uint64(fh.ProgHdrOff)
		f.secHdrOffset = uint64(fh.SecHdrOff)
		f.Flags = fh.Flags
		f.headerSize = fh.HeaderSize
		f.progHdrEntrySize = fh.ProgHdrEntrySize
		f.progHdrCount = fh.ProgHdrCount
		f.secHdrEntrySize = fh.SecHdrEntrySize
		f.secHdrCount = fh.SecHdrCount
		f.secHdrStrIdx = fh.SecHdrStrIndex
	default:
		return fmt.Errorf("invalid ELF class: %d", f.Class)
	}

	if f.secHdrStrIdx == SHN_XINDEX {
		return fmt.Errorf("SHN_XINDEX shstrtab index not supported")
	}

	return nil
}

func (f *File) writeHeader(w io.Writer) error {
	ident := make([]byte, 16)
	ident[0], ident[1], ident[2], ident[3] = 0x7F, 0x45, 0x4C, 0x46
	ident[4] = uint8(f.Class)
	ident[5] = uint8(f.Endian)
	ident[6] = uint8(f.HeaderVersion)
	ident[7] = uint8(f.ABI)
	ident[8] = uint8(f.ABIVersion)

	if _, err := w.Write(ident); err != nil {
		return err
	}

	switch f.Class {
	case ELFCLASS64:
		fh := elfHeader64{
			Type:             uint16(f.Type),
			Machine:          uint16(f.Machine),
			Version:          f.Version,
			Entry:            f.Entry,
			ProgHdrOff:       f.progHdrOffset,
			SecHdrOff:        f.secHdrOffset,
			Flags:            f.Flags,
			HeaderSize:       f.headerSize,
			ProgHdrEntrySize: f.progHdrEntrySize,
			ProgHdrCount:     f.progHdrCount,
			SecHdrEntrySize:  f.secHdrEntrySize,
			SecHdrCount:      f.secHdrCount,
			SecHdrStrIndex:   f.secHdrStrIdx,
		}
		return binary.Write(w, f.ByteOrder(), &fh)
	case ELFCLASS32:
		fh := elfHeader32{
			Type:             uint16(f.Type),
			Machine:          uint16(f.Machine),
			Version:          f.Version,
			Entry:            uint32(f.Entry),
			ProgHdrOff:       uint32(f.progHdrOffset),
			SecHdrOff:        uint32(f.secHdrOffset),
			Flags:            f.Flags,
			HeaderSize:       f.headerSize,
			ProgHdrEntrySize: f.progHdrEntrySize,
			ProgHdrCount:     f.progHdrCount,
			SecHdrEntrySize:  f.secHdrEntrySize,
			SecHdrCount:      f.secHdrCount,
			SecHdrStrIndex:   f.secHdrStrIdx,
		}
		return binary.Write(w, f.ByteOrder(), &fh)
	default:
		return fmt.Errorf("invalid ELF class: %d", f.Class)
	}
}
