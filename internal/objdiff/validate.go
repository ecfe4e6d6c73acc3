// SPDX-License-Identifier: MIT

package objdiff

import "github.com/ngeorgieff/kpatch-diffobj/internal/elfobj"

// Validate compares the two input files' headers before any correlation is
// attempted. Any divergence is unreconcilable: these two objects were not
// compiled with a compatible toolchain/target, and diffing them further is
// meaningless.
func Validate(base, patched *elfobj.File) error {
	if base.Class != patched.Class {
		return unreconcilable("ELF class differs: %d vs %d", base.Class, patched.Class)
	}
	if base.Endian != patched.Endian {
		return unreconcilable("ELF data encoding differs: %d vs %d", base.Endian, patched.Endian)
	}
	if base.ABI != patched.ABI || base.ABIVersion != patched.ABIVersion {
		return unreconcilable("ELF ABI identification differs")
	}
	if base.Type != patched.Type {
		return unreconcilable("ELF type differs: %d vs %d", base.Type, patched.Type)
	}
	if base.Machine != patched.Machine {
		return unreconcilable("ELF machine differs: %d vs %d", base.Machine, patched.Machine)
	}
	if base.Version != patched.Version {
		return unreconcilable("ELF version differs: %d vs %d", base.Version, patched.Version)
	}
	if base.Entry != patched.Entry {
		return unreconcilable("ELF entry point differs: %#x vs %#x", base.Entry, patched.Entry)
	}
	if base.Flags != patched.Flags {
		return unreconcilable("ELF flags differ: %#x vs %#x", base.Flags, patched.Flags)
	}
	if base.ProgramHeaderOffset() != patched.ProgramHeaderOffset() {
		return unreconcilable("program header offset differs")
	}
	if base.HeaderSize() != patched.HeaderSize() {
		return unreconcilable("ELF header size differs")
	}
	if base.ProgramHeaderEntrySize() != patched.ProgramHeaderEntrySize() {
		return unreconcilable("program header entry size differs")
	}
	if base.SectionHeaderEntrySize() != patched.SectionHeaderEntrySize() {
		return unreconcilable("section header entry size differs")
	}
	if base.ProgramHeaderCount() != 0 || patched.ProgramHeaderCount() != 0 {
		return unreconcilable("relocatable object carries program headers")
	}
	return nil
}
