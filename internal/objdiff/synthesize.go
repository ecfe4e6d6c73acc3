// SPDX-License-Identifier: MIT

package objdiff

import (
	"bytes"
	"errors"

	"github.com/ngeorgieff/kpatch-diffobj/internal/elfobj"
)

const (
	shstrtabName = ".shstrtab"
	strtabName   = ".strtab"
	symtabName   = ".symtab"
)

var (
	errNoOutputSymtab = errors.New("output graph has no .symtab")
)

// Synthesize builds the output graph: the inclusion closure plus the three
// conventional metadata sections, symbols renumbered and ordered per §4.6,
// and relocations re-targeted to the fresh symbol indexes.
func Synthesize(patched *elfobj.File, closure *Closure) (*elfobj.File, error) {
	out := &elfobj.File{
		Class:         patched.Class,
		Endian:        patched.Endian,
		HeaderVersion: patched.HeaderVersion,
		ABI:           patched.ABI,
		ABIVersion:    patched.ABIVersion,
		Type:          patched.Type,
		Machine:       patched.Machine,
		Version:       patched.Version,
		Entry:         patched.Entry,
		Flags:         patched.Flags,
	}

	forceInclude(patched, closure, shstrtabName)
	forceInclude(patched, closure, strtabName)
	forceInclude(patched, closure, symtabName)

	copySections(patched, closure, out)
	copySymbols(patched, closure, out)

	if err := retargetRelocations(out); err != nil {
		return nil, err
	}

	shstrtab := out.FindSectionByName(shstrtabName)
	strtab := out.FindSectionByName(strtabName)
	symtab := out.FindSectionByName(symtabName)

	if shstrtab != nil {
		rebuildShStrTab(out, shstrtab)
		out.SetSectionHeaderStringIndex(shstrtab.Index)
	}
	if strtab != nil {
		rebuildStrTab(out, strtab)
	}
	if symtab != nil && strtab != nil && shstrtab != nil {
		if err := rebuildSymTab(out, symtab, strtab, shstrtab); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func forceInclude(f *elfobj.File, closure *Closure, name string) {
	if sec := f.FindSectionByName(name); sec != nil {
		closure.Sections[sec] = true
	}
}

// copySections copies every included section, in on-disk order, assigning
// fresh contiguous indexes starting at 1 and recording input<->output
// crosslinks. A second pass wires the base<->rela links between the output
// copies once every section has a copy to point at.
func copySections(patched *elfobj.File, closure *Closure, out *elfobj.File) {
	index := 1
	for _, sec := range patched.Sections {
		if !closure.Sections[sec] {
			continue
		}
		var cp *elfobj.Section
		if sec.IsRelocation() {
			cp = elfobj.NewRelocationSection()
		} else {
			cp = elfobj.NewContentSection()
		}
		cp.Name = sec.Name
		cp.Type = sec.Type
		cp.Flags = sec.Flags
		cp.Address = sec.Address
		cp.AddrAlign = sec.AddrAlign
		cp.EntrySize = sec.EntrySize
		cp.Data = append([]byte(nil), sec.Data...)
		cp.Index = index
		cp.Status = sec.Status

		sec.Crosslink = cp
		cp.Crosslink = sec

		out.Sections = append(out.Sections, cp)
		index++
	}

	// Second pass: base<->rela links, and relocation entries (which
	// need their output base section), need every section copy to exist.
	for _, sec := range patched.Sections {
		if sec.Crosslink == nil {
			continue
		}
		cp := sec.Crosslink
		if !sec.IsRelocation() {
			if rela := sec.Rela(); rela != nil && rela.Crosslink != nil {
				cp.SetRela(rela.Crosslink)
			}
			continue
		}

		var outBase *elfobj.Section
		if base := sec.Base(); base != nil && base.Crosslink != nil {
			outBase = base.Crosslink
			cp.SetBase(outBase)
		}
		for _, rel := range sec.Relocations() {
			cp.AddRelocation(&elfobj.Relocation{
				Base:   outBase,
				Type:   rel.Type,
				Offset: rel.Offset,
				Addend: rel.Addend,
				Symbol: rel.Symbol,
				String: rel.String,
				Status: rel.Status,
			})
		}
	}
}

// copySymbols implements the four-pass ordering of §4.6: index 0 is the
// null symbol, then FILE locals, local FUNC symbols, remaining locals, and
// finally all non-locals.
func copySymbols(patched *elfobj.File, closure *Closure, out *elfobj.File) {
	out.Symbols = append(out.Symbols, &elfobj.Symbol{Index: 0})

	// Buckets are chosen on each symbol as it will be emitted, so an entity
	// rewritten to an undefined global lands among the non-locals.
	var included, copies []*elfobj.Symbol
	for i, sym := range patched.Symbols {
		if i == 0 {
			continue
		}
		if closure.Symbols[sym] {
			included = append(included, sym)
			copies = append(copies, copySymbol(sym, closure, 0))
		}
	}

	isFileLocal := func(s *elfobj.Symbol) bool {
		return s.Binding == elfobj.STB_LOCAL && s.Type == elfobj.STT_FILE
	}
	isFuncLocal := func(s *elfobj.Symbol) bool {
		return s.Binding == elfobj.STB_LOCAL && s.Type == elfobj.STT_FUNC
	}
	isLocal := func(s *elfobj.Symbol) bool { return s.Binding == elfobj.STB_LOCAL }
	isNonLocal := func(s *elfobj.Symbol) bool { return s.Binding != elfobj.STB_LOCAL }

	index := 1
	copied := make(map[*elfobj.Symbol]bool)
	for _, pred := range []func(*elfobj.Symbol) bool{isFileLocal, isFuncLocal, isLocal, isNonLocal} {
		for j, sym := range included {
			cp := copies[j]
			if copied[sym] || !pred(cp) {
				continue
			}
			copied[sym] = true

			cp.Index = index
			sym.Crosslink = cp
			cp.Crosslink = sym
			out.Symbols = append(out.Symbols, cp)
			index++
		}
	}
}

// copySymbol builds the output copy of sym. A FUNC/OBJECT symbol whose
// section was not included becomes an undefined external reference per the
// "symbol mutation for absent sections" rule: such a reference resolves
// against the original image at link time, not against this patch object.
func copySymbol(sym *elfobj.Symbol, closure *Closure, index int) *elfobj.Symbol {
	cp := &elfobj.Symbol{
		Name:    sym.Name,
		Binding: sym.Binding,
		Other:   sym.Other,
		Index:   index,
		Status:  sym.Status,
	}

	isEntity := sym.Type == elfobj.STT_FUNC || sym.Type == elfobj.STT_OBJECT
	sectionAbsent := sym.Section == nil || !closure.Sections[sym.Section]

	if isEntity && sectionAbsent {
		cp.Type = elfobj.STT_NOTYPE
		cp.Binding = elfobj.STB_GLOBAL
		cp.SectionIndex = elfobj.SHN_UNDEF
		return cp
	}

	cp.Type = sym.Type
	cp.Value = sym.Value
	cp.Size = sym.Size
	if sym.Section != nil {
		cp.Section = sym.Section.Crosslink
		cp.SectionIndex = uint16(cp.Section.Index)
	} else {
		cp.SectionIndex = sym.SectionIndex
	}
	return cp
}

func retargetRelocations(out *elfobj.File) error {
	symtab := out.FindSectionByName(symtabName)
	if symtab == nil {
		return opErr("retarget relocations", errNoOutputSymtab)
	}

	for _, sec := range out.Sections {
		if !sec.IsRelocation() {
			continue
		}
		base := sec.Base()
		if base == nil {
			return unreconcilable("relocation section %s has no output base section", sec.Name)
		}
		sec.Link = uint32(symtab.Index)
		sec.Info = uint32(base.Index)

		var buf bytes.Buffer
		for _, rel := range sec.Relocations() {
			targetSym := rel.Symbol.Crosslink
			if targetSym == nil {
				return unreconcilable("relocation in %s targets symbol %s with no output twin", sec.Name, rel.Symbol.Name)
			}
			if err := out.WriteRelocationEntry(&buf, sec.Type, rel.Offset, targetSym.Index, rel.Type, rel.Addend); err != nil {
				return opErr("retarget relocations", err)
			}
		}
		sec.Data = buf.Bytes()
	}
	return nil
}

// rebuildShStrTab rewrites .shstrtab from the output section names and
// writes each section's resolved name offset back.
func rebuildShStrTab(out *elfobj.File, shstrtab *elfobj.Section) {
	b := elfobj.NewStringTableBuilder()
	for _, sec := range out.Sections {
		sec.NameOffset = b.Add(sec.Name)
	}
	shstrtab.Data = b.Bytes()
}

// rebuildStrTab rewrites .strtab from the output symbol table, skipping
// symbol 0 and SECTION symbols (which signal "use the enclosing section's
// name" via a zero name offset).
func rebuildStrTab(out *elfobj.File, strtab *elfobj.Section) {
	b := elfobj.NewStringTableBuilder()
	for i, sym := range out.Symbols {
		if i == 0 || sym.Type == elfobj.STT_SECTION {
			continue
		}
		sym.NameOffset = b.Add(sym.Name)
	}
	strtab.Data = b.Bytes()
}

// rebuildSymTab concatenates every output symbol's fixed-size record into
// .symtab's data buffer. Its link references .strtab; its info references
// .shstrtab, matching the original tool's (non-standard but deliberate)
// convention rather than the usual "index of first non-local symbol".
func rebuildSymTab(out *elfobj.File, symtab, strtab, shstrtab *elfobj.Section) error {
	var buf bytes.Buffer
	for _, sym := range out.Symbols {
		if err := out.WriteSymbolRecord(&buf, sym); err != nil {
			return opErr("rebuild symtab", err)
		}
	}
	symtab.Data = buf.Bytes()
	symtab.Link = uint32(strtab.Index)
	symtab.Info = uint32(shstrtab.Index)
	return nil
}
