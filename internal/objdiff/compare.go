// SPDX-License-Identifier: MIT

package objdiff

import (
	"bytes"

	"github.com/ngeorgieff/kpatch-diffobj/internal/elfobj"
)

// Compare runs the three classification passes described in §4.3: content
// sections, symbols, then a relocation-section refinement pass that can
// still upgrade a section classified SAME into CHANGED once symbol
// renumbering noise has been ruled out.
func Compare(base *elfobj.File) error {
	if err := compareContentSections(base); err != nil {
		return err
	}
	if err := compareSymbols(base); err != nil {
		return err
	}
	refineRelocationSections(base)
	return nil
}

func compareContentSections(base *elfobj.File) error {
	for _, bs := range base.Sections {
		if bs.IsRelocation() {
			continue
		}
		if bs.Twin == nil {
			bs.Status = elfobj.StatusNew
			continue
		}
		ps := bs.Twin
		if bs.Type != ps.Type || bs.Flags != ps.Flags || bs.Address != ps.Address ||
			bs.AddrAlign != ps.AddrAlign || bs.EntrySize != ps.EntrySize {
			return unreconcilable("section %s header fields diverge from patched twin", bs.Name)
		}

		changed := bs.Size != ps.Size
		if !changed && bs.Type.HasDataInFile() {
			changed = !bytes.Equal(bs.Data, ps.Data)
		}
		if changed {
			bs.Status = elfobj.StatusChanged
			ps.Status = elfobj.StatusChanged
		} else {
			bs.Status = elfobj.StatusSame
			ps.Status = elfobj.StatusSame
		}

		propagateSectionStatus(bs)
		propagateSectionStatus(ps)
	}
	return nil
}

func propagateSectionStatus(s *elfobj.Section) {
	if s.EntitySymbol() != nil {
		s.EntitySymbol().Status = s.Status
	}
	if s.SectionSymbol() != nil {
		s.SectionSymbol().Status = s.Status
	}
	if s.Rela() != nil {
		s.Rela().Status = s.Status
	}
}

func compareSymbols(base *elfobj.File) error {
	for i, bsym := range base.Symbols {
		if i == 0 {
			continue
		}
		if bsym.Twin == nil {
			bsym.Status = elfobj.StatusNew
			continue
		}
		psym := bsym.Twin

		if bsym.Type != psym.Type || bsym.Binding != psym.Binding || bsym.Other != psym.Other {
			return unreconcilable("symbol %s info/other diverges from patched twin", bsym.Name)
		}
		boundBoth := bsym.Section != nil && psym.Section != nil
		boundNeither := bsym.Section == nil && psym.Section == nil
		if !boundBoth && !boundNeither {
			return unreconcilable("symbol %s section-binding consistency diverges from patched twin", bsym.Name)
		}
		if boundBoth && bsym.Section.Twin != psym.Section {
			return unreconcilable("symbol %s bound to sections that are not twins", bsym.Name)
		}
		if bsym.Type == elfobj.STT_OBJECT && bsym.Size != psym.Size {
			return unreconcilable("object symbol %s size diverges from patched twin", bsym.Name)
		}

		if bsym.Section == nil {
			// Undefined/absolute symbols have no section: their semantic
			// identity is external, so a twinned one is always SAME.
			bsym.Status = elfobj.StatusSame
		}
		// Otherwise keep the status already set: SAME pre-seeded by
		// Correlate, or the status propagated from the symbol's section.
	}
	return nil
}

func refineRelocationSections(base *elfobj.File) {
	for _, bs := range base.Sections {
		if !bs.IsRelocation() || bs.Status != elfobj.StatusSame {
			continue
		}
		unpaired := false
		for _, rel := range bs.Relocations() {
			if rel.Twin == nil {
				unpaired = true
				break
			}
		}
		if !unpaired {
			continue
		}
		bs.Status = elfobj.StatusChanged
		if bs.Twin != nil {
			bs.Twin.Status = elfobj.StatusChanged
		}
		if baseSec := bs.Base(); baseSec != nil {
			baseSec.Status = elfobj.StatusChanged
			if baseSec.Twin != nil {
				baseSec.Twin.Status = elfobj.StatusChanged
			}
			if baseSec.EntitySymbol() != nil {
				baseSec.EntitySymbol().Status = elfobj.StatusChanged
			}
			if baseSec.SectionSymbol() != nil {
				baseSec.SectionSymbol().Status = elfobj.StatusChanged
			}
		}
	}
}
