// SPDX-License-Identifier: MIT

package objdiff

import "github.com/ngeorgieff/kpatch-diffobj/internal/elfobj"

// Correlate pairs sections, symbols and relocations across the base and
// patched graphs by name (sections, symbols) or structural equality
// (relocations), writing the Twin link on both sides and pre-seeding every
// paired entity's Status to SAME. Untwinned entities keep their zero Status
// (StatusNew) and are revised by Compare.
func Correlate(base, patched *elfobj.File) {
	correlateSections(base, patched)
	correlateSymbols(base, patched)
	correlateRelocations(base, patched)
}

func correlateSections(base, patched *elfobj.File) {
	for _, bs := range base.Sections {
		ps := patched.FindSectionByName(bs.Name)
		if ps == nil {
			continue
		}
		bs.Twin = ps
		ps.Twin = bs
		bs.Status = elfobj.StatusSame
		ps.Status = elfobj.StatusSame
	}
}

func correlateSymbols(base, patched *elfobj.File) {
	for i, bsym := range base.Symbols {
		if i == 0 {
			continue
		}
		psym := patched.FindSymbolByName(bsym.Name)
		if psym == nil {
			continue
		}
		bsym.Twin = psym
		psym.Twin = bsym
		bsym.Status = elfobj.StatusSame
		psym.Status = elfobj.StatusSame
	}
}

// correlateRelocations pairs relocations within sections that are
// themselves twinned. Two relocations pair when their type and offset
// match, and then either both carry an equal materialized string or both
// target symbols of equal name and equal addend.
func correlateRelocations(base, patched *elfobj.File) {
	for _, bs := range base.Sections {
		if !bs.IsRelocation() || bs.Twin == nil {
			continue
		}
		ps := bs.Twin
		for _, brel := range bs.Relocations() {
			for _, prel := range ps.Relocations() {
				if prel.Twin != nil {
					continue
				}
				if relocationsMatch(brel, prel) {
					brel.Twin = prel
					prel.Twin = brel
					brel.Status = elfobj.StatusSame
					prel.Status = elfobj.StatusSame
					break
				}
			}
		}
	}
}

func relocationsMatch(a, b *elfobj.Relocation) bool {
	if a.Type != b.Type || a.Offset != b.Offset {
		return false
	}
	if a.String != nil || b.String != nil {
		return a.String != nil && b.String != nil && *a.String == *b.String
	}
	return a.Symbol.Name == b.Symbol.Name && a.Addend == b.Addend
}
