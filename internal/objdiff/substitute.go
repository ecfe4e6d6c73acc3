// SPDX-License-Identifier: MIT

package objdiff

import "github.com/ngeorgieff/kpatch-diffobj/internal/elfobj"

// Substitute retargets every relocation whose symbol is a SECTION symbol to
// that section's entity symbol, when one exists. Compilers frequently
// reference a local function or object through its enclosing section's
// anonymous symbol; retargeting to the named symbol lets the eventual link
// resolve against the unchanged definition already present in the running
// image instead of forcing in an unwanted copy of the section.
func Substitute(f *elfobj.File) {
	for _, sec := range f.Sections {
		if !sec.IsRelocation() {
			continue
		}
		for _, rel := range sec.Relocations() {
			sym := rel.Symbol
			if sym.Type != elfobj.STT_SECTION || sym.Section == nil {
				continue
			}
			if entity := sym.Section.EntitySymbol(); entity != nil {
				rel.Symbol = entity
			}
		}
	}
}
