// SPDX-License-Identifier: MIT

package objdiff

import "github.com/ngeorgieff/kpatch-diffobj/internal/elfobj"

// Closure is the set of entities reachable from the changed functions of a
// single object graph, computed by Walk. It is expressed as retained-set
// maps rather than fields bolted onto Section/Symbol, the way the teacher's
// section garbage collector tracks reachability externally to the graph it
// walks.
type Closure struct {
	Sections map[*elfobj.Section]bool
	Symbols  map[*elfobj.Symbol]bool
}

func newClosure() *Closure {
	return &Closure{
		Sections: make(map[*elfobj.Section]bool),
		Symbols:  make(map[*elfobj.Symbol]bool),
	}
}

// Walk computes the inclusion closure of f: every FUNC symbol with status
// CHANGED, plus every FILE symbol, plus everything each pulls in
// transitively through its section, that section's section symbol, and that
// section's relocation targets.
func Walk(f *elfobj.File) *Closure {
	c := newClosure()
	for i, sym := range f.Symbols {
		if i == 0 {
			continue
		}
		if sym.Type == elfobj.STT_FILE {
			c.mark(sym)
			continue
		}
		if sym.Type == elfobj.STT_FUNC && sym.Status == elfobj.StatusChanged {
			c.mark(sym)
		}
	}
	return c
}

func (c *Closure) mark(sym *elfobj.Symbol) {
	if c.Symbols[sym] {
		return
	}
	c.Symbols[sym] = true

	if sym.Section == nil {
		return
	}
	if sym.Type != elfobj.STT_SECTION && sym.Status == elfobj.StatusSame {
		return
	}

	sec := sym.Section
	c.Sections[sec] = true

	if secSym := sec.SectionSymbol(); secSym != nil && secSym != sym {
		c.mark(secSym)
	}

	if rela := sec.Rela(); rela != nil {
		c.Sections[rela] = true
		for _, rel := range rela.Relocations() {
			if !c.Symbols[rel.Symbol] {
				c.mark(rel.Symbol)
			}
		}
	}
}
