// SPDX-License-Identifier: MIT

package objdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ngeorgieff/kpatch-diffobj/internal/elfobj"
)

func TestCorrelateSectionsPairsByName(t *testing.T) {
	base := &elfobj.File{Sections: []*elfobj.Section{namedContentSection(".text.foo")}}
	patched := &elfobj.File{Sections: []*elfobj.Section{namedContentSection(".text.foo"), namedContentSection(".text.bar")}}

	Correlate(base, patched)

	bs := base.Sections[0]
	ps := patched.Sections[0]
	assert.Same(t, ps, bs.Twin, "base foo twins with patched foo")
	assert.Same(t, bs, ps.Twin)
	assert.Equal(t, elfobj.StatusSame, bs.Status)

	assert.Nil(t, patched.Sections[1].Twin, "bar has no base counterpart")
}

func TestCorrelateSymbolsSkipsIndexZero(t *testing.T) {
	base := &elfobj.File{Symbols: []*elfobj.Symbol{{Name: ""}, {Name: "foo"}}}
	patched := &elfobj.File{Symbols: []*elfobj.Symbol{{Name: ""}, {Name: "foo"}}}

	Correlate(base, patched)

	assert.Nil(t, base.Symbols[0].Twin, "symbol 0 is never correlated")
	assert.Same(t, patched.Symbols[1], base.Symbols[1].Twin)
}

func TestCorrelateRelocationsStructural(t *testing.T) {
	bsym := &elfobj.Symbol{Name: "foo"}
	psym := &elfobj.Symbol{Name: "foo"}

	brel := &elfobj.Relocation{Type: 1, Offset: 8, Addend: 0, Symbol: bsym}
	prel := &elfobj.Relocation{Type: 1, Offset: 8, Addend: 0, Symbol: psym}

	bs := namedRelocationSection(".rela.text.foo")
	bs.AddRelocation(brel)
	ps := namedRelocationSection(".rela.text.foo")
	ps.AddRelocation(prel)
	bs.Twin = ps
	ps.Twin = bs

	base := &elfobj.File{Sections: []*elfobj.Section{bs}}
	patched := &elfobj.File{Sections: []*elfobj.Section{ps}}

	correlateRelocations(base, patched)

	assert.Same(t, prel, brel.Twin, "relocations pair by type+offset+target name+addend")
	assert.Equal(t, elfobj.StatusSame, brel.Status)
}

func TestCorrelateRelocationsStringMatch(t *testing.T) {
	baseStr := "hello"
	patchedStr := "hello"
	brel := &elfobj.Relocation{Type: 1, Offset: 4, Symbol: &elfobj.Symbol{Name: "a"}, String: &baseStr}
	prel := &elfobj.Relocation{Type: 1, Offset: 4, Symbol: &elfobj.Symbol{Name: "b"}, String: &patchedStr}

	assert.True(t, relocationsMatch(brel, prel), "equal materialized strings match regardless of symbol name")
}

func namedContentSection(name string) *elfobj.Section {
	s := elfobj.NewContentSection()
	s.Name = name
	return s
}

func namedRelocationSection(name string) *elfobj.Section {
	s := elfobj.NewRelocationSection()
	s.Name = name
	return s
}
