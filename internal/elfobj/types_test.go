// SPDX-License-Identifier: MIT

package elfobj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "NEW", StatusNew.String())
	assert.Equal(t, "CHANGED", StatusChanged.String())
	assert.Equal(t, "SAME", StatusSame.String())
}

func TestContentSectionAccessors(t *testing.T) {
	sec := NewContentSection()
	sec.Name = ".text.foo"
	assert.Equal(t, KindContent, sec.Kind())
	assert.False(t, sec.IsRelocation())

	sym := &Symbol{Name: "foo", Type: STT_FUNC}
	sec.SetEntitySymbol(sym)
	assert.Same(t, sym, sec.EntitySymbol())

	assert.Panics(t, func() { sec.Base() }, "content section has no Base")
	assert.Panics(t, func() { sec.Relocations() }, "content section has no Relocations")
}

func TestRelocationSectionAccessors(t *testing.T) {
	content := NewContentSection()
	content.Name = ".text.foo"

	rela := NewRelocationSection()
	rela.Name = ".rela.text.foo"
	rela.SetBase(content)
	content.SetRela(rela)

	assert.Same(t, content, rela.Base())
	assert.Same(t, rela, content.Rela())

	rel := &Relocation{Offset: 8}
	rela.AddRelocation(rel)
	assert.Len(t, rela.Relocations(), 1)

	assert.Panics(t, func() { rela.SectionSymbol() }, "relocation section has no section symbol")
	assert.Panics(t, func() { rela.EntitySymbol() }, "relocation section has no entity symbol")
}

func TestFindSymbolByNameSkipsIndexZero(t *testing.T) {
	f := &File{
		Symbols: []*Symbol{
			{Name: ""},
			{Name: "foo"},
			{Name: "bar"},
		},
	}
	assert.Nil(t, f.FindSymbolByName(""), "index 0 must never be returned")
	assert.Same(t, f.Symbols[1], f.FindSymbolByName("foo"))
	assert.Nil(t, f.FindSymbolByName("missing"))
}
