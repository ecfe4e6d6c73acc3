// SPDX-License-Identifier: MIT

package objdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ngeorgieff/kpatch-diffobj/internal/elfobj"
)

func TestCopySymbolsOrdering(t *testing.T) {
	sec1 := namedContentSection(".text.foo")
	sec2 := namedContentSection(".text.extern")
	// Synthesize always runs copySections before copySymbols; simulate that
	// an output copy of sec1 already exists with its crosslink set.
	sec1.Crosslink = &elfobj.Section{Index: 5}

	fileSym := &elfobj.Symbol{Name: "foo.c", Type: elfobj.STT_FILE, Binding: elfobj.STB_LOCAL}
	localFunc := &elfobj.Symbol{Name: "foo", Type: elfobj.STT_FUNC, Binding: elfobj.STB_LOCAL, Section: sec1}
	localOther := &elfobj.Symbol{Name: "x", Type: elfobj.STT_OBJECT, Binding: elfobj.STB_LOCAL, Section: sec1}
	globalFunc := &elfobj.Symbol{Name: "extfn", Type: elfobj.STT_FUNC, Binding: elfobj.STB_GLOBAL, Section: sec2}

	// Scrambled input order deliberately differs from the expected output
	// bucket order, so the test actually exercises the reordering.
	patched := &elfobj.File{Symbols: []*elfobj.Symbol{{}, globalFunc, localOther, fileSym, localFunc}}

	closure := newClosure()
	for _, s := range []*elfobj.Symbol{fileSym, localFunc, localOther, globalFunc} {
		closure.Symbols[s] = true
	}
	closure.Sections[sec1] = true // sec2 is deliberately NOT included

	out := &elfobj.File{}
	copySymbols(patched, closure, out)

	assert.Len(t, out.Symbols, 5, "null symbol plus four included symbols")
	assert.Equal(t, "", out.Symbols[0].Name, "index 0 is the null symbol")
	assert.Same(t, fileSym, out.Symbols[1].Crosslink, "FILE locals come first")
	assert.Same(t, localFunc, out.Symbols[2].Crosslink, "local FUNC symbols come second")
	assert.Same(t, localOther, out.Symbols[3].Crosslink, "remaining locals come third")
	assert.Same(t, globalFunc, out.Symbols[4].Crosslink, "non-locals come last")

	assert.Equal(t, elfobj.STT_NOTYPE, out.Symbols[4].Type, "entity symbol with an unincluded section becomes NOTYPE")
	assert.Equal(t, elfobj.STB_GLOBAL, out.Symbols[4].Binding)
	assert.Equal(t, uint16(elfobj.SHN_UNDEF), out.Symbols[4].SectionIndex)

	assert.Same(t, sec1, localFunc.Section, "copySymbol must not mutate the input symbol's own section")
}

func TestRetargetRelocationsRewritesSymbolIndexes(t *testing.T) {
	outSymtab := namedContentSection(".symtab")
	outSymtab.Index = 9

	outBase := namedContentSection(".text.foo")
	outBase.Index = 1
	targetSym := &elfobj.Symbol{Name: "bar", Index: 3}

	outRela := namedRelocationSection(".rela.text.foo")
	outRela.Type = elfobj.SHT_RELA
	outRela.Index = 2
	outRela.SetBase(outBase)
	inputTarget := &elfobj.Symbol{Name: "bar"}
	inputTarget.Crosslink = targetSym
	outRela.AddRelocation(&elfobj.Relocation{Offset: 16, Type: 5, Addend: 4, Symbol: inputTarget})

	out := &elfobj.File{Class: elfobj.ELFCLASS64, Endian: elfobj.ELFDATA2LSB, Sections: []*elfobj.Section{outSymtab, outBase, outRela}}

	err := retargetRelocations(out)
	assert.NoError(t, err)
	assert.Equal(t, uint32(9), outRela.Link, "relocation section link references the output .symtab")
	assert.Equal(t, uint32(1), outRela.Info, "relocation section info references its output base section")
	assert.NotEmpty(t, outRela.Data, "relocation entries are re-packed into a fresh buffer")
}

func TestRetargetRelocationsFailsOnMissingCrosslink(t *testing.T) {
	outSymtab := namedContentSection(".symtab")
	outBase := namedContentSection(".text.foo")
	outRela := namedRelocationSection(".rela.text.foo")
	outRela.SetBase(outBase)
	outRela.AddRelocation(&elfobj.Relocation{Symbol: &elfobj.Symbol{Name: "bar"}}) // no Crosslink set

	out := &elfobj.File{Class: elfobj.ELFCLASS64, Endian: elfobj.ELFDATA2LSB, Sections: []*elfobj.Section{outSymtab, outBase, outRela}}

	err := retargetRelocations(out)
	assert.Error(t, err)
	var unrec *UnreconcilableError
	assert.ErrorAs(t, err, &unrec)
}

func TestRebuildStrTabSkipsSectionSymbols(t *testing.T) {
	secSym := &elfobj.Symbol{Name: "baz", Type: elfobj.STT_SECTION}
	funcSym := &elfobj.Symbol{Name: "baz", Type: elfobj.STT_FUNC}
	out := &elfobj.File{Symbols: []*elfobj.Symbol{{}, secSym, funcSym}}
	strtab := namedContentSection(".strtab")

	rebuildStrTab(out, strtab)

	assert.Equal(t, uint32(0), secSym.NameOffset, "SECTION symbols always carry name offset 0")
	assert.NotEqual(t, uint32(0), funcSym.NameOffset)
}

func TestRebuildShStrTabWritesBackOffsets(t *testing.T) {
	a := namedContentSection(".text.a")
	b := namedContentSection(".text.b")
	out := &elfobj.File{Sections: []*elfobj.Section{a, b}}
	shstrtab := namedContentSection(".shstrtab")

	rebuildShStrTab(out, shstrtab)

	assert.NotEqual(t, a.NameOffset, b.NameOffset)
	assert.NotEmpty(t, shstrtab.Data)
}
