// SPDX-License-Identifier: MIT

// Package inventory writes the optional human-readable dump of an object
// graph's sections and symbols, requested on the command line with
// -i/-inventory.
package inventory

import (
	"fmt"
	"io"

	"github.com/ngeorgieff/kpatch-diffobj/internal/elfobj"
)

// Write emits one "section <name>" line per section and one
// "symbol <name> <type> <bind>" line per symbol (skipping index 0), with
// type and bind printed as their raw numeric codes.
func Write(w io.Writer, f *elfobj.File) error {
	for _, sec := range f.Sections {
		if _, err := fmt.Fprintf(w, "section %s\n", sec.Name); err != nil {
			return err
		}
	}
	for i, sym := range f.Symbols {
		if i == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "symbol %s %d %d\n", sym.Name, sym.Type, sym.Binding); err != nil {
			return err
		}
	}
	return nil
}
