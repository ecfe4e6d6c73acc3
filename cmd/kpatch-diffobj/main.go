// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/ngeorgieff/kpatch-diffobj/internal/elfobj"
	"github.com/ngeorgieff/kpatch-diffobj/internal/inventory"
	"github.com/ngeorgieff/kpatch-diffobj/internal/logging"
	"github.com/ngeorgieff/kpatch-diffobj/internal/objdiff"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("kpatch-diffobj", flag.ContinueOnError)
	debug := fs.Bool("debug", false, "raise log verbosity")
	fs.BoolVar(debug, "d", false, "raise log verbosity (shorthand)")
	inv := fs.Bool("inventory", false, "write <output>.inventory alongside the output object")
	fs.BoolVar(inv, "i", false, "write <output>.inventory alongside the output object (shorthand)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: kpatch-diffobj [-d] [-i] original.o patched.o output.o")
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return 1
	}

	level := logging.Normal
	if *debug {
		level = logging.Debug
	}
	log := logging.New(level)

	origPath, patchedPath, outPath := fs.Arg(0), fs.Arg(1), fs.Arg(2)
	if err := diff(log, origPath, patchedPath, outPath, *inv); err != nil {
		var unrec *objdiff.UnreconcilableError
		if errors.As(err, &unrec) {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func diff(log *logging.Logger, origPath, patchedPath, outPath string, writeInventory bool) error {
	base, err := elfobj.Load(origPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", origPath, err)
	}
	patched, err := elfobj.Load(patchedPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", patchedPath, err)
	}

	if err := objdiff.Validate(base, patched); err != nil {
		return err
	}

	objdiff.Correlate(base, patched)
	if err := objdiff.Compare(base); err != nil {
		return err
	}
	objdiff.Substitute(patched)

	closure := objdiff.Walk(patched)
	reportChanges(log, patched, closure)

	out, err := objdiff.Synthesize(patched, closure)
	if err != nil {
		return err
	}

	if writeInventory {
		invFile, err := os.Create(outPath + ".inventory")
		if err != nil {
			return fmt.Errorf("create inventory file: %w", err)
		}
		defer invFile.Close()
		if err := inventory.Write(invFile, out); err != nil {
			return fmt.Errorf("write inventory file: %w", err)
		}
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer outFile.Close()
	if err := out.Save(outFile); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	return nil
}

func reportChanges(log *logging.Logger, patched *elfobj.File, closure *objdiff.Closure) {
	found := false
	for i, sym := range patched.Symbols {
		if i == 0 {
			continue
		}
		if sym.Type == elfobj.STT_FUNC && sym.Status == elfobj.StatusChanged {
			log.Normalf("function %s has changed", sym.Name)
			found = true
		}
	}
	if !found {
		log.Normalf("no changes found")
	}
	for sec := range closure.Sections {
		log.Debugf("including section %s", sec.Name)
	}
}
