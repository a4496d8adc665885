package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/classdrop/storage/document/jsonfile"
)

var (
	errCorruptDocument = errors.New("document is unreadable")
	errNotCanonical    = errors.New("document is not in canonical form")
)

// check reports how the stored document differs from what the next save would write.
// It never resets a corrupt document.
func (cli *commandLine) check(write bool) error {
	path := cli.store.Path()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			_, _ = fmt.Fprintf(cli.out, "no document at %s: it is created on first use\n", path)
			return nil
		}
		return err
	}

	doc, err := jsonfile.Decode(raw)
	if err != nil {
		_, _ = fmt.Fprintf(cli.out, "%s: %v\nit will be reset to an empty document on next load\n", path, err)
		return errCorruptDocument
	}
	canonical, err := jsonfile.Encode(doc)
	if err != nil {
		return err
	}
	if bytes.Equal(raw, canonical) {
		_, _ = fmt.Fprintf(cli.out, "%s: ok (%d assignments, %d submissions)\n", path, len(doc.Assignments), len(doc.Submissions))
		return nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(raw)),
		B:        difflib.SplitLines(string(canonical)),
		FromFile: path,
		ToFile:   "canonical",
		Context:  3,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(cli.out, diff)

	if !write {
		return errNotCanonical
	}
	if err = cli.store.Save(context.Background(), doc); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "%s: rewritten\n", path)
	return nil
}
