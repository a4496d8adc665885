package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/trezcool/classdrop/core/coursework"
	"github.com/trezcool/classdrop/storage/document/jsonfile"
)

// orphans lists uploads no submission refers to (deleting an assignment leaves its files behind).
// Files are only removed with prune, after confirmation.
func (cli *commandLine) orphans(prune, yes bool) error {
	doc, err := cli.readDocument()
	if err != nil {
		return err
	}
	stored, err := cli.placer.ListStored()
	if err != nil {
		return err
	}

	referenced := make(map[string]bool, len(doc.Submissions))
	for _, sub := range doc.Submissions {
		if filepath.Dir(sub.FilePath) == cli.placer.Dir() {
			referenced[filepath.Base(sub.FilePath)] = true
		}
	}

	var orphaned []string
	for _, name := range stored {
		if !referenced[name] {
			orphaned = append(orphaned, name)
		}
	}
	for _, name := range orphaned {
		_, _ = fmt.Fprintln(cli.out, name)
	}
	_, _ = fmt.Fprintf(cli.out, "%d orphaned uploads in %s\n", len(orphaned), cli.placer.Dir())

	if !prune || len(orphaned) == 0 {
		return nil
	}
	if err = cli.confirm(fmt.Sprintf("Remove %d files?", len(orphaned)), yes); err != nil {
		return err
	}
	for _, name := range orphaned {
		if err = cli.placer.Remove(name); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintf(cli.out, "%d files removed\n", len(orphaned))
	return nil
}

// readDocument decodes the stored document without creating or resetting it.
// A missing document reads as empty; an unreadable one is errCorruptDocument.
func (cli *commandLine) readDocument() (coursework.Document, error) {
	path := cli.store.Path()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return coursework.NewDocument(), nil
		}
		return coursework.Document{}, err
	}
	doc, err := jsonfile.Decode(raw)
	if err != nil {
		_, _ = fmt.Fprintf(cli.out, "%s: %v\n", path, err)
		return coursework.Document{}, errCorruptDocument
	}
	return doc, nil
}
