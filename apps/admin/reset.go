package main

import (
	"context"
	"fmt"

	"github.com/trezcool/classdrop/core/coursework"
)

func (cli *commandLine) reset(yes bool) error {
	if err := cli.confirm(fmt.Sprintf("All assignments & submissions in %s will be lost.", cli.store.Path()), yes); err != nil {
		return err
	}
	if err := cli.store.Save(context.Background(), coursework.NewDocument()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "%s: reset\n", cli.store.Path())
	return nil
}
