package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/trezcool/classdrop/storage/document/jsonfile"
	"github.com/trezcool/classdrop/storage/upload/disk"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp              = errors.New("help provided")
	errAborted           = errors.New("aborted")
	errNeedsConfirmation = errors.New("not a terminal: pass -yes to confirm")
)

type commandLine struct {
	store  *jsonfile.Store
	placer *disk.Placer
	in     io.Reader
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  check [-write]          - compare the document with its canonical form")
	_, _ = fmt.Fprintln(cli.out, "  stats                   - count assignments & submissions")
	_, _ = fmt.Fprintln(cli.out, "  orphans [-prune] [-yes] - list (or remove) uploads no submission refers to")
	_, _ = fmt.Fprintln(cli.out, "  reset [-yes]            - overwrite the document with an empty one")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	checkCmd := flag.NewFlagSet("check", flag.ContinueOnError)
	checkWrite := checkCmd.Bool("write", false, "Rewrite the document in its canonical form.")

	statsCmd := flag.NewFlagSet("stats", flag.ContinueOnError)

	orphansCmd := flag.NewFlagSet("orphans", flag.ContinueOnError)
	orphansPrune := orphansCmd.Bool("prune", false, "Remove the orphaned uploads.")
	orphansYes := orphansCmd.Bool("yes", false, "Do not ask for confirmation.")

	resetCmd := flag.NewFlagSet("reset", flag.ContinueOnError)
	resetYes := resetCmd.Bool("yes", false, "Do not ask for confirmation.")

	for _, fs := range []*flag.FlagSet{checkCmd, statsCmd, orphansCmd, resetCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "check":
		if err := checkCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.check(*checkWrite)
	case "stats":
		if err := statsCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.stats()
	case "orphans":
		if err := orphansCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.orphans(*orphansPrune, *orphansYes)
	case "reset":
		if err := resetCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.reset(*resetYes)
	default:
		cli.printUsage()
		return errHelp
	}
}

// confirm asks the user to type "yes" unless skip is set. Prompts need a terminal.
func (cli *commandLine) confirm(question string, skip bool) error {
	if skip {
		return nil
	}
	if !isTerminalFunc(int(os.Stdin.Fd())) {
		return errNeedsConfirmation
	}
	_, _ = fmt.Fprintf(cli.out, "%s Type 'yes' to continue: ", question)
	answer, err := bufio.NewReader(cli.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	if strings.TrimSpace(strings.ToLower(answer)) != "yes" {
		return errAborted
	}
	return nil
}
