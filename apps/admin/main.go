package main

import (
	"log"
	"os"

	"github.com/trezcool/classdrop/core"
	logsvc "github.com/trezcool/classdrop/services/logger"
	"github.com/trezcool/classdrop/storage/document/jsonfile"
	"github.com/trezcool/classdrop/storage/upload/disk"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	placer, err := disk.NewPlacer(conf.Storage.UploadDir, conf.Storage.UploadURLPrefix)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		store:  jsonfile.NewStore(conf.Storage.DocumentPath, logsvc.NewStdLogger("STORE : ")),
		placer: placer,
		in:     os.Stdin,
		out:    os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
