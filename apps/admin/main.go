package main

import (
	"log"
	"os"

	"github.com/trezcool/masomo-dashboard/core"
	logsvc "github.com/trezcool/masomo-dashboard/services/logger"
	"github.com/trezcool/masomo-dashboard/storage"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(false)

	// set up the volatile store
	store, err := storage.Open(conf)
	if err != nil {
		logger.Fatal("opening session backend", err)
	}

	// start CLI
	cli := commandLine{
		store:  store,
		logger: logger,
		out:    os.Stdout,
	}
	err = cli.run(os.Args)
	_ = store.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}
