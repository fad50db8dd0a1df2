package main

import (
	"errors"
	"os"

	"github.com/OFFIS-RIT/famtree/backend/pkg/logger"
	"github.com/OFFIS-RIT/famtree/backend/pkg/logger/console"
)

func main() {
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Prefix: "famtree",
	}))

	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalidTable) {
			logger.Error("Command failed", "err", err)
		}
		os.Exit(1)
	}
}
