package main

import (
	"github.com/OFFIS-RIT/famtree/backend/internal/server"
	"github.com/OFFIS-RIT/famtree/backend/internal/util"
	"github.com/OFFIS-RIT/famtree/backend/pkg/logger"
	"github.com/OFFIS-RIT/famtree/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  util.GetEnvBool("DEBUG", false),
		JSON:   util.GetEnvBool("LOG_JSON", false),
		Prefix: "server",
	})
	logger.Init(consoleLogger)

	server.Init()
}
