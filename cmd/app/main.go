package main

import (
	"scheduleright/config"
	"scheduleright/di"
	"scheduleright/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
