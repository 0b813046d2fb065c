package main

import (
	"innkeep/config"
	"innkeep/di"
	"innkeep/shared/logger"
)

// @title       Innkeep API
// @version     1.0
// @description Hotel room lifecycle and workforce admission service.
// @BasePath    /v1
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
