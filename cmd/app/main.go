package main

import (
	"rolloff/config"
	"rolloff/di"
	"rolloff/shared/logger"
)

// @title						Rolloff API
// @version					1.0
// @description				Dumpster rental availability, pricing and reservations.
// @BasePath					/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
