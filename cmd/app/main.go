package main

import (
	"rental/config"
	"rental/di"
	"rental/helper"
	"rental/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Rental Reservation API
// @version 1.0
// @description Reserve listings for half-open day ranges without double booking.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
