package main

import (
	"os"
	"rental/config"
	"rental/helper"
	"rental/shared/logger"
	"strings"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.InitLogger()

	if len(os.Args) < 2 {
		log.Fatal().Msgf("usage: migrate <%s>", strings.Join(helper.Actions(), "|"))
	}

	cfg := config.Get()
	logger.Configure(cfg)

	if err := helper.Run(cfg, os.Args[1]); err != nil {
		log.Fatal().Err(err).Str("action", os.Args[1]).Msg("migration failed")
	}
}
