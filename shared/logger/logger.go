package logger

import (
	"io"
	"os"
	"rental/config"
	"rental/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.InfoLevel

// InitLogger installs a human readable console logger. Configure replaces it once the config is loaded.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// Configure applies the configured level. Outside development the console writer is swapped for
// JSON lines tagged with the app name and environment.
func Configure(cfg *config.Config) {
	configure(cfg, os.Stdout)
}

func configure(cfg *config.Config, out io.Writer) {
	SetLogLevel(cfg)

	if cfg.Server.Env == "" || cfg.Server.Env == constant.ServerEnvDevelopment {
		return
	}

	log.Logger = zerolog.New(out).With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("env", cfg.Server.Env).
		Logger()
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil || config.Server.LogLevel == "" {
		level = defaultLevel
		log.Info().Str("loglevel", level.String()).Msg("No valid log level configured, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
