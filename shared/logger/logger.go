package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"rolloff/config"
	"rolloff/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.InfoLevel

var output io.Writer = os.Stdout

// InitLogger installs a human readable console logger that prints everything until SetLogLevel runs.
func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

// ErrorWithStack logs err together with the stack of the caller.
func ErrorWithStack(err error) {
	if err == nil {
		return
	}

	log.Error().Err(err).Str("stack", fmt.Sprintf("%+v", errors.WithStack(err))).Msg("unexpected error")
}

// SetLogLevel applies SERVER_LOG_LEVEL, falling back to info. Production logs are JSON lines tagged
// with the app name and environment.
func SetLogLevel(cfg *config.Config) {
	if cfg.Server.Env == constant.ServerEnvProduction {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		log.Logger = zerolog.New(output).With().
			Timestamp().
			Str("app", cfg.App.Name).
			Str("env", cfg.Server.Env).
			Logger()
	}

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == constant.Empty {
		level = defaultLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Info().Str("level", level.String()).Msg("log level applied")
}
