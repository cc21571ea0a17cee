// Package logger builds the zap logger used across the service and CLI.
//
// Production environments log JSON to stdout; everything else gets the
// development console encoder with colored levels. The minimum level is taken
// from LOG_LEVEL (DEBUG, INFO, WARN, ERROR) and defaults to INFO.
//
// Example usage:
//
//	log, err := logger.New(cfg.Environment, cfg.LogLevel)
//	if err != nil {
//	    return err
//	}
//	defer log.Sync()
//
//	log.Info("Event added",
//	    zap.String("id", evt.ID),
//	    zap.String("title", evt.Title))
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Production is the environment name that selects JSON output
const Production = "production"

// ParseLevel converts a level name to a zap level. Empty means INFO.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "", "INFO":
		return zapcore.InfoLevel, nil
	case "DEBUG":
		return zapcore.DebugLevel, nil
	case "WARN", "WARNING":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// New creates a logger for the environment at the given minimum level.
// outputPaths overrides stdout (used by tests).
func New(environment, level string, outputPaths ...string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var config zap.Config
	if environment == Production {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.Level = zap.NewAtomicLevelAt(lvl)
	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if len(outputPaths) > 0 {
		config.OutputPaths = outputPaths
	}

	return config.Build(zap.AddCaller())
}
