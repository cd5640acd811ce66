package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger initializes the global zap logger from the -v flag value.
// Accepts level names (error, warn, info, debug) or the digits 0-3.
func InitLogger(verbosity string) error {
	level, err := parseVerbosity(verbosity)
	if err != nil {
		return err
	}

	var zapCfg zap.Config
	if level <= zapcore.DebugLevel {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

func parseVerbosity(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info", "2":
		return zapcore.InfoLevel, nil
	case "error", "0":
		return zapcore.ErrorLevel, nil
	case "warn", "1":
		return zapcore.WarnLevel, nil
	case "debug", "trace", "3", "4":
		return zapcore.DebugLevel, nil
	}
	return zapcore.InfoLevel, eris.Errorf("config: unknown verbosity level %q", s)
}
