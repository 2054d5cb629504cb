// Package observability holds the process-wide zap loggers. CLI commands
// get a human console logger; serve mode gets structured JSON.
package observability

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// CLILogger is used by CLI commands.
	CLILogger *zap.Logger = zap.NewNop()

	// ServerLogger is used by serve mode.
	ServerLogger *zap.Logger = zap.NewNop()
)

// InitCLILogger initializes the console logger. verbose lowers the level
// to debug.
func InitCLILogger(verbose bool) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	CLILogger = zap.New(core)
}

// InitServerLogger initializes the JSON logger at the named level.
// format "console" switches to the human encoder for local runs.
func InitServerLogger(service, levelName, format string) error {
	level, err := ParseLevel(levelName)
	if err != nil {
		return err
	}

	var encoder zapcore.Encoder
	if format == "console" {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	ServerLogger = zap.New(core, zap.AddCaller()).With(zap.String("service", service))
	return nil
}

// ParseLevel maps a config level name onto a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug", "trace":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level: %s", name)
	}
}

// Sync flushes both loggers. Safe to call on exit paths.
func Sync() {
	_ = CLILogger.Sync()
	_ = ServerLogger.Sync()
}
