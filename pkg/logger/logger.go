/* pkg/logger/logger.go */

package logger

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// Options selects the level and the JSON log file.
type Options struct {
	Level string
	File  string
}

// Initialize builds a console core (stderr) tee'd with a JSON file core and
// installs it as the zap and otelzap global. If the file cannot be opened the
// logger falls back to console only and the returned error says why.
func Initialize(opts Options) (*zap.Logger, error) {
	level := ParseLogLevel(opts.Level)

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)

	var fileErr error
	core := consoleCore
	if opts.File != "" {
		writer, err := GetLogFileWriter(opts.File)
		if err != nil {
			fileErr = fmt.Errorf("log file %s unusable, logging to console only: %w", opts.File, err)
		} else {
			core = zapcore.NewTee(
				consoleCore,
				zapcore.NewCore(zapcore.NewJSONEncoder(DefaultJSONEncoderConfig()), writer, level),
			)
		}
	}

	install(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), level)
	log.Debug("Logger initialized",
		zap.String("log_level", level.String()),
		zap.String("log_path", opts.File))
	return log, fileErr
}

// InitFallback installs a console-only logger if none has been set up yet.
func InitFallback() {
	if log != nil {
		return
	}
	level := ParseLogLevel(os.Getenv("LOG_LEVEL"))
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
	install(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), level)
}

func install(l *zap.Logger, level zapcore.Level) {
	log = l
	zap.ReplaceGlobals(log)
	otelzap.ReplaceGlobals(otelzap.New(log, otelzap.WithMinLevel(level)))
}

// L returns the global logger, initializing the fallback if needed.
func L() *zap.Logger {
	if log == nil {
		InitFallback()
	}
	return log
}

// Sync flushes buffered entries. Console sync errors on terminals are ignored.
func Sync() error {
	if log == nil {
		return nil
	}
	err := log.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

// ParseLogLevel maps a level name to a zap level, defaulting to info.
func ParseLogLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func DefaultConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.CallerKey = ""
	cfg.MessageKey = "M"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

func DefaultJSONEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}
