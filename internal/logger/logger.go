package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a named zap logger. "development" and "debug" get a coloured
// console at debug level; anything else logs JSON at info.
func New(name, env string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "development", "debug":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("cannot init zap logger: %w", err)
	}
	return z.Named(name), nil
}

// Sync flushes z, ignoring the errors stderr returns when it is a terminal.
func Sync(z *zap.Logger) {
	if z == nil {
		return
	}
	if err := z.Sync(); err != nil {
		s := strings.ToLower(err.Error())
		if strings.Contains(s, "invalid argument") || strings.Contains(s, "inappropriate ioctl for device") {
			return
		}
		z.Error("log sync error", zap.Error(err))
	}
}
