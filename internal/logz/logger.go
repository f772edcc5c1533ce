package logz

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init replaces the global zap logger. Unknown levels fall back to info.
func Init(level, serviceName string) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.Fields(zap.String("service", serviceName)))
	if err != nil {
		logger = zap.NewExample()
	}
	zap.ReplaceGlobals(logger)
}

func Drop() {
	_ = zap.L().Sync()
}

func NewLogger() *zap.Logger {
	return zap.L()
}

func parseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel
	}
	return l
}
