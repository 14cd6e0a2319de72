package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or a file path
	TimeFormat string // layout passed to the time encoder
}

// New builds a zap logger from the configuration. Unknown levels fall back
// to info, and anything other than stdout/stderr in Output is treated as a
// file path.
func New(cfg *Config) (*zap.Logger, error) {
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = defaultTimeFormat
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(timeFormat),
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	encoding := "json"
	if strings.EqualFold(cfg.Format, "console") {
		encoding = "console"
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	output := cfg.Output
	if output == "" {
		output = "stdout"
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(cfg.Level)),
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	log, err := zapCfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

// ParseLevel converts a textual level to a zapcore.Level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info", "":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes any buffered log entries. Syncing stdout returns an error on
// some platforms and callers may ignore it.
func Sync(log *zap.Logger) error {
	return log.Sync()
}
