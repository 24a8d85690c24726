package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nghiakieran/ute-shop-sub000/internal/conf"
)

const defaultLevel = "info"

// NewLogger constructs the application's zap logger emitting structured JSON.
// The level comes from config; anything unparsable falls back to info.
func NewLogger(cfg *conf.LogConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	raw := defaultLevel
	if cfg != nil && cfg.Level != "" {
		raw = cfg.Level
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(raw)))); err != nil {
		_ = level.UnmarshalText([]byte(defaultLevel))
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey: "message",
		TimeKey:    "timestamp",
		LevelKey:   "severity",
		EncodeTime: zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(strings.ToUpper(l.String()))
		},
		CallerKey:     "caller",
		StacktraceKey: "stacktrace",
	}

	outputs := []string{"stdout"}
	if cfg != nil && cfg.Filename != "" {
		outputs = append(outputs, cfg.Filename)
	}

	zapCfg := zap.Config{
		Level:             level,
		Encoding:          "json",
		EncoderConfig:     encoderCfg,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     false,
		DisableStacktrace: true,
	}

	return zapCfg.Build()
}
