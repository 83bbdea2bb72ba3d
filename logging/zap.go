package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter wraps *zap.Logger to implement the Logger interface. Key/value
// pairs become zap fields.
type ZapAdapter struct {
	logger *zap.Logger
}

// NewZapAdapter creates a Logger from *zap.Logger.
func NewZapAdapter(logger *zap.Logger) Logger {
	return &ZapAdapter{logger: logger}
}

// NewZapLogger builds a production zap logger at the given level.
func NewZapLogger(level LogLevel) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return NewZapAdapter(z), nil
}

// Debug logs a debug message.
func (z *ZapAdapter) Debug(msg string, args ...any) { z.logger.Debug(msg, fields(args)...) }

// Info logs an informational message.
func (z *ZapAdapter) Info(msg string, args ...any) { z.logger.Info(msg, fields(args)...) }

// Warn logs a warning message.
func (z *ZapAdapter) Warn(msg string, args ...any) { z.logger.Warn(msg, fields(args)...) }

// Error logs an error message.
func (z *ZapAdapter) Error(msg string, args ...any) { z.logger.Error(msg, fields(args)...) }

// Sync flushes buffered entries.
func (z *ZapAdapter) Sync() error { return z.logger.Sync() }

func fields(args []any) []zap.Field {
	out := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			out = append(out, zap.Any("!BADKEY", args[i]))
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		if err, ok := args[i+1].(error); ok {
			out = append(out, zap.NamedError(key, err))
			continue
		}
		out = append(out, zap.Any(key, args[i+1]))
	}
	return out
}

func zapLevel(l LogLevel) zapcore.Level {
	switch l {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
