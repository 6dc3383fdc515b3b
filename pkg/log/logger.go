// Package log configures structured logging for the crop recommendation
// pipeline. Application logs go through log/slog with a JSON handler; errors
// built by pkg/errors carry cockroachdb stack traces which the wrapping
// handler surfaces as a "stacktrace" attribute. Warnings raised by pkg/errors
// are bridged into zerolog so that metric warnings show up in the same
// structured stream as remote store client logs.
package log

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rs/zerolog"

	"github.com/DeepanshuK43/cropml/pkg/errors"
)

// SetupLogger installs the default slog logger with JSON output and
// stacktrace extraction. It also bridges pkg/errors warnings into zerolog.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))

	warnLogger := NewZerolog("warnings")
	errors.SetZerologWarnFunc(func(warning error) {
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			warnLogger.Warn().Object("warning", obj).Msg(warning.Error())
			return
		}
		warnLogger.Warn().Err(warning).Msg("warning")
	})
}

// NewZerolog returns a zerolog logger tagged with the given component name,
// writing to standard error.
func NewZerolog(component string) zerolog.Logger {
	return zerolog.New(os.Stderr).With().
		Timestamp().
		Str("component", component).
		Logger()
}

// ToLogLevel maps a level string to a slog.Level. Unknown levels panic: a
// misconfigured log level should fail at startup, not be silently dropped.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
