package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerInitializationFailedMessageFormat reports a logger construction failure.
const LoggerInitializationFailedMessageFormat = "unable to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal application errors.
const ApplicationExecutionFailedMessage = "application execution failed"

// NewApplicationLogger constructs a zap logger configured for human-readable
// console output on stderr. Quiet mode suppresses informational messages.
func NewApplicationLogger(quiet bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.OutputPaths = []string{"stderr"}
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	if quiet {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return config.Build()
}
