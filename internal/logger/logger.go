// Package logger provides the process-wide zap logger used by the CLI, the
// TUI and the MCP server.
package logger

import (
	"fmt"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/barysiuk/ananke/internal/env"
)

// logFileName is the path of the TUI log file relative to XDG_STATE_HOME.
const logFileName = "ananke/ananke.log"

// Debugw logs a message at debug level with additional key-value pairs.
func Debugw(msg string, keysAndValues ...any) {
	zap.S().Debugw(msg, keysAndValues...)
}

// Debugf logs a formatted message at debug level.
func Debugf(msg string, args ...any) {
	zap.S().Debugf(msg, args...)
}

// Infow logs a message at info level with additional key-value pairs.
func Infow(msg string, keysAndValues ...any) {
	zap.S().Infow(msg, keysAndValues...)
}

// Infof logs a formatted message at info level.
func Infof(msg string, args ...any) {
	zap.S().Infof(msg, args...)
}

// Warnw logs a message at warning level with additional key-value pairs.
func Warnw(msg string, keysAndValues ...any) {
	zap.S().Warnw(msg, keysAndValues...)
}

// Errorw logs a message at error level with additional key-value pairs.
func Errorw(msg string, keysAndValues ...any) {
	zap.S().Errorw(msg, keysAndValues...)
}

// NewLogr returns a logr.Logger backed by the global zap logger.
func NewLogr() logr.Logger {
	return zapr.NewLogger(zap.L())
}

// DebugProvider reports whether debug logging was requested.
type DebugProvider interface {
	IsDebug() bool
}

// StaticDebug is a DebugProvider with a fixed answer, typically bound to
// the --debug flag.
type StaticDebug bool

// IsDebug implements DebugProvider.
func (d StaticDebug) IsDebug() bool { return bool(d) }

// Option adjusts the zap configuration before the logger is built.
type Option func(*zap.Config)

// WithOutputPaths replaces the sinks the logger writes to.
func WithOutputPaths(paths ...string) Option {
	return func(c *zap.Config) {
		c.OutputPaths = paths
		c.ErrorOutputPaths = paths
	}
}

// WithLevel forces a minimum level regardless of the debug provider.
func WithLevel(level zapcore.Level) Option {
	return func(c *zap.Config) {
		c.Level = zap.NewAtomicLevelAt(level)
	}
}

// Initialize configures the global logger from the process environment.
func Initialize(debug bool) error {
	return InitializeWithOptions(&env.OSReader{}, StaticDebug(debug))
}

// InitializeWithOptions builds and installs the global logger.
//
// UNSTRUCTURED_LOGS (default true) selects a human-readable console encoder
// on stderr; setting it to false switches to JSON lines on stderr.
func InitializeWithOptions(envReader env.Reader, debugProvider DebugProvider, opts ...Option) error {
	var config zap.Config
	if unstructuredLogsWithEnv(envReader) {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.Kitchen)
		config.DisableStacktrace = true
		config.DisableCaller = true
	} else {
		config = zap.NewProductionConfig()
	}
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	if debugProvider.IsDebug() {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	for _, opt := range opts {
		opt(&config)
	}

	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	zap.ReplaceGlobals(l)
	return nil
}

// LogFilePath returns the file the TUI logs to, creating its parent
// directory under XDG_STATE_HOME.
func LogFilePath() (string, error) {
	p, err := xdg.StateFile(logFileName)
	if err != nil {
		return "", fmt.Errorf("resolving log file: %w", err)
	}
	return p, nil
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = zap.L().Sync()
}

func unstructuredLogsWithEnv(envReader env.Reader) bool {
	unstructured, err := strconv.ParseBool(envReader.Getenv("UNSTRUCTURED_LOGS"))
	if err != nil {
		// unset or unparsable
		return true
	}
	return unstructured
}
