package utils

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFormat represents the log output format
type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level  string
	Format LogFormat
	Output io.Writer
}

// DefaultLoggerConfig returns a default logger configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:  "info",
		Format: LogFormatConsole,
		Output: os.Stderr,
	}
}

var (
	level = zap.NewAtomicLevelAt(zap.InfoLevel)

	globalMu     sync.RWMutex
	globalLogger *zap.Logger
)

// SetLevel changes the level of every logger built by NewLogger
func SetLevel(l string) {
	level.SetLevel(getLevel(l))
}

// NewLogger creates a new logger with the given configuration
func NewLogger(config *LoggerConfig) *zap.Logger {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	SetLevel(config.Level)

	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	core := zapcore.NewCore(
		getEncoder(config.Format),
		zapcore.AddSync(output),
		level,
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(config *LoggerConfig) *zap.Logger {
	logger := NewLogger(config)
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
	return logger
}

// L returns the global logger, building a default one on first use
func L() *zap.Logger {
	globalMu.RLock()
	logger := globalLogger
	globalMu.RUnlock()
	if logger != nil {
		return logger
	}
	return InitGlobalLogger(DefaultLoggerConfig())
}

func getLevel(l string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

func getEncoder(format LogFormat) zapcore.Encoder {
	conf := zap.NewProductionEncoderConfig()
	conf.TimeKey = "time"
	conf.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == LogFormatJSON {
		return zapcore.NewJSONEncoder(conf)
	}
	conf.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(conf)
}
