package logging

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields carries structured key/value context for a log entry
type Fields map[string]any

// Logger is the structured logger used across the inspector
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

// Format selects the encoder of the root logger
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

var (
	mu     sync.RWMutex
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	format = FormatConsole
	root   *zap.Logger
)

// zapLogger adapts a zap.Logger to Logger
type zapLogger struct {
	base *zap.Logger
}

// NewDefaultLogger returns a logger writing to stderr at the configured level
func NewDefaultLogger() Logger {
	return &zapLogger{base: rootLogger()}
}

// WithFields returns a root logger carrying the given fields
func WithFields(fields Fields) Logger {
	return NewDefaultLogger().WithFields(fields)
}

// Debug logs on the root logger
func Debug(msg string, fields ...Fields) { NewDefaultLogger().Debug(msg, fields...) }

// Info logs on the root logger
func Info(msg string, fields ...Fields) { NewDefaultLogger().Info(msg, fields...) }

// Warn logs on the root logger
func Warn(msg string, fields ...Fields) { NewDefaultLogger().Warn(msg, fields...) }

// Error logs on the root logger
func Error(err error, msg string, fields ...Fields) { NewDefaultLogger().Error(err, msg, fields...) }

// SetLevel changes the level of every logger derived from the root
func SetLevel(name string) error {
	var l zapcore.Level
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		l = zapcore.DebugLevel
	case "", "info":
		l = zapcore.InfoLevel
	case "warn", "warning":
		l = zapcore.WarnLevel
	case "error":
		l = zapcore.ErrorLevel
	default:
		return fmt.Errorf("unknown log level: %s", name)
	}
	level.SetLevel(l)
	return nil
}

// SetFormat switches the root encoder; loggers created afterwards pick it up
func SetFormat(f Format) error {
	if f != FormatConsole && f != FormatJSON {
		return fmt.Errorf("unknown log format: %s", f)
	}

	mu.Lock()
	defer mu.Unlock()
	if format != f {
		format = f
		root = nil
	}
	return nil
}

func rootLogger() *zap.Logger {
	mu.RLock()
	l := root
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		root = buildRoot(format)
	}
	return root
}

func buildRoot(f Format) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if f == FormatJSON {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

func (l *zapLogger) Debug(msg string, fields ...Fields) {
	l.base.Debug(msg, toZap(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...Fields) {
	l.base.Info(msg, toZap(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...Fields) {
	l.base.Warn(msg, toZap(fields)...)
}

func (l *zapLogger) Error(err error, msg string, fields ...Fields) {
	zf := toZap(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	l.base.Error(msg, zf...)
}

func (l *zapLogger) WithFields(fields Fields) Logger {
	return &zapLogger{base: l.base.With(toZap([]Fields{fields})...)}
}

// toZap flattens field maps in key order so output is stable between runs
func toZap(fields []Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	var out []zap.Field
	for _, f := range fields {
		keys := make([]string, 0, len(f))
		for k := range f {
			if k == "" {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, zap.Any(k, f[k]))
		}
	}
	return out
}
