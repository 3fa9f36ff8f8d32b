// Package logger wraps zap with a process-wide sugared logger.
package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop().Sugar()
)

// Options configures Init
type Options struct {
	Level string
	Env   string
	// File, when set, receives JSON logs with size-based rotation.
	File string
	// Console is where human-readable logs go. Nil means stderr; io.Discard disables it.
	Console io.Writer
}

// Init builds the global logger. Production uses a JSON encoder, everything else a colored console encoder.
func Init(opts Options) (*zap.SugaredLogger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var cores []zapcore.Core
	if console != io.Discard {
		cores = append(cores, zapcore.NewCore(consoleEncoder(opts.Env), zapcore.AddSync(console), level))
	}

	if opts.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), fileWriter, level))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).Sugar()
	Set(log)
	return log, nil
}

func consoleEncoder(env string) zapcore.Encoder {
	if env == "production" {
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// Get returns the global logger. It is a no-op logger until Init or Set is called.
func Get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Set replaces the global logger
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// Named returns a child of the global logger tagged with a component name
func Named(component string) *zap.SugaredLogger {
	return Get().With("component", component)
}

// Sync flushes buffered entries
func Sync() error {
	return Get().Sync()
}
