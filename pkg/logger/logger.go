package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// SetupLogger builds the process logger for env and installs it globally.
func SetupLogger(env string, level string) *zap.Logger {
	var cfg zap.Config

	switch env {
	case envProd:
		cfg = zap.NewProductionConfig()
	case envLocal, envDev:
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
	}

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build()
	if err != nil {
		l = zap.NewExample()
	}
	l = l.With(zap.String("env", env))

	SetLogger(l)

	return l
}

// SetLogger replaces the global logger and returns a function restoring the previous one.
func SetLogger(l *zap.Logger) func() {
	mu.Lock()
	prev := global
	global = l
	mu.Unlock()

	return func() { SetLogger(prev) }
}

func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return global
}

func Debug(msg string, fields ...zap.Field) {
	Logger().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Logger().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Logger().Error(msg, fields...)
}

func Sync() {
	_ = Logger().Sync()
}
