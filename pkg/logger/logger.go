package logger

import (
	"context"

	"github.com/ewallet-demo/ewallet/internal/config"
	sqldblogger "github.com/simukti/sqldb-logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the application logging interface. It also satisfies
// sqldblogger.Logger so the same instance records every SQL statement.
type Logger interface {
	// With returns a logger based off the root logger
	// and decorates it with the given context and arguments.
	With(ctx context.Context, args ...interface{}) Logger

	Debug(args ...interface{})
	Info(args ...interface{})
	Error(args ...interface{})

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	// Log implements sqldblogger.Logger.
	Log(ctx context.Context, level sqldblogger.Level, msg string, data map[string]interface{})

	// Sync flushes any buffered log entries.
	Sync() error
}

type logger struct {
	*zap.SugaredLogger
}

var _ Logger = (*logger)(nil)

// New creates a logger writing to the configured log file with rotation.
// The terminal is owned by the UI, so nothing is written to stdout.
func New(cfg *config.Config) Logger {
	level, err := zapcore.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Logger.Path,
		MaxSize:    cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAgeDays,
	})

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		w,
		level,
	)

	return &logger{zap.New(core, zap.AddCaller()).Sugar()}
}

// NewNop returns a logger discarding everything. Useful in tests.
func NewNop() Logger {
	return &logger{zap.NewNop().Sugar()}
}

func (l *logger) With(_ context.Context, args ...interface{}) Logger {
	if len(args) > 0 {
		return &logger{l.SugaredLogger.With(args...)}
	}
	return l
}

func (l *logger) Log(_ context.Context, level sqldblogger.Level, msg string, data map[string]interface{}) {
	args := make([]interface{}, 0, len(data)*2)
	for k, v := range data {
		args = append(args, k, v)
	}

	switch level {
	case sqldblogger.LevelError:
		l.SugaredLogger.Errorw(msg, args...)
	case sqldblogger.LevelInfo:
		l.SugaredLogger.Infow(msg, args...)
	default:
		// Per-query logs (LevelDebug, LevelTrace) are debug noise.
		l.SugaredLogger.Debugw(msg, args...)
	}
}
