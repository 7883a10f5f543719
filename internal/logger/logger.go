// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// stockroom writes lifecycle and error events to one JSON log per day under
// `<root>/logs/YYYY-MM-DD.log`.  When tee is set (interactive TTY, or
// `log.tee: true`) the same events go to stderr in console format so CLI
// output on stdout stays clean.  Rotation, compression, and retention are
// handled by Lumberjack.
//
// Usage
// -----
//
//	log, err := logger.New(cfg.Paths.Root, cfg.Log.Tee, cfg.Log.Level)
//	if err != nil { … }
//	log.Infow("product inserted", "id", p.ID())
//
// Notes
// -----
// • Zap core uses ISO-8601 timestamps and lowercase levels.
// • Entity records never log; only the CLI and server boundaries do.
package logger

import (
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a *zap.SugaredLogger that writes JSON to
// <rootDir>/logs/YYYY-MM-DD.log at the given level (debug, info, warn,
// error).  The logger is installed as the process-wide default via
// zap.ReplaceGlobals.
func New(rootDir string, tee bool, level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logDir := filepath.Join(rootDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, time.Now().Format("2006-01-02")+".log"),
		MaxSize:    50, // MB
		MaxBackups: 7,
		MaxAge:     14, // days
		Compress:   true,
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), lvl),
	}
	if tee {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			lvl,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
	).Sugar()

	zap.ReplaceGlobals(z.Desugar())

	z.Debugw("logger online", "tee", tee, "level", lvl.String())
	return z, nil
}
