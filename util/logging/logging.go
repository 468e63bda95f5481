package logging

import (
	"fmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"io"
	"os"
	"path/filepath"
	"time"
)

const fileTimeFormat = "15:04:05"

// New returns a logger writing human readable lines to console and to a dated file in dir.
//
// File lines look like "[15:04:05] [INFO] message  key=value". The returned func syncs the logger
// and closes the file; the logger must not be used afterwards.
func New(dir string, console io.Writer, debug bool) (*zap.Logger, func() error, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(FileName(dir, time.Now()), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		level.SetLevel(zap.DebugLevel)
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	fileCfg := zap.NewDevelopmentEncoderConfig()
	fileCfg.ConsoleSeparator = " "
	fileCfg.CallerKey = zapcore.OmitKey
	fileCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + t.Format(fileTimeFormat) + "]")
	}
	fileCfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + l.CapitalString() + "]")
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(zapcore.AddSync(console)), level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(fileCfg), zapcore.Lock(f), zap.DebugLevel),
	)

	logger := zap.New(core)

	closeFn := func() error {
		_ = logger.Sync()
		return f.Close()
	}

	return logger, closeFn, nil
}

// FileName is the log file used for entries written on day t.
func FileName(dir string, t time.Time) string {
	return filepath.Join(dir, "launcher-"+t.Format("2006-01-02")+".log")
}
