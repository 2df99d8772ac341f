package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lixenwraith/konami/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// maxLogSize is the size past which the log file is rotated on start
const maxLogSize = 10 * 1024 * 1024

// newLogger builds a JSON logger writing only to the log file, never to stdout or stderr
// An empty file path disables logging
func newLogger(cfg config.LogConfig, verbose bool) (*zap.Logger, func(), error) {
	if cfg.File == "" {
		return zap.NewNop(), func() {}, nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	rotateLog(cfg.File)

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{cfg.File}
	zc.ErrorOutputPaths = []string{cfg.File}
	zc.Sampling = nil

	logger, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// rotateLog renames an oversized log file with a timestamp suffix
func rotateLog(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxLogSize {
		return
	}
	ext := filepath.Ext(path)
	rotated := strings.TrimSuffix(path, ext) + "." + time.Now().Format("20060102-150405") + ext
	_ = os.Rename(path, rotated)
}
