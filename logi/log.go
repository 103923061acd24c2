package logi

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// Config holds the logging configuration
type Config struct {
	// LogDir is the directory where log files will be stored
	// Default: /var/log/rca-telemetry-synth (or ./logs if not writable)
	LogDir string
	// LogFileName is the name of the log file
	// Default: app.log
	LogFileName string
	// Level is the minimum log level: debug, info, warn or error
	// Default: info
	Level string
	// Format is json or console
	// Default: json
	Format string
}

// NewLog creates or returns the singleton logger instance.
// It's safe for concurrent use across multiple goroutines.
// Only the first call builds the logger; later calls return it and ignore cfg.
func NewLog(cfg *Config) (*zap.Logger, error) {
	var initErr error

	once.Do(func() {
		if cfg == nil {
			cfg = &Config{}
		}

		if cfg.LogDir == "" {
			// Try /var/log/rca-telemetry-synth first (works in Docker)
			// Fall back to ./logs if not writable
			cfg.LogDir = "/var/log/rca-telemetry-synth"
			if !isDirWritable(cfg.LogDir) {
				cfg.LogDir = "./logs"
			}
		}

		if cfg.LogFileName == "" {
			cfg.LogFileName = "app.log"
		}

		if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create log directory %s: %w", cfg.LogDir, err)
			return
		}

		logPath := filepath.Join(cfg.LogDir, cfg.LogFileName)

		built, err := build(cfg, logPath)
		if err != nil {
			initErr = err
			return
		}
		logger = built

		logger.Info("logger initialized",
			zap.String("log_path", logPath),
			zap.String("level", cfg.Level),
		)
	})

	if initErr != nil {
		return nil, initErr
	}

	return logger, nil
}

func build(cfg *Config, logPath string) (*zap.Logger, error) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var zcfg zap.Config
	switch cfg.Format {
	case "console":
		zcfg = zap.NewDevelopmentConfig()
	case "json", "":
		zcfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q: must be \"json\" or \"console\"", cfg.Format)
	}

	zcfg.Level = zap.NewAtomicLevelAt(zapLevel)
	zcfg.OutputPaths = []string{logPath}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	// Remove caller info for max performance
	zcfg.DisableCaller = true

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}
	return l, nil
}

// GetLogger returns the existing logger instance.
// Before NewLog has run it returns a no-op logger, so packages can be used
// (and tested) without logging configured.
func GetLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// isDirWritable checks if a directory is writable
func isDirWritable(path string) bool {
	if err := os.MkdirAll(path, 0755); err != nil {
		return false
	}

	testFile := filepath.Join(path, ".write_test")
	file, err := os.OpenFile(testFile, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false
	}
	file.Close()
	os.Remove(testFile)
	return true
}
