package logutil

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/config"
)

// Setup routes the standard logger to stdout plus, when a log file is
// configured, a size-rotated file.
func Setup(cfg config.LogConfig) {
	if cfg.File == "" {
		return
	}
	rotated := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotated))
}
