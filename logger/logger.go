// Package logger configures the global zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `envconfig:"LEVEL" default:"info"`

	// Format is json or pretty.
	Format string `envconfig:"FORMAT" default:"pretty"`

	FileEnabled   bool   `envconfig:"FILE_ENABLED" default:"false"`
	FilePath      string `envconfig:"FILE_PATH" default:"logs"`
	RotationSize  int    `envconfig:"ROTATION_SIZE" default:"10"` // MB
	RetentionDays int    `envconfig:"RETENTION_DAYS" default:"30"`
}

// Init initializes the global logger, writing to stderr and optionally to
// rotated files.
func Init(cfg Config) error {
	return InitWriter(cfg, os.Stderr)
}

// InitWriter is Init with console output going to w.
func InitWriter(cfg Config, w io.Writer) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var writers []io.Writer
	switch cfg.Format {
	case "pretty":
		writers = append(writers, zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"})
	case "json", "":
		writers = append(writers, w)
	default:
		return fmt.Errorf("invalid log format %q: must be json or pretty", cfg.Format)
	}

	if cfg.FileEnabled {
		if err := os.MkdirAll(cfg.FilePath, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(cfg.FilePath, "dca.log"),
			MaxSize:    cfg.RotationSize,
			MaxAge:     cfg.RetentionDays,
			MaxBackups: 10,
			Compress:   true,
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	log.Debug().
		Str("level", cfg.Level).
		Str("format", cfg.Format).
		Bool("file_enabled", cfg.FileEnabled).
		Msg("logger initialized")
	return nil
}
