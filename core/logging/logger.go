// Package logging builds the zerolog logger used across assetpipe.
// Console output goes to stderr so that stdout stays free for results;
// an optional rotating log file is written through lumberjack.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger construction.
type Config struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format     string `yaml:"format" validate:"omitempty,oneof=console json"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"omitempty,min=1"`
	MaxBackups int    `yaml:"max_backups" validate:"omitempty,min=0"`
	NoColor    bool   `yaml:"no_color"`
}

// DefaultConfig returns an info-level console configuration.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		MaxSizeMB:  100,
		MaxBackups: 3,
	}
}

// Logger bundles the zerolog logger with the file sink that must be closed.
type Logger struct {
	zerolog.Logger
	file *lumberjack.Logger
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// New builds a Logger. console receives human or JSON output depending on
// cfg.Format; pass nil to use os.Stderr.
func New(cfg Config, console io.Writer) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{consoleWriter(cfg, console)}

	var file *lumberjack.Logger
	if cfg.File != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 100),
			MaxBackups: cfg.MaxBackups,
		}
		writers = append(writers, file)
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("component", "imagekit").
		Logger()

	return &Logger{Logger: zl, file: file}, nil
}

// ParseLevel maps a level name to a zerolog level; empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return zerolog.InfoLevel, nil
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

func consoleWriter(cfg Config, w io.Writer) io.Writer {
	if strings.EqualFold(cfg.Format, "json") {
		return w
	}
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    cfg.NoColor,
		TimeFormat: "15:04:05",
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
