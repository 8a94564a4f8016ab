// Package logger builds the command line client's slog logger: a
// charmbracelet handler writing to a rotating file under the data dir.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const fileName = "ceoos.log"

type Config struct {
	Debug bool
	Dir   string
}

// Logger is a slog logger bound to its rotating log file.
type Logger struct {
	*slog.Logger
	file *lumberjack.Logger
}

// New creates <Dir>/logs/ceoos.log. In debug mode records also go to stderr.
func New(cfg Config) (*Logger, error) {
	logDir := filepath.Join(cfg.Dir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fileName),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.WarnLevel
	var w io.Writer = file
	if cfg.Debug {
		level = log.DebugLevel
		w = io.MultiWriter(os.Stderr, file)
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "ceoos",
	})
	return &Logger{Logger: slog.New(handler), file: file}, nil
}

func (l *Logger) Close() error {
	return l.file.Close()
}
