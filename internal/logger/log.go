package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"club-hours/internal/config"

	"gopkg.in/lumberjack.v2"
)

// Init installs the JSON logger as slog default. The returned func closes
// the rotating log file, if one is configured.
func Init(cfg config.LogConfig) func() error {
	level := parseLevel(cfg.Level)
	closer := func() error { return nil }

	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, os.Stdout)
	}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		}
		writers = append(writers, lj)
		closer = lj.Close
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	h := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: maskEmails,
	})
	slog.SetDefault(slog.New(h).With("service", "club-hours"))
	Debug("log.init", "level", level.String(), "file", cfg.File)
	return closer
}

func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }
func Debug(msg string, args ...any) { slog.Debug(msg, args...) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// maskEmails keeps member addresses out of log files: "email" attributes
// keep their first letter and domain.
func maskEmails(_ []string, a slog.Attr) slog.Attr {
	if a.Key != "email" || a.Value.Kind() != slog.KindString {
		return a
	}
	return slog.String(a.Key, MaskEmail(a.Value.String()))
}

func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
