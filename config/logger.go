package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const serviceName = "heartpredict"

var Logger *slog.Logger

// LogOptions controls the JSON logger built by NewLogger.
type LogOptions struct {
	Level      slog.Level
	Production bool
}

// LogOptionsFromEnv reads ENV and LOG_LEVEL. An unparsable level falls back
// to info.
func LogOptionsFromEnv() LogOptions {
	opts := LogOptions{Level: slog.LevelInfo, Production: os.Getenv("ENV") == "production"}
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(raw)); err == nil {
			opts.Level = lvl
		}
	}
	return opts
}

func InitLogger() {
	opts := LogOptionsFromEnv()
	Logger = NewLogger(os.Stdout, opts)
	slog.SetDefault(Logger)

	slog.Info("Logger initialized", "level", opts.Level.String(), "production", opts.Production)
}

// NewLogger builds a JSON logger tagged with the service name. Outside
// production every entry also carries its call site and a local timestamp.
func NewLogger(w io.Writer, opts LogOptions) *slog.Logger {
	ho := &slog.HandlerOptions{Level: opts.Level}
	if !opts.Production {
		ho.AddSource = true
		ho.ReplaceAttr = developmentAttr
	}
	return slog.New(slog.NewJSONHandler(w, ho)).With("service", serviceName)
}

func developmentAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		return slog.String(slog.TimeKey, a.Value.Time().Local().Format("2006-01-02 15:04:05"))
	case slog.SourceKey:
		if src, ok := a.Value.Any().(*slog.Source); ok {
			return slog.String(slog.SourceKey, filepath.Base(src.File)+":"+strconv.Itoa(src.Line))
		}
	}
	return a
}
