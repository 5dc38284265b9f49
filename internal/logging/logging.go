// Package logging configures the zerolog loggers used across bistro.
//
// Loggers travel in context.Context: the CLI builds one logger per invocation with
// NewLoggerWithPath, stores it with logger.WithContext, and every package retrieves it
// with FromContext. Trace and request identifiers are ULIDs carried alongside the logger
// and stamped on events logged with .Ctx(ctx).
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Output and format names accepted in Config.
const (
	OutputStderr  = "stderr"
	OutputStdout  = "stdout"
	OutputFile    = "file"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config describes how a logger is built.
type Config struct {
	Level  string
	Format string
	Output string
	File   string
	Caller bool
}

// LogPathResult is the logger built by NewLoggerWithPath together with where it writes.
type LogPathResult struct {
	Logger         zerolog.Logger
	UsingFile      bool
	FilePath       string
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close releases the log file handle, if any.
func (r *LogPathResult) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NewLogger builds a logger writing to w.
func NewLogger(cfg Config, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	if cfg.Format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(w).Level(lvl).Hook(TraceHook{}).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// NewLoggerWithPath builds a logger from cfg. When the configured file cannot be opened
// it falls back to stderr and records why.
func NewLoggerWithPath(cfg Config) LogPathResult {
	switch cfg.Output {
	case OutputFile:
		if cfg.File == "" {
			return LogPathResult{
				Logger:         NewLogger(cfg, os.Stderr),
				FallbackUsed:   true,
				FallbackReason: "no log file configured",
			}
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
			return LogPathResult{
				Logger:         NewLogger(cfg, os.Stderr),
				FallbackUsed:   true,
				FallbackReason: err.Error(),
			}
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return LogPathResult{
				Logger:         NewLogger(cfg, os.Stderr),
				FallbackUsed:   true,
				FallbackReason: err.Error(),
			}
		}
		return LogPathResult{
			Logger:    NewLogger(cfg, f),
			UsingFile: true,
			FilePath:  cfg.File,
			file:      f,
		}
	case OutputStdout:
		return LogPathResult{Logger: NewLogger(cfg, os.Stdout)}
	default:
		return LogPathResult{Logger: NewLogger(cfg, os.Stderr)}
	}
}

// ComponentLogger returns a child logger tagged with the component name.
func ComponentLogger(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger when there is none.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		l := zerolog.Nop()
		return &l
	}
	return zerolog.Ctx(ctx)
}

// PrintLogPathMessage tells the user where the logs of this run are written.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logging to %s\n", path)
}

// PrintFallbackWarning tells the user that file logging was not possible.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: could not open log file (%s), logging to stderr\n", reason)
}
