package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel maps names such as "INFO" or "warning" to a Level. Unknown
// names map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error", "critical":
		return LevelError
	default:
		return LevelInfo
	}
}

// LoggerOptions configures the process logger.
type LoggerOptions struct {
	File     string // rotated log file; empty disables file output
	Level    string
	ToStdout bool
	JSON     bool
}

// Logger writes timestamped lines to a rotating log file and, optionally,
// mirrors them to stdout.
type Logger struct {
	mu            sync.Mutex
	logger        *log.Logger
	closer        io.Closer
	console       io.Writer
	level         Level
	jsonMode      bool
	correlationID string
}

var (
	globalLogger *Logger
	globalMu     sync.Mutex
)

// InitLogger configures the process-wide logger. Calling it again replaces
// the previous logger after closing it.
func InitLogger(opts LoggerOptions) *Logger {
	var (
		sink   io.Writer = io.Discard
		closer io.Closer
	)
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		sink, closer = lj, lj
	}
	var console io.Writer
	if opts.ToStdout {
		console = os.Stdout
	}
	l := NewLogger(sink, console, opts.Level)
	l.closer = closer
	l.jsonMode = opts.JSON || os.Getenv("CODEBASEAI_JSON_LOGS") == "1"

	globalMu.Lock()
	prev := globalLogger
	globalLogger = l
	globalMu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	return l
}

// GetLogger returns the process-wide logger, creating a default one that
// writes to ./analysis.log if InitLogger has not been called.
func GetLogger() *Logger {
	globalMu.Lock()
	l := globalLogger
	globalMu.Unlock()
	if l != nil {
		return l
	}
	return InitLogger(LoggerOptions{File: "analysis.log", Level: "info"})
}

// NewLogger builds a logger over explicit writers. console may be nil.
func NewLogger(sink, console io.Writer, level string) *Logger {
	return &Logger{
		logger:        log.New(sink, "", log.LstdFlags),
		console:       console,
		level:         ParseLevel(level),
		correlationID: os.Getenv("CODEBASEAI_CORRELATION_ID"),
	}
}

// Close closes the rotating log file, if any.
func (w *Logger) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

func (w *Logger) write(level Level, message string) {
	if level < w.level {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.jsonMode {
		rec := map[string]any{"level": level.String(), "msg": message}
		if w.correlationID != "" {
			rec["cid"] = w.correlationID
		}
		_ = json.NewEncoder(w.logger.Writer()).Encode(rec)
	} else {
		w.logger.Printf("%s - %s", strings.ToUpper(level.String()), message)
	}
	if w.console != nil {
		fmt.Fprintf(w.console, "%s - %s\n", strings.ToUpper(level.String()), message)
	}
}

// Logf logs a formatted general message at info level.
func (w *Logger) Logf(format string, v ...interface{}) {
	w.write(LevelInfo, fmt.Sprintf(format, v...))
}

func (w *Logger) Debugf(format string, v ...interface{}) {
	w.write(LevelDebug, fmt.Sprintf(format, v...))
}

func (w *Logger) Warnf(format string, v ...interface{}) {
	w.write(LevelWarn, fmt.Sprintf(format, v...))
}

func (w *Logger) Errorf(format string, v ...interface{}) {
	w.write(LevelError, fmt.Sprintf(format, v...))
}
