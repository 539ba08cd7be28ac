// Package xlog is a thin leveled wrapper around the standard log package,
// used the same way cmd/server and tinysql.go reach for stdlib log: a
// prefixed *log.Logger, no third-party logging dependency.
package xlog

import (
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
)

// Level identifies a log severity, ordered least to most severe.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger wraps a standard library logger, adding a severity level and an
// optional trace id so a multi-line render or scan trace can be grepped as
// one unit.
type Logger struct {
	l       *log.Logger
	min     Level
	traceID string
}

// New creates a Logger writing to out with the given minimum level; lines
// below min are dropped.
func New(out io.Writer, min Level) *Logger {
	return &Logger{l: log.New(out, "", log.LstdFlags), min: min}
}

// With returns a copy of the logger annotated with traceID, so every line
// logged through it can be correlated back to one render pass or scan.
func (lg *Logger) With(traceID uuid.UUID) *Logger {
	cp := *lg
	cp.traceID = traceID.String()
	return &cp
}

func (lg *Logger) log(level Level, msg string) {
	if level < lg.min {
		return
	}
	if lg.traceID != "" {
		lg.l.Printf("[%s] [%s] %s", level, lg.traceID, msg)
		return
	}
	lg.l.Printf("[%s] %s", level, msg)
}

func (lg *Logger) Debug(format string, args ...any) { lg.log(Debug, fmt.Sprintf(format, args...)) }
func (lg *Logger) Info(format string, args ...any)  { lg.log(Info, fmt.Sprintf(format, args...)) }
func (lg *Logger) Warn(format string, args ...any)  { lg.log(Warn, fmt.Sprintf(format, args...)) }
func (lg *Logger) Error(format string, args ...any) { lg.log(Error, fmt.Sprintf(format, args...)) }
