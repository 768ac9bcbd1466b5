// Package logging implements the logger for the owpib CLI.
package logging

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/wehagy/owpib/internal/style"
)

const timeFmt = "2006/01/02 15:04:05.000000"

// Logger defines behavior required by the owpib components.
type Logger interface {
	Debug(msg string)
	Debugf(fmt string, v ...interface{})

	Info(msg string)
	Infof(fmt string, v ...interface{})

	Warn(msg string)
	Warnf(fmt string, v ...interface{})

	Error(msg string)
	Errorf(fmt string, v ...interface{})

	Writer() io.Writer
	IsVerbose() bool
}

// LogWithWriters is a logger used with the owpib CLI.
type LogWithWriters struct {
	sync.Mutex
	log.Logger
	wantTime bool
	clock    func() time.Time
	out      io.Writer
	errOut   io.Writer
}

// NewLogWithWriters creates a logger to be used with the owpib CLI.
func NewLogWithWriters(stdout, stderr io.Writer, opts ...func(*LogWithWriters)) *LogWithWriters {
	lw := &LogWithWriters{
		Logger: log.Logger{
			Level: log.InfoLevel,
		},
		clock:  time.Now,
		out:    stdout,
		errOut: stderr,
	}
	lw.Logger.Handler = lw

	for _, opt := range opts {
		opt(lw)
	}

	return lw
}

// WithClock is an option used to initialize a LogWithWriters with a given clock function.
func WithClock(clock func() time.Time) func(*LogWithWriters) {
	return func(logger *LogWithWriters) {
		logger.clock = clock
	}
}

// WithVerbose is an option used to initialize a LogWithWriters with verbose logging.
func WithVerbose() func(*LogWithWriters) {
	return func(logger *LogWithWriters) {
		logger.Level = log.DebugLevel
	}
}

// HandleLog handles log events, printing entries appropriately.
func (lw *LogWithWriters) HandleLog(e *log.Entry) error {
	lw.Lock()
	defer lw.Unlock()

	writer := lw.writerForLevel(e.Level)

	prefix := ""
	if lw.wantTime {
		prefix = fmt.Sprintf("%s ", lw.clock().Format(timeFmt))
	}

	_, err := fmt.Fprintf(writer, "%s%s%s\n", prefix, formatLevel(e.Level), e.Message)
	return err
}

// Writer returns the base writer used by the logger.
func (lw *LogWithWriters) Writer() io.Writer {
	return lw.out
}

// WantTime turns timestamps in log output on or off.
func (lw *LogWithWriters) WantTime(f bool) {
	lw.wantTime = f
}

// WantQuiet reduces the logging level if set to true.
func (lw *LogWithWriters) WantQuiet(f bool) {
	if f {
		lw.Level = log.WarnLevel
	}
}

// WantVerbose increases the logging level if set to true.
func (lw *LogWithWriters) WantVerbose(f bool) {
	if f {
		lw.Level = log.DebugLevel
	}
}

// IsVerbose returns whether verbose logging is on.
func (lw *LogWithWriters) IsVerbose() bool {
	return lw.Level == log.DebugLevel
}

func (lw *LogWithWriters) writerForLevel(level log.Level) io.Writer {
	if level >= log.ErrorLevel {
		return lw.errOut
	}
	return lw.out
}

func formatLevel(ll log.Level) string {
	switch ll {
	case log.ErrorLevel:
		return style.Error("ERROR: ")
	case log.WarnLevel:
		return style.Warn("Warning: ")
	}
	return ""
}
