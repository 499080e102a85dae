package main

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level. Every line carries the
// run id so that several runs appending to one file can be told apart.
func newLogger(w io.Writer, level log.Level, run string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	}).With("run", run)
}

// stopwatch logs how long an operation took.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func newStopwatch(l *log.Logger) *stopwatch {
	if l == nil {
		l = log.New(io.Discard)
	}
	return &stopwatch{logger: l, start: time.Now()}
}

func (p *stopwatch) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))...)
}
