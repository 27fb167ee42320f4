// Package dlog is the structured logging backbone used across delver: a
// small Logger with Error/Warning/Notice/Info/Debug/Trace methods, backed
// by zap. Messages are printf-style formatted strings; the structured
// field each entry carries is its logger's "target". Named loggers are tagged with a stable "target" field
// (pdf_text_object, pdf_parse, pdf_fonts, matcher_operations,
// template_match) so log output can be filtered by subsystem.
package dlog

import (
	"sync"

	"go.uber.org/zap"
)

// Logger mirrors common.Logger's method shape against a zap-backed
// implementation.
type Logger struct {
	sugar *zap.SugaredLogger
}

var (
	base     *zap.Logger
	baseOnce sync.Once
)

func baseLogger() *zap.Logger {
	baseOnce.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		base = l
	})
	return base
}

// SetBase overrides the process-wide zap logger (for callers that want
// custom sinks/levels); must be called before the first Named call to take
// effect everywhere.
func SetBase(l *zap.Logger) {
	baseOnce.Do(func() {})
	base = l
}

// Named returns a Logger tagged with a static "target" field, so each
// subsystem's diagnostics can be filtered independently.
func Named(target string) *Logger {
	return &Logger{sugar: baseLogger().With(zap.String("target", target)).Sugar()}
}

func (l *Logger) Error(format string, args ...interface{})   { l.sugar.Errorf(format, args...) }
func (l *Logger) Warning(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }
func (l *Logger) Notice(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Info(format string, args ...interface{})    { l.sugar.Infof(format, args...) }
func (l *Logger) Debug(format string, args ...interface{})   { l.sugar.Debugf(format, args...) }
func (l *Logger) Trace(format string, args ...interface{})   { l.sugar.Debugf(format, args...) }
