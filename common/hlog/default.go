package hlog

import (
	"fmt"
	"io"
	"log"
	"os"
)

type defaultLogger struct {
	std   *log.Logger
	level Level
	depth int
}

func (l *defaultLogger) SetOutput(w io.Writer) {
	l.std.SetOutput(w)
}

func (l *defaultLogger) SetLevel(lv Level) {
	l.level = lv
}

func (l *defaultLogger) logf(lv Level, format *string, v ...any) {
	if l.level > lv {
		return
	}
	msg := lv.String()
	if format != nil {
		msg += fmt.Sprintf(*format, v...)
	} else {
		msg += fmt.Sprint(v...)
	}
	l.std.Output(l.depth, msg) //nolint:errcheck
	if lv == LevelFatal {
		os.Exit(1)
	}
}

func (l *defaultLogger) Trace(v ...any) {
	l.logf(LevelTrace, nil, v...)
}

func (l *defaultLogger) Debug(v ...any) {
	l.logf(LevelDebug, nil, v...)
}

func (l *defaultLogger) Info(v ...any) {
	l.logf(LevelInfo, nil, v...)
}

func (l *defaultLogger) Warn(v ...any) {
	l.logf(LevelWarn, nil, v...)
}

func (l *defaultLogger) Error(v ...any) {
	l.logf(LevelError, nil, v...)
}

func (l *defaultLogger) Fatal(v ...any) {
	l.logf(LevelFatal, nil, v...)
}

func (l *defaultLogger) Tracef(format string, v ...any) {
	l.logf(LevelTrace, &format, v...)
}

func (l *defaultLogger) Debugf(format string, v ...any) {
	l.logf(LevelDebug, &format, v...)
}

func (l *defaultLogger) Infof(format string, v ...any) {
	l.logf(LevelInfo, &format, v...)
}

func (l *defaultLogger) Warnf(format string, v ...any) {
	l.logf(LevelWarn, &format, v...)
}

func (l *defaultLogger) Errorf(format string, v ...any) {
	l.logf(LevelError, &format, v...)
}

func (l *defaultLogger) Fatalf(format string, v ...any) {
	l.logf(LevelFatal, &format, v...)
}
