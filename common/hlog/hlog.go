package hlog

import (
	"io"
	"log"
	"os"
)

// 提供默认记录器供使用。
var logger FullLogger = &defaultLogger{
	std:   log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile|log.Lmicroseconds),
	depth: 4,
}

// SetOutput 设置默认记录器的写入器。默认为 os.Stderr。
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLevel 设置日志的输出级别，低于该级别将不输出。默认级别为 LevelTrace。并发不安全。
func SetLevel(lv Level) {
	logger.SetLevel(lv)
}

// DefaultLogger 返回默认记录器。
func DefaultLogger() FullLogger {
	return logger
}

// SetLogger 设置默认记录器。并发不安全，在使用 DefaultLogger 或全局函数后不得调用。
func SetLogger(v FullLogger) {
	logger = v
}

// Trace 调用默认记录器的 Trace 方法。
func Trace(v ...any) {
	logger.Trace(v...)
}

// Debug 调用默认记录器的 Debug 方法。
func Debug(v ...any) {
	logger.Debug(v...)
}

// Info 调用默认记录器的 Info 方法。
func Info(v ...any) {
	logger.Info(v...)
}

// Warn 调用默认记录器的 Warn 方法。
func Warn(v ...any) {
	logger.Warn(v...)
}

// Error 调用默认记录器的 Error 方法。
func Error(v ...any) {
	logger.Error(v...)
}

// Fatal 调用默认记录器的 Fatal 方法，然后 os.Exit(1)。
func Fatal(v ...any) {
	logger.Fatal(v...)
}

// Tracef 调用默认记录器的 Tracef 方法。
func Tracef(format string, v ...any) {
	logger.Tracef(format, v...)
}

// Debugf 调用默认记录器的 Debugf 方法。
func Debugf(format string, v ...any) {
	logger.Debugf(format, v...)
}

// Infof 调用默认记录器的 Infof 方法。
func Infof(format string, v ...any) {
	logger.Infof(format, v...)
}

// Warnf 调用默认记录器的 Warnf 方法。
func Warnf(format string, v ...any) {
	logger.Warnf(format, v...)
}

// Errorf 调用默认记录器的 Errorf 方法。
func Errorf(format string, v ...any) {
	logger.Errorf(format, v...)
}

// Fatalf 调用默认记录器的 Fatalf 方法，然后 os.Exit(1)。
func Fatalf(format string, v ...any) {
	logger.Fatalf(format, v...)
}
