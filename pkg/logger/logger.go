package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Level уровень логирования
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger файловый логгер с уровнями и printf-форматированием
// Пишет одновременно в файл и stdout
type Logger struct {
	level Level
	out   *log.Logger
	file  *os.File
}

// New создает логгер, пишущий в указанный файл
// Директория создается при необходимости; level - минимальный уровень ("debug", "info", "warn", "error")
func New(filePath string, level string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("logger: create log dir: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logger: open log file: %w", err)
	}

	return &Logger{
		level: parseLevel(level),
		out:   log.New(io.MultiWriter(os.Stdout, file), "", log.LstdFlags),
		file:  file,
	}, nil
}

func parseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) log(level Level, prefix, format string, v ...interface{}) {
	if level < l.level {
		return
	}
	l.out.Printf(prefix+" "+format, v...)
}

// Debug пишет отладочное сообщение
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(LevelDebug, "[DEBUG]", format, v...)
}

// Info пишет информационное сообщение
func (l *Logger) Info(format string, v ...interface{}) {
	l.log(LevelInfo, "[INFO]", format, v...)
}

// Warn пишет предупреждение
func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(LevelWarn, "[WARN]", format, v...)
}

// Error пишет сообщение об ошибке
func (l *Logger) Error(format string, v ...interface{}) {
	l.log(LevelError, "[ERROR]", format, v...)
}

// Fatal пишет сообщение об ошибке и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.log(LevelError, "[FATAL]", format, v...)
	l.Close()
	os.Exit(1)
}

// Close закрывает файл лога
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
