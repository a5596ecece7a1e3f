package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// FileLogger appends timestamped messages to a per-target log file, so a
// running instance's output can be inspected later with `bb log`.
// Debug messages are written only when BB_DEBUG is set.
type FileLogger struct {
	mu     sync.Mutex
	prefix string
	out    *log.Logger
	file   *os.File
}

// NewFileLogger opens (creating if needed) the log file at path for appending.
// The parent directory is created if it does not exist.
func NewFileLogger(path, prefix string) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &FileLogger{
		prefix: prefix,
		out:    log.New(f, "", log.LstdFlags),
		file:   f,
	}, nil
}

func (l *FileLogger) Debug(format string, args ...interface{}) {
	if os.Getenv("BB_DEBUG") == "" {
		return
	}
	l.write("", format, args...)
}

func (l *FileLogger) Info(format string, args ...interface{}) {
	l.write("", format, args...)
}

func (l *FileLogger) Warn(format string, args ...interface{}) {
	l.write("WARN: ", format, args...)
}

func (l *FileLogger) Error(format string, args ...interface{}) {
	l.write("ERROR: ", format, args...)
}

func (l *FileLogger) write(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Printf(l.prefix+" "+level+format, args...)
}

// WithPrefix returns a Logger sharing this file but tagged with a different
// prefix. Monitors each get their own prefix while writing to one file.
func (l *FileLogger) WithPrefix(prefix string) Logger {
	return &FileLogger{
		prefix: prefix,
		out:    l.out,
		file:   l.file,
	}
}

// Close closes the underlying log file.
func (l *FileLogger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
