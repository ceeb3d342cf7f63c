package logger

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// BaseLogger пишет в переданный writer и дублирует в стандартный лог.
type BaseLogger struct {
	mu      sync.Mutex
	prefix  string
	writer  io.Writer
	discard bool
}

func NewLogger(writer io.Writer, prefix string) *BaseLogger {
	return &BaseLogger{
		writer: writer,
		prefix: prefix,
	}
}

// NewSilentLogger keeps the Logger contract but drops everything.
// Useful in tests that do not care about output.
func NewSilentLogger() *BaseLogger {
	return &BaseLogger{discard: true}
}

func (l *BaseLogger) Log(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.discard {
		return
	}

	message := fmt.Sprintf(l.prefix+" "+format, v...)
	if l.writer != nil {
		fmt.Fprintln(l.writer, message)
	}
	log.Print(message)
}

// WithPrefix возвращает дочерний логгер с расширенным префиксом.
func (l *BaseLogger) WithPrefix(extraPrefix string) *BaseLogger {
	return &BaseLogger{
		writer:  l.writer,
		prefix:  l.prefix + " " + extraPrefix,
		discard: l.discard,
	}
}

func (l *BaseLogger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
}
