// Package misslog reports recoverable lookup misses once per distinct key.
package misslog

import (
	"sync"

	"go.uber.org/zap"
)

// Log remembers which keys have already been reported.
type Log struct {
	logger func() *zap.Logger
	seen   map[string]struct{}
	msg    string
	mu     sync.Mutex
}

// New creates a Log that writes msg at warn level through logger. The logger
// is looked up on every report so a later SetLogger takes effect.
func New(msg string, logger func() *zap.Logger) *Log {
	return &Log{
		logger: logger,
		seen:   make(map[string]struct{}),
		msg:    msg,
	}
}

// Report logs the miss for key unless it was reported before. It returns
// true when this call produced the log entry.
func (l *Log) Report(key string, fields ...zap.Field) bool {
	l.mu.Lock()
	if _, ok := l.seen[key]; ok {
		l.mu.Unlock()
		return false
	}
	l.seen[key] = struct{}{}
	l.mu.Unlock()

	l.logger().Warn(l.msg, append([]zap.Field{zap.String("key", key)}, fields...)...)
	return true
}

// Seen reports whether key has been reported.
func (l *Log) Seen(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[key]
	return ok
}
