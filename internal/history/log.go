package history

import (
	"log/slog"
	"sync"
)

// Log is a ring buffer that writes through to a Store on every change.
// Persistence failures are logged and never surface to the caller.
type Log struct {
	mu     sync.Mutex
	buf    *Buffer
	store  Store
	logger *slog.Logger
}

// NewLog creates a Log; a nil store keeps history in memory only
func NewLog(capacity int, store Store, logger *slog.Logger) *Log {
	return &Log{buf: NewBuffer(capacity), store: store, logger: logger}
}

// Restore loads previously saved messages, keeping the newest Cap()
func (l *Log) Restore() error {
	if l.store == nil {
		return nil
	}
	msgs, err := l.store.Load()
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Replace(msgs)
	return nil
}

// Add appends a timestamped message and persists the log
func (l *Log) Add(role Role, content string) ChatMessage {
	msg := NewMessage(role, content)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Append(msg)
	l.persist()
	return msg
}

// Import appends already-stamped messages, e.g. from a transcript file
func (l *Log) Import(msgs []ChatMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range msgs {
		if m.Timestamp == 0 {
			m = NewMessage(m.Role, m.Content)
		}
		l.buf.Append(m)
	}
	l.persist()
}

// Messages returns the current history, oldest first
func (l *Log) Messages() []ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Messages()
}

// Clear empties the log and the persisted copy
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Clear()
	l.persist()
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Len()
}

// persist must be called with mu held
func (l *Log) persist() {
	if l.store == nil {
		return
	}
	if err := l.store.Save(l.buf.Messages()); err != nil && l.logger != nil {
		l.logger.Warn("Failed to save chat history", "error", err)
	}
}
