// Package history keeps the bounded chat log and persists it between runs.
package history

import "time"

// DefaultCapacity is the number of messages kept
const DefaultCapacity = 50

// Role of a chat message author
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the three known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// ChatMessage is one persisted history entry; Timestamp is unix milliseconds
type ChatMessage struct {
	Role      Role   `json:"role" mapstructure:"role"`
	Content   string `json:"content" mapstructure:"content"`
	Timestamp int64  `json:"timestamp" mapstructure:"timestamp"`
}

// NewMessage stamps a message with the current time
func NewMessage(role Role, content string) ChatMessage {
	return ChatMessage{Role: role, Content: content, Timestamp: time.Now().UnixMilli()}
}

// Time converts Timestamp back to a time.Time
func (m ChatMessage) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// Buffer is a fixed-capacity ring of messages; the oldest entry is
// overwritten once full. It is not safe for concurrent use.
type Buffer struct {
	items []ChatMessage
	start int
	size  int
}

// NewBuffer creates a ring; capacity < 1 means DefaultCapacity
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Buffer{items: make([]ChatMessage, capacity)}
}

// Append adds msg, evicting the oldest entry when full
func (b *Buffer) Append(msg ChatMessage) {
	capacity := len(b.items)
	if b.size < capacity {
		b.items[(b.start+b.size)%capacity] = msg
		b.size++
		return
	}
	b.items[b.start] = msg
	b.start = (b.start + 1) % capacity
}

// Messages returns a copy, oldest first
func (b *Buffer) Messages() []ChatMessage {
	out := make([]ChatMessage, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.start+i)%len(b.items)]
	}
	return out
}

// Replace clears the ring and appends msgs; only the newest Cap() survive
func (b *Buffer) Replace(msgs []ChatMessage) {
	b.Clear()
	if len(msgs) > len(b.items) {
		msgs = msgs[len(msgs)-len(b.items):]
	}
	for _, m := range msgs {
		b.Append(m)
	}
}

// Clear drops every message
func (b *Buffer) Clear() {
	for i := range b.items {
		b.items[i] = ChatMessage{}
	}
	b.start = 0
	b.size = 0
}

func (b *Buffer) Len() int {
	return b.size
}

func (b *Buffer) Cap() int {
	return len(b.items)
}
