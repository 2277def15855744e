package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(i int) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: fmt.Sprintf("m%d", i), Timestamp: int64(i)}
}

func contents(msgs []ChatMessage) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}

func TestBuffer(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		appended int
		expected []string
	}{
		{"empty", 3, 0, []string{}},
		{"partial", 3, 2, []string{"m0", "m1"}},
		{"exactly full", 3, 3, []string{"m0", "m1", "m2"}},
		{"wrapped once", 3, 4, []string{"m1", "m2", "m3"}},
		{"wrapped many times", 3, 10, []string{"m7", "m8", "m9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.capacity)
			for i := 0; i < tt.appended; i++ {
				b.Append(msg(i))
			}
			assert.Equal(t, tt.expected, contents(b.Messages()))
			assert.Equal(t, len(tt.expected), b.Len())
			assert.Equal(t, tt.capacity, b.Cap())
		})
	}
}

func TestBuffer_DefaultCapacity(t *testing.T) {
	b := NewBuffer(0)
	for i := 0; i < 51; i++ {
		b.Append(msg(i))
	}

	msgs := b.Messages()
	require.Len(t, msgs, DefaultCapacity)
	assert.Equal(t, "m1", msgs[0].Content)
	assert.Equal(t, "m50", msgs[49].Content)
}

func TestBuffer_ReplaceKeepsNewest(t *testing.T) {
	b := NewBuffer(2)
	b.Append(msg(99))
	b.Replace([]ChatMessage{msg(0), msg(1), msg(2)})

	assert.Equal(t, []string{"m1", "m2"}, contents(b.Messages()))
}

func TestBuffer_Clear(t *testing.T) {
	b := NewBuffer(2)
	b.Append(msg(0))
	b.Append(msg(1))
	b.Append(msg(2))
	b.Clear()

	assert.Equal(t, 0, b.Len())
	b.Append(msg(3))
	assert.Equal(t, []string{"m3"}, contents(b.Messages()))
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.True(t, RoleSystem.Valid())
	assert.False(t, Role("tool").Valid())
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "settings.json")
	store := NewFileStore(path, nil)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	saved := []ChatMessage{
		{Role: RoleUser, Content: "hello", Timestamp: 1700000000000},
		{Role: RoleAssistant, Content: "hi\n```go\nfmt.Println()\n```", Timestamp: 1700000000500},
	}
	require.NoError(t, store.Save(saved))

	loaded, err = NewFileStore(path, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestFileStore_PreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"editor": {"font_size": 14}}`), 0o644))

	store := NewFileStore(path, nil)
	require.NoError(t, store.Save([]ChatMessage{msg(1)}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "font_size")
	assert.Contains(t, string(data), "chat_history")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := NewFileStore(path, nil).Load()
	assert.Error(t, err)
}

func TestLog_PersistsEveryChange(t *testing.T) {
	store := &MemoryStore{}
	l := NewLog(2, store, nil)

	l.Add(RoleUser, "a")
	l.Add(RoleAssistant, "b")
	l.Add(RoleUser, "c")

	assert.Equal(t, 3, store.Saves)
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, contents(saved))
	assert.NotZero(t, saved[0].Timestamp)

	l.Clear()
	saved, _ = store.Load()
	assert.Empty(t, saved)
	assert.Equal(t, 0, l.Len())
}

func TestLog_Restore(t *testing.T) {
	store := &MemoryStore{}
	require.NoError(t, store.Save([]ChatMessage{msg(0), msg(1), msg(2)}))

	l := NewLog(2, store, nil)
	require.NoError(t, l.Restore())
	assert.Equal(t, []string{"m1", "m2"}, contents(l.Messages()))
}

func TestLog_SaveErrorIsSwallowed(t *testing.T) {
	store := &MemoryStore{Err: errors.New("disk full")}
	l := NewLog(5, store, nil)

	l.Add(RoleUser, "still recorded")
	assert.Equal(t, []string{"still recorded"}, contents(l.Messages()))
	assert.Error(t, l.Restore())
}

func TestLog_Import(t *testing.T) {
	l := NewLog(5, nil, nil)
	l.Import([]ChatMessage{{Role: RoleUser, Content: "q"}, msg(7)})

	msgs := l.Messages()
	require.Len(t, msgs, 2)
	assert.NotZero(t, msgs[0].Timestamp)
	assert.Equal(t, int64(7), msgs[1].Timestamp)
}
