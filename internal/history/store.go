package history

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// SettingsKey is where the message list lives inside the settings file
const SettingsKey = "astrelium.chat_history"

// Store loads and saves the message list
type Store interface {
	Load() ([]ChatMessage, error)
	Save(msgs []ChatMessage) error
}

// FileStore persists history in a JSON settings file through viper;
// other keys in the file are preserved on save
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store backed by path
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Path returns the settings file location
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the stored messages; a missing file yields an empty history
func (s *FileStore) Load() ([]ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.read()
	if err != nil {
		return nil, err
	}

	var msgs []ChatMessage
	if err := v.UnmarshalKey(SettingsKey, &msgs); err != nil {
		return nil, fmt.Errorf("failed to decode chat history: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("Loaded chat history", "path", s.path, "messages", len(msgs))
	}
	return msgs, nil
}

// Save replaces the stored messages
func (s *FileStore) Save(msgs []ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.read()
	if err != nil {
		return err
	}

	if msgs == nil {
		msgs = []ChatMessage{}
	}
	v.Set(SettingsKey, msgs)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write chat history: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("Saved chat history", "path", s.path, "messages", len(msgs))
	}
	return nil
}

func (s *FileStore) read() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("failed to read chat history %s: %w", s.path, err)
	}
	return v, nil
}

// MemoryStore keeps history in memory; used when persistence is off and in tests
type MemoryStore struct {
	mu    sync.Mutex
	msgs  []ChatMessage
	Saves int
	Err   error
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Load() ([]ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatMessage(nil), s.msgs...), s.Err
}

func (s *MemoryStore) Save(msgs []ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.msgs = append([]ChatMessage(nil), msgs...)
	s.Saves++
	return nil
}
