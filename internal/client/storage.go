package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"baseline_academy/internal/domain/model"
)

// Session is the persisted token and user pair.
type Session struct {
	Token string            `json:"token,omitempty"`
	User  *model.PublicUser `json:"user,omitempty"`
}

// Complete reports whether both halves of the pair are present.
func (s Session) Complete() bool {
	return s.Token != "" && s.User != nil
}

// Storage persists a Session. Load returns an empty Session when nothing
// complete has been stored.
type Storage interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// DefaultSessionPath is $XDG_STATE_HOME/baseline-academy/session.json,
// falling back to ~/.local/state.
func DefaultSessionPath() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "baseline-academy", "session.json"), nil
}

type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Load() (Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil || !sess.Complete() {
		return Session{}, nil
	}
	return sess, nil
}

// Save writes the pair to a temp file and renames it over the old one.
func (s *FileStorage) Save(sess Session) error {
	if !sess.Complete() {
		return errors.New("refusing to store an incomplete session")
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set session permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace session: %w", err)
	}
	return nil
}

func (s *FileStorage) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

type MemoryStorage struct {
	mu   sync.Mutex
	sess Session
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Load() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sess.Complete() {
		return Session{}, nil
	}
	return copySession(s.sess), nil
}

func (s *MemoryStorage) Save(sess Session) error {
	if !sess.Complete() {
		return errors.New("refusing to store an incomplete session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = copySession(sess)
	return nil
}

func (s *MemoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = Session{}
	return nil
}

func copySession(sess Session) Session {
	out := Session{Token: sess.Token}
	if sess.User != nil {
		u := *sess.User
		out.User = &u
	}
	return out
}
