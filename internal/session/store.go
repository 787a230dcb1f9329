package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrNoSession is returned by Store.Load when nothing is saved.
var ErrNoSession = errors.New("session: no active session")

// User is the signed-in account as reported by the API.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// State is what the client keeps between invocations.
type State struct {
	Token        string    `json:"token"`
	Role         string    `json:"role"`
	SessionStart time.Time `json:"session_start"`
	User         User      `json:"user"`
}

type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, st State) error
	Clear(ctx context.Context) error
}

// FileStore keeps the state in a JSON file readable only by its owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(_ context.Context) (*State, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", f.path, err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", f.path, err)
	}
	if st.Token == "" {
		return nil, ErrNoSession
	}

	return &st, nil
}

// Save writes through a temp file and rename, so a concurrent Load never sees
// a partial document.
func (f *FileStore) Save(_ context.Context, st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session: temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), f.path)
}

func (f *FileStore) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryStore keeps the state in process.
type MemoryStore struct {
	mu sync.Mutex
	st *State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.st == nil {
		return nil, ErrNoSession
	}
	cp := *m.st
	return &cp, nil
}

func (m *MemoryStore) Save(_ context.Context, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.st = &st
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.st = nil
	return nil
}
