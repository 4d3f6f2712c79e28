package session

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/2beens/fittrack/pkg"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

// FileStore holds the single session of a CLI user. The file is read once by
// Open and written once by Close; in between all work happens in memory.
type FileStore struct {
	path string

	mu      sync.Mutex
	current *Session
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
	}
}

// Open loads the session file, if there is one.
func (fs *FileStore) Open() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	exists, err := pkg.PathExists(fs.path, false)
	if err != nil {
		return fmt.Errorf("check session file: %w", err)
	}
	if !exists {
		log.Debugf("no session file at %s", fs.path)
		fs.current = nil
		return nil
	}

	s := &Session{}
	if _, err := toml.DecodeFile(fs.path, s); err != nil {
		return fmt.Errorf("decode session file %s: %w", fs.path, err)
	}
	if s.ID == "" {
		fs.current = nil
		return nil
	}
	fs.current = s
	return nil
}

// Close writes the current session back, or removes the file when there is
// no session left.
func (fs *FileStore) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.current == nil {
		if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove session file: %w", err)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(fs.current); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(fs.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Current returns the in-memory session, nil when there is none.
func (fs *FileStore) Current() *Session {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.current
}

func (fs *FileStore) Save(_ context.Context, s *Session) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.current = s
	return nil
}

func (fs *FileStore) Load(_ context.Context, id string) (*Session, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.current == nil || fs.current.ID != id {
		return nil, ErrNotFound
	}
	return fs.current, nil
}

func (fs *FileStore) Delete(_ context.Context, id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.current != nil && fs.current.ID == id {
		fs.current = nil
	}
	return nil
}
