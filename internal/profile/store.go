package profile

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

//go:embed data/*.json
var profileFS embed.FS

var ErrNoProfiles = errors.New("profile list is empty")

// EmbeddedStore serves the bundled sample profiles.
type EmbeddedStore struct {
	once     sync.Once
	profiles []Profile
	err      error
}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{}
}

func (s *EmbeddedStore) init() {
	raw, err := profileFS.ReadFile("data/profiles.json")
	if err != nil {
		s.err = fmt.Errorf("read embedded profiles: %w", err)
		return
	}
	s.profiles, s.err = parse(raw)
}

func (s *EmbeddedStore) List(_ context.Context) ([]Profile, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return nil, s.err
	}
	return clone(s.profiles), nil
}

// FileStore reads profiles from a JSON file on every call, so edits show up
// on the next deck.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) List(_ context.Context) ([]Profile, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read profiles %s: %w", s.path, err)
	}
	return parse(raw)
}

func parse(raw []byte) ([]Profile, error) {
	var ps []Profile
	if err := json.Unmarshal(raw, &ps); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	if len(ps) == 0 {
		return nil, ErrNoProfiles
	}
	return ps, nil
}

func clone(ps []Profile) []Profile {
	out := make([]Profile, len(ps))
	copy(out, ps)
	return out
}
