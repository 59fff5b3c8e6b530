// Package session persists the agent sessions started for each worktree
// branch and reports whether their tmux windows are still alive. Records
// live in the git common dir so every worktree of a repository shares them.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FileName is the store's file under <git-common-dir>/ticketdash/.
const FileName = "sessions.yaml"

// Record is what the dashboard remembers about one branch.
type Record struct {
	SessionID  string    `yaml:"session_id"`
	BaseBranch string    `yaml:"base_branch,omitempty"`
	WindowID   string    `yaml:"window_id,omitempty"` // tmux window, e.g. "@12"
	Mode       string    `yaml:"mode,omitempty"`
	CreatedAt  time.Time `yaml:"created_at"`
}

// LivenessChecker returns the set of currently live tmux window IDs.
// In production this is tmux.ListWindowIDs; tests inject a stub.
type LivenessChecker func() (map[string]bool, error)

type fileFormat struct {
	Sessions map[string]Record `yaml:"sessions"`
}

// Store is a branch-keyed record store backed by a YAML file.
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	path     string
	records  map[string]Record
	liveness LivenessChecker
}

// Open loads the store at dir/FileName. A missing file is an empty store.
// If liveness is nil, no session is ever reported live.
func Open(dir string, liveness LivenessChecker) (*Store, error) {
	s := &Store{
		path:     filepath.Join(dir, FileName),
		records:  make(map[string]Record),
		liveness: liveness,
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session store: %w", err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse session store %s: %w", s.path, err)
	}
	for branch, rec := range f.Sessions {
		s.records[branch] = rec
	}
	return s, nil
}

// NewSessionID returns a fresh agent session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Get returns the record for branch.
func (s *Store) Get(branch string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[branch]
	return rec, ok
}

// BaseBranch reports the recorded base branch for branch.
func (s *Store) BaseBranch(branch string) (string, bool) {
	rec, ok := s.Get(branch)
	if !ok || rec.BaseBranch == "" {
		return "", false
	}
	return rec.BaseBranch, true
}

// Put stores rec for branch and writes the file.
func (s *Store) Put(branch string, rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[branch] = rec
	return s.saveLocked()
}

// Update applies fn to the record for branch (zero if absent) and saves.
func (s *Store) Update(branch string, fn func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[branch]
	fn(&rec)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.records[branch] = rec
	return s.saveLocked()
}

// Delete forgets branch. Deleting an unknown branch is not an error.
func (s *Store) Delete(branch string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[branch]; !ok {
		return nil
	}
	delete(s.records, branch)
	return s.saveLocked()
}

// LiveWindows returns the set of live tmux window IDs, or an empty set when
// liveness cannot be determined (e.g. not running under tmux).
func (s *Store) LiveWindows() map[string]bool {
	if s.liveness == nil {
		return map[string]bool{}
	}
	live, err := s.liveness()
	if err != nil {
		return map[string]bool{}
	}
	return live
}

// Live reports whether rec's agent window is still open.
func (s *Store) Live(rec Record) bool {
	return rec.WindowID != "" && s.LiveWindows()[rec.WindowID]
}

func (s *Store) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := yaml.Marshal(fileFormat{Sessions: s.records})
	if err != nil {
		return fmt.Errorf("encode session store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write session store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session store: %w", err)
	}
	return nil
}
