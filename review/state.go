// Package review walks the open lists in a guided weekly review: inbox
// triage, overdue check, upcoming deadlines, someday scan. Progress is
// saved after every item so an interrupted review can resume.
package review

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gopkg.in/yaml.v3"
)

// Stage names one step of the review.
type Stage string

const (
	StageInbox    Stage = "inbox"
	StageOverdue  Stage = "overdue"
	StageUpcoming Stage = "upcoming"
	StageSomeday  Stage = "someday"
	StageDone     Stage = "done"
)

// stageOrder is the sequence a review runs through.
var stageOrder = []Stage{StageInbox, StageOverdue, StageUpcoming, StageSomeday}

// Session is the persisted state of one review run.
type Session struct {
	ID        string         `yaml:"id"`
	StartedAt time.Time      `yaml:"started_at"`
	UpdatedAt time.Time      `yaml:"updated_at"`
	Stage     Stage          `yaml:"stage"`
	Position  int            `yaml:"position"`
	Reviewed  int            `yaml:"reviewed"`
	Actions   map[string]int `yaml:"actions"`
}

// NewSession starts a fresh session at the first stage.
func NewSession(now time.Time) *Session {
	return &Session{
		ID:        generateSessionID(),
		StartedAt: now,
		UpdatedAt: now,
		Stage:     stageOrder[0],
		Actions:   make(map[string]int),
	}
}

func generateSessionID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	id, err := gonanoid.Generate(alphabet, 6)
	if err != nil {
		return "review"
	}
	return id
}

// Store persists a session as YAML at a fixed path.
type Store struct {
	path string
}

// NewStore builds a Store writing to the given file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the saved session. A missing file returns (nil, nil).
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read review state: %w", err)
	}
	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse review state: %w", err)
	}
	if sess.Actions == nil {
		sess.Actions = make(map[string]int)
	}
	return &sess, nil
}

// Save writes the session, creating the state directory if needed.
func (s *Store) Save(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode review state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write review state: %w", err)
	}
	return nil
}

// Clear removes the saved session. Clearing an absent file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
