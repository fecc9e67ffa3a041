// Package settings persists the user's profile, premium flag and daily
// usage between runs.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/sant0-9/daptalk/internal/style"
	"github.com/sant0-9/daptalk/internal/usage"
)

// Settings is the on-disk document
type Settings struct {
	Profile ProfileSettings `yaml:"profile"`
	Premium bool            `yaml:"premium"`
	Usage   UsageSettings   `yaml:"usage"`
}

type ProfileSettings struct {
	Gender string `yaml:"gender"`
	Age    string `yaml:"age"`
}

type UsageSettings struct {
	Date  string `yaml:"date"`
	Count int    `yaml:"count"`
}

// Store reads and writes settings.yaml. Writes go through the whole
// document so profile and usage updates never clobber each other.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ usage.Store = (*Store)(nil)

// NewStore uses path as the settings file
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is settings.yaml inside dir
func DefaultPath(dir string) string {
	return filepath.Join(dir, "settings.yaml")
}

func (s *Store) Path() string {
	return s.path
}

// Load returns zero settings when the file does not exist yet
func (s *Store) Load() (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, err
	}

	var st Settings
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return &st, nil
}

// Save writes st, creating the directory if needed
func (s *Store) Save(st *Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(st)
}

func (s *Store) save(st *Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}

func (s *Store) update(fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	fn(st)
	return s.save(st)
}

// LoadProfile returns the saved gender and age group
func (s *Store) LoadProfile() (style.Profile, error) {
	st, err := s.Load()
	if err != nil {
		return style.Profile{}, err
	}
	return style.Profile{
		Gender:   st.Profile.Gender,
		AgeGroup: style.NormalizeAge(st.Profile.Age),
	}, nil
}

// SaveProfile stores gender and age group. The opponent's gender is per
// conversation and is not persisted.
func (s *Store) SaveProfile(p style.Profile) error {
	return s.update(func(st *Settings) {
		st.Profile.Gender = p.Gender
		st.Profile.Age = p.AgeGroup
	})
}

// LoadUsage implements usage.Store
func (s *Store) LoadUsage() (usage.State, error) {
	st, err := s.Load()
	if err != nil {
		return usage.State{}, err
	}
	return usage.State{
		Date:    st.Usage.Date,
		Count:   st.Usage.Count,
		Premium: st.Premium,
	}, nil
}

// SaveUsage implements usage.Store
func (s *Store) SaveUsage(u usage.State) error {
	return s.update(func(st *Settings) {
		st.Usage.Date = u.Date
		st.Usage.Count = u.Count
		st.Premium = u.Premium
	})
}
