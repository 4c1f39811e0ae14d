package identity

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/sportsin/insport-client/internal/sportsin"
)

// NewStore creates a profile store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the saved profile. Returns ErrNoProfile when the file does
// not exist yet.
func (s *Store) Load() (Profile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Profile{}, ErrNoProfile
		}
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	return p, nil
}

// Save writes the profile, assigning a client id on first save.
func (s *Store) Save(p Profile) (Profile, error) {
	if p.ClientID == "" {
		p.ClientID = uuid.New().String()
	}

	data, err := msgpack.Marshal(p)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to encode profile: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Profile{}, fmt.Errorf("failed to create profile directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return Profile{}, fmt.Errorf("failed to write profile: %w", err)
	}
	return p, nil
}

// SetTeam records the selected team on the profile and saves it.
func (s *Store) SetTeam(team sportsin.TeamRef) (Profile, error) {
	p, err := s.Load()
	if err != nil && !errors.Is(err, ErrNoProfile) {
		return Profile{}, err
	}

	p.TeamID = team.ID
	p.TeamName = team.Name
	p.TeamColor = team.Color
	return s.Save(p)
}

// Team returns the profile's team as an embedded reference, or nil
// when no team is selected.
func (p Profile) Team() *sportsin.TeamRef {
	if !p.HasTeam() {
		return nil
	}
	return &sportsin.TeamRef{ID: p.TeamID, Name: p.TeamName, Color: p.TeamColor}
}
