// Package settings persists the launcher's user preferences.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/muhammadmuzzammil1998/jsonc"

	"zapret-launcher/internal/debuglog"
)

// Settings are the user preferences stored in settings.json.
type Settings struct {
	AutoStart        bool `json:"autoStart"`
	Notifications    bool `json:"notifications"`
	MinimizeToTray   bool `json:"minimizeToTray"`
	AnimationEnabled bool `json:"animationEnabled"`
	DevTools         bool `json:"devTools"`
	GameFilter       bool `json:"gameFilter"`
}

// Defaults returns the settings used when no file exists.
func Defaults() Settings {
	return Settings{
		Notifications:    true,
		MinimizeToTray:   true,
		AnimationEnabled: true,
	}
}

// Store caches the settings file in memory.
type Store struct {
	path string

	mu      sync.RWMutex
	current Settings
}

// Open loads path, falling back to defaults when it is missing or unreadable.
func Open(path string) *Store {
	s := &Store{path: path, current: Defaults()}
	loaded, err := Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			debuglog.WarnLog("settings: %v, using defaults", err)
		}
		return s
	}
	s.current = loaded
	return s
}

// Load reads path. Comments are accepted; absent keys keep their defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), err
	}
	out := Defaults()
	if err := json.Unmarshal(jsonc.ToJSON(data), &out); err != nil {
		return Defaults(), fmt.Errorf("Load %s: %w", path, err)
	}
	return out, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save writes v and makes it current.
func (s *Store) Save(v Settings) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("Save: %w", err)
	}

	s.mu.Lock()
	s.current = v
	s.mu.Unlock()
	return nil
}

// Update applies fn to a copy of the current settings and saves the result.
func (s *Store) Update(fn func(*Settings)) (Settings, error) {
	v := s.Get()
	fn(&v)
	return v, s.Save(v)
}
