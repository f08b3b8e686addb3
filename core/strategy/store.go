// Package strategy stores bypass strategies, converts legacy batch scripts into them
// and expands their argument templates.
package strategy

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/fsrepo"
)

// ErrNotFound is returned when a strategy file does not exist.
var ErrNotFound = errors.New("strategy not found")

// Store keeps one template file per strategy under the strategies directory.
// A strategy is identified by its file name without the extension.
type Store struct {
	repo fsrepo.Repo
	sink debuglog.Sink
}

func NewStore(repo fsrepo.Repo, sink debuglog.Sink) *Store {
	if sink == nil {
		sink = debuglog.Discard
	}
	return &Store{repo: repo, sink: sink}
}

func fileName(name string) string {
	return name + constants.StrategyExtension
}

func rel(name string) string {
	return filepath.Join(constants.StrategiesDirName, fileName(name))
}

func validName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid strategy name %q", name)
	}
	return nil
}

// List returns strategy names in filesystem order. A missing directory yields nothing.
func (s *Store) List() []string {
	files, err := s.repo.List(constants.StrategiesDirName)
	if err != nil {
		if !fsrepo.IsNotExist(err) {
			debuglog.WarnLog("Store.List: %v", err)
		}
		return []string{}
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if stem, ok := strings.CutSuffix(f, constants.StrategyExtension); ok && stem != "" {
			names = append(names, stem)
		}
	}
	return names
}

// Read returns the raw template of a strategy.
func (s *Store) Read(name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	data, err := s.repo.Read(rel(name))
	if err != nil {
		if fsrepo.IsNotExist(err) {
			return "", fmt.Errorf("Read %s: %w", name, ErrNotFound)
		}
		return "", fmt.Errorf("Read %s: %w", name, err)
	}
	return string(data), nil
}

// Write overwrites the template of a strategy, creating the directory when needed.
func (s *Store) Write(name, content string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := s.repo.Write(rel(name), []byte(content)); err != nil {
		return fmt.Errorf("Write %s: %w", name, err)
	}
	debuglog.DebugLog("Store.Write: %s (%d bytes)", name, len(content))
	return nil
}

// Exists reports whether a strategy file is present.
func (s *Store) Exists(name string) bool {
	return validName(name) == nil && s.repo.Exists(rel(name))
}

// Path returns the absolute path of a strategy file.
func (s *Store) Path(name string) string {
	return s.repo.Abs(rel(name))
}

// Dir returns the absolute strategies directory.
func (s *Store) Dir() string {
	return s.repo.Abs(constants.StrategiesDirName)
}

// IndexOf returns the 1-based position of name in the current listing, or 0.
func (s *Store) IndexOf(name string) int {
	for i, n := range s.List() {
		if n == name {
			return i + 1
		}
	}
	return 0
}
