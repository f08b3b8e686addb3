package strategy

import (
	"fmt"
	"path/filepath"

	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/fsrepo"
)

// Toggle exposes the current game filter state to the argument builder.
type Toggle interface {
	Enabled() bool
}

// GameFilter is persisted as the presence of a marker file, never as its content.
type GameFilter struct {
	repo fsrepo.Repo
}

func NewGameFilter(repo fsrepo.Repo) *GameFilter {
	return &GameFilter{repo: repo}
}

func markerRel() string {
	return filepath.Join(constants.UtilsDirName, constants.GameFilterMarker)
}

func (g *GameFilter) Enabled() bool {
	return g.repo.Exists(markerRel())
}

// Set creates or removes the marker. Both directions are idempotent.
func (g *GameFilter) Set(enabled bool) error {
	if enabled {
		if err := g.repo.Write(markerRel(), nil); err != nil {
			return fmt.Errorf("GameFilter.Set: %w", err)
		}
		return nil
	}
	if err := g.repo.Remove(markerRel()); err != nil {
		return fmt.Errorf("GameFilter.Set: %w", err)
	}
	return nil
}

// PortRange returns the port profile for the current state.
func PortRange(t Toggle) string {
	if t != nil && t.Enabled() {
		return constants.GameFilterWide
	}
	return constants.GameFilterNarrow
}
