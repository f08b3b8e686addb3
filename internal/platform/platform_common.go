package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"zapret-launcher/internal/constants"
)

// extendedPathPrefix is the Win32 extended-length marker some APIs prepend to absolute paths.
const extendedPathPrefix = `\\?\`

// Paths resolves every on-disk location of the bypass bundle from one data root.
type Paths struct {
	root    string
	execDir string
}

// NewPaths builds a resolver over root. execDir locates bundled resources and the
// legacy folder; an empty execDir means the directory of the running executable.
func NewPaths(root, execDir string) *Paths {
	if execDir == "" {
		if ex, err := os.Executable(); err == nil {
			execDir = filepath.Dir(ex)
		}
	}
	return &Paths{root: CleanPath(root), execDir: CleanPath(execDir)}
}

// DefaultRoot returns the per-user data root and creates it when missing.
func DefaultRoot() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("DefaultRoot: cannot determine config dir: %w", err)
	}
	root := filepath.Join(base, constants.AppID, constants.DataDirName)
	if err := os.MkdirAll(root, 0755); err != nil {
		return "", fmt.Errorf("DefaultRoot: cannot create %s: %w", root, err)
	}
	return CleanPath(root), nil
}

// CleanPath strips the extended-length prefix so paths stay usable as plain
// command-line arguments for the bypass binary.
func CleanPath(p string) string {
	return strings.TrimPrefix(p, extendedPathPrefix)
}

// Root returns the data root.
func (p *Paths) Root() string { return p.root }

// ExecDir returns the directory of the launcher executable.
func (p *Paths) ExecDir() string { return p.execDir }

// Join resolves sub relative to the data root.
func (p *Paths) Join(sub ...string) string {
	return CleanPath(filepath.Join(append([]string{p.root}, sub...)...))
}

func (p *Paths) Strategies() string   { return p.Join(constants.StrategiesDirName) }
func (p *Paths) Lists() string        { return p.Join(constants.ListsDirName) }
func (p *Paths) IpsetConfigs() string { return p.Join(constants.IpsetConfigsDirName) }
func (p *Paths) Bin() string          { return p.Join(constants.BinDirName) }
func (p *Paths) Binary() string       { return p.Join(constants.BinDirName, constants.WinwsExecName) }

// GameFilterMarker is the sentinel file whose presence enables the wide port range.
func (p *Paths) GameFilterMarker() string {
	return p.Join(constants.UtilsDirName, constants.GameFilterMarker)
}

// ResourceDir is the bundle shipped next to the executable.
func (p *Paths) ResourceDir() string {
	return filepath.Join(p.execDir, constants.ResourceDirName)
}

// LegacyDir is the folder older installers left next to the executable.
func (p *Paths) LegacyDir() string {
	return filepath.Join(p.execDir, constants.LegacyDirName)
}

// BundleDir returns the shipped bundle, or the copy inside the legacy folder when
// only that one exists.
func (p *Paths) BundleDir() string {
	if _, err := os.Stat(p.ResourceDir()); err == nil {
		return p.ResourceDir()
	}
	return filepath.Join(p.LegacyDir(), constants.ResourceDirName)
}

// SettingsPath returns the settings file next to the executable.
func (p *Paths) SettingsPath() string {
	return filepath.Join(p.execDir, constants.SettingsFileName)
}

// LatestLogPath returns the per-run user log next to the executable.
func (p *Paths) LatestLogPath() string {
	return filepath.Join(p.execDir, constants.LatestLogFileName)
}

// EnsureDirectories creates the directories the launcher writes into.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Strategies(),
		p.Lists(),
		p.IpsetConfigs(),
		p.Bin(),
		p.Join(constants.UtilsDirName),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}
	return nil
}
