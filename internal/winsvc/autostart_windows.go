//go:build windows
// +build windows

package winsvc

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// AutoStart registers a command under the current user's Run key.
type AutoStart struct {
	name    string
	command string
}

// NewAutoStart returns an entry named name that runs command at logon.
func NewAutoStart(name, command string) *AutoStart {
	return &AutoStart{name: name, command: command}
}

func (a *AutoStart) SetAutoStart(enabled bool) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("SetAutoStart: open run key: %w", err)
	}
	defer k.Close()

	if enabled {
		if err := k.SetStringValue(a.name, a.command); err != nil {
			return fmt.Errorf("SetAutoStart: %w", err)
		}
		return nil
	}
	if err := k.DeleteValue(a.name); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("SetAutoStart: %w", err)
	}
	return nil
}
