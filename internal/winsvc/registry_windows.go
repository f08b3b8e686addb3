//go:build windows
// +build windows

package winsvc

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// Registry stores string values under one HKLM key.
type Registry struct {
	path string
}

func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

func (r *Registry) Get(name string) (string, bool, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, r.path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("Registry.Get: open %s: %w", r.path, err)
	}
	defer k.Close()

	v, _, err := k.GetStringValue(name)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("Registry.Get: %s: %w", name, err)
	}
	return v, true, nil
}

func (r *Registry) Set(name, value string) error {
	k, _, err := registry.CreateKey(registry.LOCAL_MACHINE, r.path, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("Registry.Set: open %s: %w", r.path, err)
	}
	defer k.Close()

	if err := k.SetStringValue(name, value); err != nil {
		return fmt.Errorf("Registry.Set: %s: %w", name, err)
	}
	return nil
}
