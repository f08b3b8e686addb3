//go:build !windows
// +build !windows

package winsvc

import (
	"zapret-launcher/internal/process"
)

// Manager reports every service operation as unsupported outside Windows.
type Manager struct {
	Processes process.Lister
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) KillProcess(string) error                   { return ErrUnsupported }
func (m *Manager) StopService(string) error                   { return ErrUnsupported }
func (m *Manager) DeleteService(string) error                 { return ErrUnsupported }
func (m *Manager) CreateService(string, string, string) error { return ErrUnsupported }
func (m *Manager) StartService(string) error                  { return ErrUnsupported }
func (m *Manager) EnableTCPTimestamps() error                 { return ErrUnsupported }
