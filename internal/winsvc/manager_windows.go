//go:build windows
// +build windows

package winsvc

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"

	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/platform"
	"zapret-launcher/internal/process"
)

// stopWait bounds how long StopService waits for the service to report stopped.
const stopWait = 5 * time.Second

// Manager drives the local service control manager.
type Manager struct {
	// Processes enumerates running processes; nil means go-ps.
	Processes process.Lister
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) KillProcess(image string) error {
	procs, err := process.FindByName(m.Processes, image)
	if err != nil {
		return fmt.Errorf("KillProcess: list processes: %w", err)
	}
	var errs []error
	for _, p := range procs {
		debuglog.DebugLog("KillProcess: killing %s (PID %d)", p.Name, p.PID)
		if err := platform.KillProcessByPID(p.PID); err != nil {
			errs = append(errs, fmt.Errorf("KillProcess: pid %d: %w", p.PID, err))
		}
	}
	return errors.Join(errs...)
}

func withService(name string, fn func(s *mgr.Service) error) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connect to service manager: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return fmt.Errorf("open service %s: %w", name, err)
	}
	defer s.Close()
	return fn(s)
}

// ignoreAbsent reports success when the service is already gone or stopped.
func ignoreAbsent(name string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, windows.ERROR_SERVICE_DOES_NOT_EXIST),
		errors.Is(err, windows.ERROR_SERVICE_NOT_ACTIVE),
		errors.Is(err, windows.ERROR_SERVICE_MARKED_FOR_DELETE):
		debuglog.DebugLog("winsvc: %s: %v (ignored)", name, err)
		return nil
	default:
		return err
	}
}

func (m *Manager) StopService(name string) error {
	err := withService(name, func(s *mgr.Service) error {
		status, err := s.Control(svc.Stop)
		if err != nil {
			return fmt.Errorf("stop service %s: %w", name, err)
		}
		deadline := time.Now().Add(stopWait)
		for status.State != svc.Stopped && time.Now().Before(deadline) {
			time.Sleep(200 * time.Millisecond)
			if status, err = s.Query(); err != nil {
				return fmt.Errorf("query service %s: %w", name, err)
			}
		}
		return nil
	})
	return ignoreAbsent(name, err)
}

func (m *Manager) DeleteService(name string) error {
	err := withService(name, func(s *mgr.Service) error {
		if err := s.Delete(); err != nil {
			return fmt.Errorf("delete service %s: %w", name, err)
		}
		return nil
	})
	return ignoreAbsent(name, err)
}

// CreateService registers an auto-start service. commandLine is passed to the
// service manager as is: mgr.CreateService would escape the argument string as one token.
func (m *Manager) CreateService(name, displayName, commandLine string) error {
	sm, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("CreateService: connect to service manager: %w", err)
	}
	defer sm.Disconnect()

	h, err := windows.CreateService(
		sm.Handle,
		windows.StringToUTF16Ptr(name),
		windows.StringToUTF16Ptr(displayName),
		windows.SERVICE_ALL_ACCESS,
		windows.SERVICE_WIN32_OWN_PROCESS,
		windows.SERVICE_AUTO_START,
		windows.SERVICE_ERROR_NORMAL,
		windows.StringToUTF16Ptr(commandLine),
		nil, nil, nil, nil, nil,
	)
	if err != nil {
		return fmt.Errorf("CreateService %s: %w", name, err)
	}
	s := &mgr.Service{Name: name, Handle: h}
	return s.Close()
}

func (m *Manager) StartService(name string) error {
	return withService(name, func(s *mgr.Service) error {
		if err := s.Start(); err != nil {
			return fmt.Errorf("start service %s: %w", name, err)
		}
		return nil
	})
}

func (m *Manager) EnableTCPTimestamps() error {
	return platform.EnableTCPTimestamps()
}
