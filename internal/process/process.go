package process

import (
	"strings"

	"github.com/mitchellh/go-ps"
)

// ProcessInfo is a small struct representing a running process.
type ProcessInfo struct {
	PID  int
	Name string
}

// Lister enumerates running processes. The default wraps go-ps; tests swap it.
type Lister func() ([]ProcessInfo, error)

// GetProcesses returns the running processes in a platform-agnostic format.
func GetProcesses() ([]ProcessInfo, error) {
	procs, err := ps.Processes()
	if err != nil {
		return nil, err
	}
	out := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		out = append(out, ProcessInfo{PID: p.Pid(), Name: p.Executable()})
	}
	return out, nil
}

// FindByName returns every process whose executable matches image, ignoring case.
func FindByName(list Lister, image string) ([]ProcessInfo, error) {
	if list == nil {
		list = GetProcesses
	}
	procs, err := list()
	if err != nil {
		return nil, err
	}
	var found []ProcessInfo
	for _, p := range procs {
		if strings.EqualFold(p.Name, image) {
			found = append(found, p)
		}
	}
	return found, nil
}

// IsRunning reports whether at least one process named image exists.
func IsRunning(image string) bool {
	found, err := FindByName(nil, image)
	return err == nil && len(found) > 0
}
