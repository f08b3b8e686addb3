//go:build !windows
// +build !windows

package winsvc

type AutoStart struct {
	name    string
	command string
}

func NewAutoStart(name, command string) *AutoStart {
	return &AutoStart{name: name, command: command}
}

func (a *AutoStart) SetAutoStart(bool) error { return ErrUnsupported }
