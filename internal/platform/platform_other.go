//go:build !windows
// +build !windows

package platform

import (
	"errors"
	"os/exec"
	"strconv"
)

// ErrUnsupported is returned for operations that only exist on Windows.
var ErrUnsupported = errors.New("platform: operation is only supported on windows")

// HostsPath returns the system hosts file.
func HostsPath() string {
	return "/etc/hosts"
}

// OpenFolder opens a folder in the default file manager.
func OpenFolder(path string) error {
	return exec.Command("xdg-open", path).Start()
}

// OpenURL opens a URL in the default browser.
func OpenURL(url string) error {
	return exec.Command("xdg-open", url).Start()
}

// KillProcessByPID kills a process by PID.
func KillProcessByPID(pid int) error {
	return exec.Command("kill", "-9", strconv.Itoa(pid)).Run()
}

func FlushDNS() error { return ErrUnsupported }

func EnableTCPTimestamps() error { return ErrUnsupported }

// IsFileInUse is always false: only Windows refuses to copy over an open file.
func IsFileInUse(err error) bool { return false }

func PrepareCommand(cmd *exec.Cmd) {}
