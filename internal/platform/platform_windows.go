//go:build windows
// +build windows

package platform

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
)

// errorSharingViolation is ERROR_SHARING_VIOLATION: the file is held open by another process.
const errorSharingViolation = syscall.Errno(32)

// HostsPath returns the system hosts file.
func HostsPath() string {
	root := os.Getenv("SystemRoot")
	if root == "" {
		root = `C:\Windows`
	}
	return filepath.Join(root, "System32", "drivers", "etc", "hosts")
}

// OpenFolder opens a folder in Explorer.
func OpenFolder(path string) error {
	return exec.Command("explorer", path).Start()
}

// OpenURL opens a URL in the default browser.
func OpenURL(url string) error {
	return exec.Command("explorer", url).Start()
}

// KillProcessByPID kills a process and its children by PID.
func KillProcessByPID(pid int) error {
	cmd := exec.Command("taskkill", "/F", "/PID", strconv.Itoa(pid), "/T")
	PrepareCommand(cmd)
	return cmd.Run()
}

// FlushDNS drops the resolver cache so hosts edits apply immediately.
func FlushDNS() error {
	cmd := exec.Command("ipconfig", "/flushdns")
	PrepareCommand(cmd)
	return cmd.Run()
}

// EnableTCPTimestamps turns on TCP timestamps, which several strategies rely on.
func EnableTCPTimestamps() error {
	cmd := exec.Command("netsh", "interface", "tcp", "set", "global", "timestamps=enabled")
	PrepareCommand(cmd)
	return cmd.Run()
}

// IsFileInUse reports whether err means another process holds the file.
func IsFileInUse(err error) bool {
	return errors.Is(err, errorSharingViolation)
}

// PrepareCommand hides the console window of helper commands.
func PrepareCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: 0x08000000, // CREATE_NO_WINDOW
	}
}
