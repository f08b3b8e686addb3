package core

import (
	"os"
	"path/filepath"

	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/process"
)

// LauncherAlreadyRunning reports whether another process runs the same executable.
func LauncherAlreadyRunning() bool {
	exe, err := os.Executable()
	if err != nil {
		debuglog.WarnLog("LauncherAlreadyRunning: cannot detect executable path: %v", err)
		return false
	}
	return otherInstance(process.GetProcesses, filepath.Base(exe), os.Getpid())
}

func otherInstance(list process.Lister, image string, self int) bool {
	found, err := process.FindByName(list, image)
	if err != nil {
		debuglog.WarnLog("LauncherAlreadyRunning: error listing processes: %v", err)
		return false
	}
	for _, p := range found {
		if p.PID != self {
			return true
		}
	}
	return false
}
