package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/debuglog"
)

const (
	// maxLogFileSize is the maximum log file size before rotation (10 MB)
	maxLogFileSize = 10 * 1024 * 1024
)

// rotateIfLarge moves logPath to logPath.old once it grows past limit, replacing
// an earlier backup. It reports whether a rotation happened.
func rotateIfLarge(logPath string, limit int64) (bool, error) {
	info, err := os.Stat(logPath)
	if err != nil {
		return false, nil // nothing written yet
	}
	if info.Size() <= limit {
		return false, nil
	}

	backup := logPath + ".old"
	_ = os.Remove(backup) // only one generation is kept
	if err := os.Rename(logPath, backup); err != nil {
		return false, fmt.Errorf("rotateIfLarge: %s: %w", logPath, err)
	}
	return true, nil
}

// openLogFileWithRotation opens logPath for appending after rotating an oversized file.
func openLogFileWithRotation(logPath string) (*os.File, error) {
	rotated, err := rotateIfLarge(logPath, maxLogFileSize)
	switch {
	case err != nil:
		debuglog.WarnLog("openLogFileWithRotation: %v", err)
	case rotated:
		debuglog.InfoLog("openLogFileWithRotation: rotated %s", logPath)
	}
	// Append so a restart keeps the previous session's lines.
	return os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// OpenMainLog points the standard logger at the diagnostic log in dir.
// The caller closes the returned file on exit.
func OpenMainLog(dir string) (*os.File, error) {
	f, err := openLogFileWithRotation(filepath.Join(dir, constants.MainLogFileName))
	if err != nil {
		return nil, fmt.Errorf("OpenMainLog: %w", err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f, nil
}
