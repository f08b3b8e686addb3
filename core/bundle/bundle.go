// Package bundle copies the shipped strategy and list bundle into the data root.
package bundle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/platform"
)

// CopyDir copies src into dst recursively, overwriting files. A file held open by
// another process is skipped, and a failing subdirectory does not stop the copy.
func CopyDir(src, dst string, sink debuglog.Sink) error {
	if sink == nil {
		sink = debuglog.Discard
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("CopyDir: %w", err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("CopyDir: %w", err)
	}

	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := CopyDir(from, to, sink); err != nil {
				debuglog.DebugLog("CopyDir: %s: %v", from, err)
			}
			continue
		}

		if err := copyFile(from, to); err != nil {
			if platform.IsFileInUse(err) {
				debuglog.Emitf(sink, debuglog.LevelWarn, "file in use, skipping %s", from)
				continue
			}
			return fmt.Errorf("CopyDir: %w", err)
		}
	}
	return nil
}

// CopyMissing copies the regular files of src that dst does not have yet.
func CopyMissing(src, dst string) (int, error) {
	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, fmt.Errorf("CopyMissing: %w", err)
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return 0, fmt.Errorf("CopyMissing: %w", err)
	}

	copied := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		to := filepath.Join(dst, entry.Name())
		if _, err := os.Stat(to); err == nil {
			continue
		}
		if err := copyFile(filepath.Join(src, entry.Name()), to); err != nil {
			debuglog.DebugLog("CopyMissing: %s: %v", entry.Name(), err)
			continue
		}
		copied++
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer debuglog.CloseWithLog("copyFile: close "+src, in)

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
