package remote

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"

	"zapret-launcher/internal/debuglog"
)

func fileMD5(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sum := md5.Sum(data)
	return sum[:], nil
}

// CheckBinaryUpdate compares the local binary against the published one and replaces
// it when the hashes differ. A missing local binary reports true without fetching.
func (c *Client) CheckBinaryUpdate(ctx context.Context, localPath string) (bool, error) {
	localSum, err := fileMD5(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			debuglog.Emitf(c.sink, debuglog.LevelInfo, "local binary missing: %s", localPath)
			return true, nil
		}
		debuglog.Emitf(c.sink, debuglog.LevelError, "cannot read local winws.exe: %v", err)
		return false, fmt.Errorf("CheckBinaryUpdate: hash local binary: %w", err)
	}

	remote, err := c.Fetch(ctx, c.BinaryURL)
	if err != nil {
		debuglog.Emitf(c.sink, debuglog.LevelError, "failed to download winws.exe: %v", err)
		return false, fmt.Errorf("CheckBinaryUpdate: %w", err)
	}
	remoteSum := md5.Sum(remote)
	if bytes.Equal(localSum, remoteSum[:]) {
		debuglog.Emitf(c.sink, debuglog.LevelInfo, "winws.exe is up to date")
		return false, nil
	}

	if err := os.WriteFile(localPath, remote, 0755); err != nil {
		debuglog.Emitf(c.sink, debuglog.LevelError, "failed to replace winws.exe: %v", err)
		return false, fmt.Errorf("CheckBinaryUpdate: write %s: %w", localPath, err)
	}
	debuglog.Emitf(c.sink, debuglog.LevelInfo, "winws.exe updated")
	return true, nil
}

// DownloadBinary fetches the published binary to localPath, creating its directory.
func (c *Client) DownloadBinary(ctx context.Context, localPath string) error {
	data, err := c.Fetch(ctx, c.BinaryURL)
	if err != nil {
		debuglog.Emitf(c.sink, debuglog.LevelError, "failed to download winws.exe: %v", err)
		return fmt.Errorf("DownloadBinary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		debuglog.Emitf(c.sink, debuglog.LevelError, "cannot create %s: %v", filepath.Dir(localPath), err)
		return fmt.Errorf("DownloadBinary: %w", err)
	}
	if err := os.WriteFile(localPath, data, 0755); err != nil {
		debuglog.Emitf(c.sink, debuglog.LevelError, "failed to write winws.exe: %v", err)
		return fmt.Errorf("DownloadBinary: write %s: %w", localPath, err)
	}
	debuglog.Emitf(c.sink, debuglog.LevelInfo, "winws.exe downloaded (%d bytes)", len(data))
	return nil
}
