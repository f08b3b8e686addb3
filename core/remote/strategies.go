package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"zapret-launcher/core/strategy"
	"zapret-launcher/internal/debuglog"
)

func (c *Client) scriptURL(script string) string {
	return c.StrategyBaseURL + url.PathEscape(script)
}

// CheckStrategyUpdates returns the scripts whose published arguments differ from the
// local strategy of the same name, or that have no local strategy yet.
// Non-2xx responses skip that script; transport failures abort the whole check.
func (c *Client) CheckStrategyUpdates(ctx context.Context, store *strategy.Store) ([]string, error) {
	var updates []string
	for _, script := range c.Scripts {
		if err := c.wait(ctx); err != nil {
			return updates, fmt.Errorf("CheckStrategyUpdates: %w", err)
		}

		body, err := c.FetchText(ctx, c.scriptURL(script))
		if err != nil {
			if errors.Is(err, ErrHTTPStatus) {
				debuglog.DebugLog("CheckStrategyUpdates: skipping %s: %v", script, err)
				continue
			}
			debuglog.Emitf(c.sink, debuglog.LevelError, "failed to check strategy updates: %v", err)
			return updates, fmt.Errorf("CheckStrategyUpdates: %w", err)
		}

		remoteArgs, ok := strategy.ExtractArgs(body)
		if !ok {
			continue
		}
		name := strategy.NameFromScript(script)
		local, err := store.Read(name)
		if err != nil || strings.TrimSpace(local) != strings.TrimSpace(remoteArgs) {
			updates = append(updates, script)
		}
	}

	if len(updates) == 0 {
		debuglog.Emitf(c.sink, debuglog.LevelInfo, "strategies are up to date")
	} else {
		debuglog.Emitf(c.sink, debuglog.LevelInfo, "strategy updates available: %s", strings.Join(updates, ", "))
	}
	return updates, nil
}

// ApplyStrategyUpdate downloads one script into a temporary directory, converts it
// and removes the temporary copy.
func (c *Client) ApplyStrategyUpdate(ctx context.Context, script string, conv *strategy.Converter) error {
	data, err := c.Fetch(ctx, c.scriptURL(script))
	if err != nil {
		debuglog.Emitf(c.sink, debuglog.LevelError, "failed to download %s: %v", script, err)
		return fmt.Errorf("ApplyStrategyUpdate: %w", err)
	}

	tempDir, err := os.MkdirTemp("", "zapret-strategy-*")
	if err != nil {
		debuglog.Emitf(c.sink, debuglog.LevelError, "failed to create temp dir for %s: %v", script, err)
		return fmt.Errorf("ApplyStrategyUpdate: failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, filepath.Base(script))
	if err := os.WriteFile(path, data, 0644); err != nil {
		debuglog.Emitf(c.sink, debuglog.LevelError, "failed to save %s: %v", script, err)
		return fmt.Errorf("ApplyStrategyUpdate: %w", err)
	}
	if _, err := conv.ConvertFiles([]string{path}); err != nil {
		debuglog.Emitf(c.sink, debuglog.LevelError, "failed to convert %s: %v", script, err)
		return fmt.Errorf("ApplyStrategyUpdate: %w", err)
	}
	debuglog.Emitf(c.sink, debuglog.LevelInfo, "strategy updated: %s", strategy.NameFromScript(script))
	return nil
}

// ApplyStrategyUpdates applies every script in order and stops at the first failure.
func (c *Client) ApplyStrategyUpdates(ctx context.Context, scripts []string, conv *strategy.Converter) error {
	for _, script := range scripts {
		if err := c.wait(ctx); err != nil {
			return fmt.Errorf("ApplyStrategyUpdates: %w", err)
		}
		if err := c.ApplyStrategyUpdate(ctx, script, conv); err != nil {
			return err
		}
	}
	return nil
}
