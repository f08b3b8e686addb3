// Package hosts merges the DNS override block into the system hosts file.
package hosts

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/platform"
)

var blockPattern = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(constants.HostsStartMarker) +
	`.*?` + regexp.QuoteMeta(constants.HostsEndMarker))

// TextFetcher downloads a text document.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Merger owns the managed block of one hosts file.
type Merger struct {
	// Path is the hosts file; defaults to the system one.
	Path string
	// URL is the published override document.
	URL string
	// Flush drops the resolver cache after a write; nil skips it.
	Flush func() error

	fetcher TextFetcher
	sink    debuglog.Sink
}

func NewMerger(fetcher TextFetcher, sink debuglog.Sink) *Merger {
	if sink == nil {
		sink = debuglog.Discard
	}
	return &Merger{
		Path:    platform.HostsPath(),
		URL:     constants.HostsURL,
		Flush:   platform.FlushDNS,
		fetcher: fetcher,
		sink:    sink,
	}
}

// Fetch downloads the override document.
func (m *Merger) Fetch(ctx context.Context) (string, error) {
	content, err := m.fetcher.FetchText(ctx, m.URL)
	if err != nil {
		debuglog.Emitf(m.sink, debuglog.LevelError, "failed to download hosts: %v", err)
		return "", fmt.Errorf("Fetch: %w", err)
	}
	return content, nil
}

// Clean removes every managed block from content and trims the result.
func Clean(content string) string {
	return strings.TrimSpace(blockPattern.ReplaceAllString(content, ""))
}

// Merge places payload in a single managed block at the top of base.
func Merge(base, payload string) string {
	return fmt.Sprintf("%s\n%s\n%s\n\n%s",
		constants.HostsStartMarker, strings.TrimSpace(payload), constants.HostsEndMarker, Clean(base))
}

// Write replaces the managed block of the hosts file with payload and flushes DNS.
// An unreadable hosts file is treated as empty.
func (m *Merger) Write(payload string) error {
	current, err := os.ReadFile(m.Path)
	if err != nil {
		debuglog.DebugLog("Merger.Write: read %s: %v", m.Path, err)
	}
	if strings.Contains(string(current), constants.HostsStartMarker) {
		debuglog.Emitf(m.sink, debuglog.LevelInfo, "hosts block already exists, updating...")
	} else {
		debuglog.Emitf(m.sink, debuglog.LevelInfo, "hosts block not found, creating new...")
	}

	if err := os.WriteFile(m.Path, []byte(Merge(string(current), payload)), 0644); err != nil {
		debuglog.Emitf(m.sink, debuglog.LevelError, "failed to write hosts: %v", err)
		return fmt.Errorf("Write: %w", err)
	}

	if m.Flush != nil {
		if err := m.Flush(); err != nil {
			debuglog.Emitf(m.sink, debuglog.LevelWarn, "hosts written, DNS flush failed: %v", err)
			return nil
		}
	}
	debuglog.Emitf(m.sink, debuglog.LevelInfo, "hosts updated")
	return nil
}

// Remove drops the managed block and leaves the rest of the file untouched.
func (m *Merger) Remove() error {
	current, err := os.ReadFile(m.Path)
	if err != nil {
		return fmt.Errorf("Remove: %w", err)
	}
	if !strings.Contains(string(current), constants.HostsStartMarker) {
		debuglog.Emitf(m.sink, debuglog.LevelInfo, "hosts block not found, nothing to remove")
		return nil
	}
	if err := os.WriteFile(m.Path, []byte(Clean(string(current))+"\n"), 0644); err != nil {
		debuglog.Emitf(m.sink, debuglog.LevelError, "failed to write hosts: %v", err)
		return fmt.Errorf("Remove: %w", err)
	}
	if m.Flush != nil {
		if err := m.Flush(); err != nil {
			debuglog.Emitf(m.sink, debuglog.LevelWarn, "DNS flush failed: %v", err)
		}
	}
	debuglog.Emitf(m.sink, debuglog.LevelInfo, "hosts block removed")
	return nil
}

// SaveSelection writes the chosen document lines as the managed block.
func (m *Merger) SaveSelection(lines []string) error {
	return m.Write(strings.Join(lines, "\n"))
}
