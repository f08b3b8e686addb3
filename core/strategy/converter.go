package strategy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"zapret-launcher/internal/debuglog"
)

// invocationMarker is where a legacy script calls the bypass binary; the arguments follow it.
const invocationMarker = `winws.exe"`

// ExtractArgs returns the trimmed text after the binary invocation in a batch script.
func ExtractArgs(script string) (string, bool) {
	idx := strings.Index(script, invocationMarker)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(script[idx+len(invocationMarker):]), true
}

// NameFromScript derives a strategy name from a script file name: the base name
// without its extension. Both separators are honoured since scripts come from Windows.
func NameFromScript(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Converter turns legacy batch scripts into stored strategies.
type Converter struct {
	store *Store
}

func NewConverter(store *Store) *Converter {
	return &Converter{store: store}
}

// Convert stores the arguments of script under the name derived from fileName.
// A script without the invocation marker is skipped: ok is false and err is nil.
func (c *Converter) Convert(fileName, script string) (name string, ok bool, err error) {
	args, found := ExtractArgs(script)
	if !found {
		debuglog.DebugLog("Converter.Convert: %s has no %s, skipping", fileName, invocationMarker)
		return "", false, nil
	}
	name = NameFromScript(fileName)
	if err := c.store.Write(name, args); err != nil {
		return "", false, err
	}
	return name, true, nil
}

// ConvertFiles converts every script at paths and returns the names written.
// Scripts without the marker are omitted; a read failure aborts the batch.
func (c *Converter) ConvertFiles(paths []string) ([]string, error) {
	var written []string
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			debuglog.Emitf(c.store.sink, debuglog.LevelError, "failed to read %s: %v", path, err)
			return written, fmt.Errorf("ConvertFiles: read %s: %w", path, err)
		}
		name, ok, err := c.Convert(path, string(content))
		if err != nil {
			debuglog.Emitf(c.store.sink, debuglog.LevelError, "failed to save strategy from %s: %v", path, err)
			return written, fmt.Errorf("ConvertFiles: %w", err)
		}
		if ok {
			debuglog.Emitf(c.store.sink, debuglog.LevelInfo, "converted %s -> %s", filepath.Base(path), name)
			written = append(written, name)
		}
	}
	return written, nil
}
