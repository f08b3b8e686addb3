package fsrepo

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Repo. Listing is sorted by name.
type Memory struct {
	root string

	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
}

func NewMemory(root string) *Memory {
	return &Memory{
		root:  root,
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func clean(rel string) string {
	return filepath.ToSlash(filepath.Clean(rel))
}

func (m *Memory) Root() string { return m.root }

func (m *Memory) Abs(rel string) string {
	return filepath.Join(m.root, rel)
}

func (m *Memory) markDirs(dir string) {
	for dir != "." && dir != "/" && dir != "" {
		m.dirs[dir] = true
		dir = clean(filepath.Dir(dir))
	}
}

func (m *Memory) List(dir string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dir = clean(dir)
	if !m.dirs[dir] {
		return nil, &fs.PathError{Op: "readdir", Path: m.Abs(dir), Err: fs.ErrNotExist}
	}
	var names []string
	prefix := dir + "/"
	for p := range m.files {
		if rest, ok := strings.CutPrefix(p, prefix); ok && !strings.Contains(rest, "/") {
			names = append(names, rest)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) Read(rel string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[clean(rel)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: m.Abs(rel), Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Write(rel string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rel = clean(rel)
	m.markDirs(clean(filepath.Dir(rel)))
	m.files[rel] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Append(rel string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rel = clean(rel)
	existing, ok := m.files[rel]
	if !ok {
		return &fs.PathError{Op: "open", Path: m.Abs(rel), Err: fs.ErrNotExist}
	}
	m.files[rel] = append(existing, data...)
	return nil
}

func (m *Memory) Remove(rel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, clean(rel))
	return nil
}

func (m *Memory) Exists(rel string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rel = clean(rel)
	_, ok := m.files[rel]
	return ok || m.dirs[rel]
}

func (m *Memory) MkdirAll(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markDirs(clean(dir))
	return nil
}
