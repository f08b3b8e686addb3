package fsrepo

import (
	"fmt"
	"os"
	"path/filepath"
)

// Disk is a Repo backed by the real filesystem.
type Disk struct {
	root string
}

func NewDisk(root string) *Disk {
	return &Disk{root: root}
}

func (d *Disk) Root() string { return d.root }

func (d *Disk) Abs(rel string) string {
	return filepath.Join(d.root, rel)
}

func (d *Disk) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(d.Abs(dir))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (d *Disk) Read(rel string) ([]byte, error) {
	return os.ReadFile(d.Abs(rel))
}

func (d *Disk) Write(rel string, data []byte) error {
	path := d.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("Write: cannot create directory for %s: %w", rel, err)
	}
	return os.WriteFile(path, data, 0644)
}

func (d *Disk) Append(rel string, data []byte) error {
	f, err := os.OpenFile(d.Abs(rel), os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (d *Disk) Remove(rel string) error {
	err := os.Remove(d.Abs(rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (d *Disk) Exists(rel string) bool {
	_, err := os.Stat(d.Abs(rel))
	return err == nil
}

func (d *Disk) MkdirAll(dir string) error {
	return os.MkdirAll(d.Abs(dir), 0755)
}
