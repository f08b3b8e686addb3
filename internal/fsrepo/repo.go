// Package fsrepo is the file repository the strategy and list logic runs on.
// Paths passed to a Repo are relative to its root.
package fsrepo

import (
	"errors"
	"io/fs"
)

// Repo lists, reads and writes files under one root.
type Repo interface {
	// Root returns the absolute root directory.
	Root() string
	// Abs resolves rel against the root.
	Abs(rel string) string
	// List returns the names of regular files directly inside dir, in enumeration order.
	// A missing dir yields an error matching fs.ErrNotExist.
	List(dir string) ([]string, error)
	Read(rel string) ([]byte, error)
	// Write creates missing parent directories and overwrites rel.
	Write(rel string, data []byte) error
	// Append adds data to an existing file.
	Append(rel string, data []byte) error
	// Remove deletes rel; a missing file is not an error.
	Remove(rel string) error
	Exists(rel string) bool
	MkdirAll(dir string) error
}

// IsNotExist reports whether err means the path is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
