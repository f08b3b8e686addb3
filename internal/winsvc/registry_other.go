//go:build !windows
// +build !windows

package winsvc

// Registry has no backing store outside Windows: reads find nothing and writes fail.
type Registry struct {
	path string
}

func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

func (r *Registry) Get(string) (string, bool, error) { return "", false, nil }
func (r *Registry) Set(string, string) error         { return ErrUnsupported }
