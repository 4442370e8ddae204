package dbind

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// ErrUnknownFormat is returned when no loader is registered for a format name.
var ErrUnknownFormat = errors.New("unknown data format")

// DefaultFormat is used for data files without a recognized extension.
const DefaultFormat = "json"

// Loader turns raw file contents into a data value.
type Loader func(src []byte) (any, error)

// Registry maps format names (file extensions without the dot) to loaders.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
}

func newRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

func validateFormatName(name string) error {
	if name == "" {
		return fmt.Errorf("format name must not be empty")
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return fmt.Errorf("format %q invalid name (lowercase letters and digits only)", name)
		}
	}
	return nil
}

func (r *Registry) Register(name string, fn Loader) error {
	if err := validateFormatName(name); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("format %q nil loader", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.loaders[name]; exists {
		return fmt.Errorf("format %q already registered", name)
	}
	r.loaders[name] = fn
	return nil
}

// Has reports whether a loader is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaders[name]
	return ok
}

func (r *Registry) Load(name string, src []byte) (any, error) {
	r.mu.RLock()
	fn, ok := r.loaders[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("format %q: %w", name, ErrUnknownFormat)
	}

	v, err := fn(src)
	if err != nil {
		return nil, fmt.Errorf("format %q load: %w", name, err)
	}
	return v, nil
}

// FormatOf derives the format name from a file path. Unregistered or missing
// extensions map to DefaultFormat.
func (r *Registry) FormatOf(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext != "" && r.Has(ext) {
		return ext
	}
	return DefaultFormat
}

// LoadFile decodes src with the loader chosen by the extension of path.
func (r *Registry) LoadFile(path string, src []byte) (any, error) {
	return r.Load(r.FormatOf(path), src)
}
