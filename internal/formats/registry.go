package formats

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry manages available format adapters.
// It provides lookup by name and selection by file extension.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
}

// NewRegistry creates a new empty format registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

// Register adds a format adapter to the registry.
// If a format with the same name already exists, it will be replaced.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats[f.Name()] = f
}

// Get retrieves a format adapter by name.
// Returns the format and true if found, or nil and false if not found.
func (r *Registry) Get(name string) (Format, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formats[name]
	return f, ok
}

// List returns all registered format adapters sorted by name.
func (r *Registry) List() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Format, 0, len(r.formats))
	for _, f := range r.formats {
		result = append(result, f)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})

	return result
}

// Names returns the names of all registered formats sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extensions returns all file extensions claimed by registered formats,
// sorted and deduplicated.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var exts []string
	for _, f := range r.formats {
		for _, ext := range f.SupportedExtensions() {
			ext = strings.ToLower(ext)
			if _, ok := seen[ext]; !ok {
				seen[ext] = struct{}{}
				exts = append(exts, ext)
			}
		}
	}
	sort.Strings(exts)
	return exts
}

// ForPath selects the format adapter for a path by its extension
// (case-insensitive). When several adapters claim the extension, the one
// with the highest Detect confidence wins. An extension no adapter claims
// is an ErrUnsupportedFile naming the supported types.
func (r *Registry) ForPath(path string) (Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.ToLower(filepath.Ext(path))

	var candidates []Format
	for _, f := range r.formats {
		for _, supportedExt := range f.SupportedExtensions() {
			if strings.ToLower(supportedExt) == ext {
				candidates = append(candidates, f)
				break
			}
		}
	}

	if len(candidates) == 0 {
		return nil, &ErrUnsupportedFile{Path: path, Supported: r.extensionsLocked()}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	var bestFormat Format
	var bestConfidence int
	for _, f := range candidates {
		confidence, err := f.Detect(path)
		if err != nil {
			continue
		}
		if confidence > bestConfidence {
			bestConfidence = confidence
			bestFormat = f
		}
	}

	if bestFormat == nil {
		return nil, &ErrUnsupportedFile{Path: path, Supported: r.extensionsLocked()}
	}
	return bestFormat, nil
}

// extensionsLocked is Extensions without locking, for use under r.mu.
func (r *Registry) extensionsLocked() []string {
	seen := make(map[string]struct{})
	var exts []string
	for _, f := range r.formats {
		for _, ext := range f.SupportedExtensions() {
			ext = strings.ToLower(ext)
			if _, ok := seen[ext]; !ok {
				seen[ext] = struct{}{}
				exts = append(exts, ext)
			}
		}
	}
	sort.Strings(exts)
	return exts
}

// Count returns the number of registered formats.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.formats)
}

// defaultRegistry is the global registry instance.
var defaultRegistry *Registry
var defaultRegistryOnce sync.Once

// DefaultRegistry returns the default global registry with all built-in
// formats. This function is safe for concurrent use.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// RegisterDefault registers a format with the default registry.
// Built-in adapters call this from their init functions.
func RegisterDefault(f Format) {
	DefaultRegistry().Register(f)
}
