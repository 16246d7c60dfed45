package extractor

import (
	"sort"
	"sync"

	"ImgOSINT/pkg/filehandler"
)

// Registry is a container for all available extractors, keyed by extension.
// It doubles as the eligibility gate: a file whose extension has no
// extractor is never attempted.
type Registry struct {
	extractors map[string][]DataExtractor
	mu         sync.RWMutex
}

// NewRegistry creates a new extractor registry
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string][]DataExtractor),
	}
}

// Register adds an extractor to the registry
func (r *Registry) Register(extractor DataExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, format := range extractor.SupportedFormats() {
		r.extractors[format] = append(r.extractors[format], extractor)
	}
}

// ExtractorsFor returns all extractors that accept the file's extension
func (r *Registry) ExtractorsFor(filePath string) []DataExtractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]DataExtractor(nil), r.extractors[filehandler.Ext(filePath)]...)
}

// Eligible reports whether any extractor accepts filePath
func (r *Registry) Eligible(filePath string) bool {
	return len(r.ExtractorsFor(filePath)) > 0
}

// SupportedFormats returns all extensions that have registered extractors,
// sorted
func (r *Registry) SupportedFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.extractors))
	for format := range r.extractors {
		formats = append(formats, format)
	}
	sort.Strings(formats)

	return formats
}
