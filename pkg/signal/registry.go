package signal

import (
	"strings"
	"sync"
)

// Registry holds success phrase sets per tool so new builds or forks can add
// their wording without touching the recovery engine.
type Registry struct {
	phrases map[string]Phrases
	mu      sync.RWMutex
}

// NewRegistry creates a registry preloaded with the known steghide phrasing.
func NewRegistry() *Registry {
	r := &Registry{phrases: make(map[string]Phrases)}
	r.Register("steghide", "wrote extracted data", "extracting data")
	return r
}

// Register adds phrases for tool. Phrases are matched case-insensitively.
func (r *Registry) Register(tool string, phrases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || contains(r.phrases[tool], p) {
			continue
		}
		r.phrases[tool] = append(r.phrases[tool], p)
	}
}

// Classifier returns the phrase set registered for tool.
func (r *Registry) Classifier(tool string) Classifier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append(Phrases(nil), r.phrases[tool]...)
}

func contains(set Phrases, p string) bool {
	for _, s := range set {
		if s == p {
			return true
		}
	}
	return false
}
