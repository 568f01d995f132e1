package providers

import (
	"sync"

	"github.com/angkasa-id/angkasa/internal/auth"
)

// Registry holds the configured sign-in providers by method name. Only the
// password provider ships today; federated methods resolve to
// auth.ErrProviderNotAvailable until one is registered.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Provider
}

func NewRegistry(ps ...Provider) *Registry {
	r := &Registry{byName: make(map[string]Provider, len(ps))}
	for _, p := range ps {
		r.Register(p)
	}
	return r
}

func (r *Registry) Register(p Provider) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[p.Name()] = p
}

func (r *Registry) Lookup(method string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[method]
	if !ok {
		return nil, auth.ErrProviderNotAvailable
	}
	return p, nil
}
