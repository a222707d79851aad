package carrier

import (
	"fmt"
	"sync"

	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
)

// Constructor builds a Provider from one shipping_providers row.
// The row carries the credential and service catalog, so a rebuilt provider
// always reflects the current profile.
type Constructor func(profile db.ShippingProvider) Provider

// Registry maps carrier codes to their Provider constructors.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

// Register adds a carrier constructor. Called once per carrier at startup.
func (r *Registry) Register(code string, constructor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[code] = constructor
}

// Build instantiates the Provider for one provider profile.
func (r *Registry) Build(profile db.ShippingProvider) (Provider, error) {
	r.mu.RLock()
	constructor, ok := r.constructors[profile.Code]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCarrierNotRegistered, profile.Code)
	}
	return constructor(profile), nil
}

// Codes returns the registered carrier codes.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.constructors))
	for code := range r.constructors {
		codes = append(codes, code)
	}
	return codes
}
