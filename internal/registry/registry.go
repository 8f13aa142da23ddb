// Package registry owns the mapping from provider name to factory,
// configuration and priority for one capability family, and hands out cached
// adapter instances on demand.
package registry

import (
	"sort"
	"sync"

	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/pkg/schema"
	"go.uber.org/zap"
)

// Factory constructs an adapter instance from its stored configuration.
type Factory[P any] func(cfg domain.ProviderConfig) (P, error)

type entry[P any] struct {
	name     schema.ProviderName
	cfg      domain.ProviderConfig
	priority int
	seq      int
	factory  Factory[P]

	mu       sync.Mutex
	built    bool
	instance P
}

// Registry holds the registrations for one capability family. Registrations
// happen at startup; request-handling code only reads. The instance cache
// grows under per-entry locks, so concurrent first access builds exactly one
// adapter per name.
type Registry[P any] struct {
	capability schema.Capability
	known      []schema.ProviderName

	mu      sync.RWMutex
	entries map[schema.ProviderName]*entry[P]
	order   []schema.ProviderName

	logger *zap.Logger
}

// New creates an empty registry for a capability family. known is the fixed
// enumerable provider set reported by Status, independent of what gets
// registered.
func New[P any](capability schema.Capability, known []schema.ProviderName, logger *zap.Logger) *Registry[P] {
	return &Registry[P]{
		capability: capability,
		known:      known,
		entries:    make(map[schema.ProviderName]*entry[P]),
		logger:     logger,
	}
}

// Register validates the configuration for the provider kind and records the
// registration. A failed validation leaves the registry unchanged. Lower
// priority is tried first; ties keep registration order.
func (r *Registry[P]) Register(name schema.ProviderName, cfg domain.ProviderConfig, priority int, factory Factory[P]) error {
	if err := cfg.Validate(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seq := len(r.entries)
	if existing, ok := r.entries[name]; ok {
		seq = existing.seq
	}

	r.entries[name] = &entry[P]{
		name:     name,
		cfg:      cfg,
		priority: priority,
		seq:      seq,
		factory:  factory,
	}
	r.recomputeOrder()

	r.logger.Info("provider registered",
		zap.String("capability", string(r.capability)),
		zap.String("provider", string(name)),
		zap.Int("priority", priority),
	)
	return nil
}

// recomputeOrder rebuilds the fallback order. Caller holds r.mu.
func (r *Registry[P]) recomputeOrder() {
	order := make([]*entry[P], 0, len(r.entries))
	for _, e := range r.entries {
		order = append(order, e)
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].priority != order[j].priority {
			return order[i].priority < order[j].priority
		}
		return order[i].seq < order[j].seq
	})

	r.order = make([]schema.ProviderName, len(order))
	for i, e := range order {
		r.order[i] = e.name
	}
}

// GetOrCreate returns the cached adapter for name, constructing it on first
// access. A construction failure is not cached, so a later call may retry;
// once built, the same instance is returned forever.
func (r *Registry[P]) GetOrCreate(name schema.ProviderName) (P, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	var zero P
	if !ok {
		return zero, &domain.NotConfiguredError{Capability: r.capability, Provider: name}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.built {
		return e.instance, nil
	}

	instance, err := e.factory(e.cfg)
	if err != nil {
		return zero, &domain.ProviderCallError{Provider: name, Op: "construct", Err: err}
	}

	e.instance = instance
	e.built = true
	return instance, nil
}

// FallbackOrder returns the current priority-ordered provider names. The
// returned slice is a copy.
func (r *Registry[P]) FallbackOrder() []schema.ProviderName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order := make([]schema.ProviderName, len(r.order))
	copy(order, r.order)
	return order
}

// Status reports, for every known provider of this family, whether it is
// currently configured.
func (r *Registry[P]) Status() map[schema.ProviderName]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := make(map[schema.ProviderName]bool, len(r.known))
	for _, name := range r.known {
		_, configured := r.entries[name]
		status[name] = configured
	}
	return status
}

// Capability returns the family this registry serves.
func (r *Registry[P]) Capability() schema.Capability {
	return r.capability
}
