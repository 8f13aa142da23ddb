// Package orchestrator executes capability calls against a registry's
// fallback order, stopping at the first success.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/codemarcinu/ageny-online/internal/core/domain"
	"github.com/codemarcinu/ageny-online/internal/registry"
	"github.com/codemarcinu/ageny-online/pkg/schema"
	"go.uber.org/zap"
)

// DefaultAttemptTimeout bounds a single adapter call. Timeout expiry counts
// as a provider failure and moves the loop to the next candidate.
const DefaultAttemptTimeout = 30 * time.Second

// Orchestrator drives fallback for one capability family.
type Orchestrator[P any] struct {
	registry       *registry.Registry[P]
	attemptTimeout time.Duration
	logger         *zap.Logger
}

func New[P any](reg *registry.Registry[P], attemptTimeout time.Duration, logger *zap.Logger) *Orchestrator[P] {
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	return &Orchestrator[P]{
		registry:       reg,
		attemptTimeout: attemptTimeout,
		logger:         logger,
	}
}

// Registry exposes the underlying registry for status reads.
func (o *Orchestrator[P]) Registry() *registry.Registry[P] { return o.registry }

// Call invokes one capability operation on one adapter. It receives the
// candidate's name so callers can translate model hints per provider before
// dispatch.
type Call[P, R any] func(ctx context.Context, provider P, name schema.ProviderName) (R, error)

// Execute runs call against the fallback order, or against exactly the
// override provider when one is given. Candidates are tried strictly in
// order, sequentially; the first success wins and later candidates are never
// started. With an override there is no fallback to exhaust, so its failure
// propagates unwrapped.
func Execute[P, R any](ctx context.Context, o *Orchestrator[P], override schema.ProviderName, op string, call Call[P, R]) (R, error) {
	var zero R

	if override != "" {
		provider, err := o.registry.GetOrCreate(override)
		if err != nil {
			return zero, err
		}
		return attempt(ctx, o, provider, override, op, call)
	}

	candidates := o.registry.FallbackOrder()
	if len(candidates) == 0 {
		return zero, &domain.NotConfiguredError{Capability: o.registry.Capability()}
	}

	var lastErr error
	for _, name := range candidates {
		provider, err := o.registry.GetOrCreate(name)
		if err != nil {
			o.logFailure(op, name, err)
			lastErr = err
			continue
		}

		result, err := attempt(ctx, o, provider, name, op, call)
		if err != nil {
			o.logFailure(op, name, err)
			lastErr = err
			continue
		}
		return result, nil
	}

	return zero, &domain.AllProvidersFailedError{
		Capability: o.registry.Capability(),
		Attempted:  candidates,
		Last:       lastErr,
	}
}

// attempt runs one adapter call under the per-attempt timeout. A deadline
// expiry that the adapter did not already classify becomes a
// ProviderCallError so the loop treats it like any other provider failure.
func attempt[P, R any](ctx context.Context, o *Orchestrator[P], provider P, name schema.ProviderName, op string, call Call[P, R]) (R, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	defer cancel()

	result, err := call(attemptCtx, provider, name)
	if err == nil {
		return result, nil
	}

	var callErr *domain.ProviderCallError
	if !errors.As(err, &callErr) {
		err = &domain.ProviderCallError{Provider: name, Op: op, Err: err}
	}

	var zero R
	return zero, err
}

func (o *Orchestrator[P]) logFailure(op string, name schema.ProviderName, err error) {
	o.logger.Warn("provider attempt failed, trying next candidate",
		zap.String("capability", string(o.registry.Capability())),
		zap.String("op", op),
		zap.String("provider", string(name)),
		zap.Error(err),
	)
}
