package search

import (
	"context"
	"errors"
	"fmt"
)

// Provider is one external book catalog. Implementations must treat a
// missing or empty result field in the provider's response as zero hits, and
// must return (nil, nil) without any network call when they have no
// configured credential.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Record, error)
}

// ProviderError attributes a failed provider call. Aggregation collects
// these instead of failing: one catalog being down must not hide the
// results of the others.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying failure was the per-provider
// deadline expiring.
func (e *ProviderError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}
