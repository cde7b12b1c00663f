package interfaces

import (
	"context"

	"earnings-insight/internal/types"
)

// SourceAdapter discovers transcript candidates on one external provider.
// Adding a provider means adding one adapter, not branching orchestrator
// control flow.
type SourceAdapter interface {
	// Name identifies the provider in logs and Document.Source.
	Name() string

	// Discover returns up to n ranked transcript candidates. An empty result
	// with a nil error means the provider simply had nothing usable.
	Discover(ctx context.Context, n int) ([]types.Candidate, error)
}
