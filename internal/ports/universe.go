package ports

import (
	"context"

	"target-resolver/internal/types"
)

// UniverseResolverPort evaluates specs against the target graph.
//
// The returned slice is index-aligned with specs: result[i] holds the
// targets matched by specs[i]. Implementations may parallelize internally
// but must honor ctx cancellation.
type UniverseResolverPort interface {
	ResolveSpecs(ctx context.Context, specs []types.TargetNodeSpec, config types.TargetConfiguration) ([][]types.BuildTarget, error)
}
