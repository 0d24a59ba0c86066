package ports

import (
	"context"

	"target-resolver/internal/types"
)

// SpecParserPort turns one raw pattern into target-node specs. Returned
// specs carry the pattern in their Source field.
type SpecParserPort interface {
	Parse(ctx context.Context, pattern string) ([]types.TargetNodeSpec, error)
}
