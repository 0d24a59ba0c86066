package adapters

import (
	"context"

	"target-resolver/internal/ports"
)

// AliasChain consults each table in order and returns the first non-empty
// expansion. Nil tables are skipped.
type AliasChain []ports.AliasTablePort

func (c AliasChain) Lookup(ctx context.Context, pattern string) ([]string, error) {
	for _, table := range c {
		if table == nil {
			continue
		}
		targets, err := table.Lookup(ctx, pattern)
		if err != nil {
			return nil, err
		}
		if len(targets) > 0 {
			return targets, nil
		}
	}
	return nil, nil
}

var _ ports.AliasTablePort = AliasChain{}
