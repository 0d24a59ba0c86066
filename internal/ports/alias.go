package ports

import "context"

// AliasTablePort expands user-defined alias names.
type AliasTablePort interface {
	// Lookup returns the fully-qualified target names the pattern expands
	// to, or an empty slice when the pattern is not an alias.
	Lookup(ctx context.Context, pattern string) ([]string, error)
}
