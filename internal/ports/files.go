package ports

import "context"

// ReferencedFiles splits canonicalized patterns into paths that exist under
// the project root (repo-relative, slash separated) and paths that do not
// (absolute).
type ReferencedFiles struct {
	Existing []string
	Missing  []string
}

type FileCanonicalizerPort interface {
	Canonicalize(ctx context.Context, patterns []string) (ReferencedFiles, error)
}
