package core

import (
	"context"
	"fmt"
	"strings"

	"target-resolver/internal/ports"
	"target-resolver/internal/types"
)

// Classification is the disposition chosen for one pattern. Expansions is
// only set for aliases.
type Classification struct {
	Disposition types.Disposition
	Expansions  []string
}

// Classify decides how a pattern is resolved. Alias lookup takes precedence
// over any syntactic check, so an alias that looks like a target pattern
// still resolves through its expansions.
func Classify(ctx context.Context, pattern string, aliases ports.AliasTablePort) (Classification, error) {
	if aliases != nil {
		expansions, err := aliases.Lookup(ctx, pattern)
		if err != nil {
			if isInterruption(ctx, err) {
				return Classification{}, interrupted(err)
			}
			return Classification{}, resolutionFailure(fmt.Sprintf("alias lookup failed for %s", pattern), err)
		}
		expansions = nonEmpty(expansions)
		if len(expansions) > 0 {
			return Classification{Disposition: types.DispositionAlias, Expansions: expansions}, nil
		}
	}
	if IsBuildTargetPattern(pattern) {
		return Classification{Disposition: types.DispositionBuildTarget}, nil
	}
	return Classification{Disposition: types.DispositionFile}, nil
}

// IsBuildTargetPattern reports whether the string has build-target syntax.
//
// A file name containing a single ':' is treated as a target. Deciding
// otherwise would require probing the filesystem during classification.
func IsBuildTargetPattern(pattern string) bool {
	return strings.Contains(pattern, "//") ||
		strings.Contains(pattern, ":") ||
		strings.HasSuffix(pattern, "/...") ||
		pattern == "..."
}

func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
