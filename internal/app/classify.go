package app

import (
	"context"

	"target-resolver/internal/core"
)

// Classify reports how each pattern would be resolved without touching the
// file system or build files.
func (s Service) Classify(ctx context.Context, req ClassifyRequest) (ClassifyResult, error) {
	patterns := req.Patterns
	if err := validatePatterns(patterns); err != nil {
		return ClassifyResult{}, err
	}
	aliases, closeAliases, err := s.aliasTable(req.Aliases)
	if err != nil {
		return ClassifyResult{}, err
	}
	defer closeAliases()

	result := ClassifyResult{Patterns: make([]ClassifiedPattern, 0, len(patterns))}
	for _, pattern := range patterns {
		classification, err := core.Classify(ctx, pattern, aliases)
		if err != nil {
			return ClassifyResult{}, err
		}
		result.Patterns = append(result.Patterns, ClassifiedPattern{
			Pattern:     pattern,
			Disposition: classification.Disposition,
			Expansions:  classification.Expansions,
		})
	}
	return result, nil
}
