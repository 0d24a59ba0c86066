package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"target-resolver/internal/adapters"
	"target-resolver/internal/core"
	"target-resolver/internal/types"
)

func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	root := strings.TrimSpace(req.ProjectRoot)
	if root == "" {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project root is required")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid project root: " + root).
			WithCause(err)
	}
	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project root does not exist: " + absRoot)
	}
	patterns := req.Patterns
	if err := validatePatterns(patterns); err != nil {
		return ResolveResult{}, err
	}
	format, err := normalizeFormat(req.Format)
	if err != nil {
		return ResolveResult{}, err
	}
	req.ProjectRoot = absRoot

	aliases, closeAliases, err := s.aliasTable(req.Aliases)
	if err != nil {
		return ResolveResult{}, err
	}
	defer closeAliases()

	evaluator := core.NewPatternEvaluator(
		aliases,
		adapters.NewFileCanonicalizerAdapter(absRoot, req.WorkingDir),
		adapters.NewCommandLineSpecParser(absRoot, req.WorkingDir),
		s.universe(req),
		types.TargetConfiguration{Name: strings.TrimSpace(req.TargetConfig)},
	)
	evaluator.Metrics = s.Metrics

	preload := req.Preload
	if len(preload) > 0 {
		if err := validatePatterns(preload); err != nil {
			return ResolveResult{}, err
		}
		if err := evaluator.Preload(ctx, preload); err != nil {
			return ResolveResult{}, err
		}
		log.Ctx(ctx).Debug().Int("patterns", len(preload)).Msg("preloaded target patterns")
	}
	results, err := evaluator.Resolve(ctx, patterns)
	if err != nil {
		return ResolveResult{}, err
	}
	if s.Output != nil {
		if err := s.Output.WritePatternResults(results, format); err != nil {
			return ResolveResult{}, err
		}
	}
	return ResolveResult{
		Results:   results,
		Preloaded: len(preload),
		Cached:    evaluator.Cache().Len(),
	}, nil
}

// validatePatterns rejects an empty request and blank entries. Patterns are
// otherwise passed through untouched so result keys match the request.
func validatePatterns(patterns []string) error {
	if len(patterns) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one target pattern is required")
	}
	for idx, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("target pattern %d is blank", idx+1))
		}
	}
	return nil
}

func normalizeFormat(format types.OutputFormat) (types.OutputFormat, error) {
	switch types.OutputFormat(strings.ToLower(strings.TrimSpace(string(format)))) {
	case "", types.OutputFormatText:
		return types.OutputFormatText, nil
	case types.OutputFormatJSON:
		return types.OutputFormatJSON, nil
	case types.OutputFormatYAML, "yml":
		return types.OutputFormatYAML, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported output format: " + string(format))
	}
}
