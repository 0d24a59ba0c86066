package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"target-resolver/internal/ports"
	"target-resolver/internal/types"
)

var errEmptyPattern = errors.New("pattern is empty")

// PatternEvaluator resolves command-line patterns into resolved targets.
//
// Each evaluator owns a ResolutionCache and is meant to serve one logical
// command invocation. Resolve is synchronous and not safe for concurrent
// use; callers sharing an evaluator must serialize calls themselves.
type PatternEvaluator struct {
	Aliases  ports.AliasTablePort
	Files    ports.FileCanonicalizerPort
	Parser   ports.SpecParserPort
	Universe ports.UniverseResolverPort
	Config   types.TargetConfiguration
	Metrics  *EvaluatorMetrics

	cache *ResolutionCache
}

func NewPatternEvaluator(
	aliases ports.AliasTablePort,
	files ports.FileCanonicalizerPort,
	parser ports.SpecParserPort,
	universe ports.UniverseResolverPort,
	config types.TargetConfiguration,
) *PatternEvaluator {
	return &PatternEvaluator{
		Aliases:  aliases,
		Files:    files,
		Parser:   parser,
		Universe: universe,
		Config:   config,
		cache:    NewResolutionCache(),
	}
}

// Cache exposes the evaluator-owned cache.
func (e *PatternEvaluator) Cache() *ResolutionCache {
	if e.cache == nil {
		e.cache = NewResolutionCache()
	}
	return e.cache
}

// Preload resolves patterns only to warm the cache.
func (e *PatternEvaluator) Preload(ctx context.Context, patterns []string) error {
	_, err := e.Resolve(ctx, patterns)
	return err
}

// Resolve maps every supplied pattern to its resolution set, or fails as a
// whole. File patterns resolved before a failure stay cached.
func (e *PatternEvaluator) Resolve(ctx context.Context, patterns []string) (types.PatternResultMap, error) {
	if e.Files == nil || e.Parser == nil || e.Universe == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("evaluator requires file canonicalizer, spec parser and universe ports")
	}
	cache := e.Cache()

	resolved := types.PatternResultMap{}
	seen := make(map[string]struct{}, len(patterns))
	deferred := newDeferredBuilder()
	for _, pattern := range patterns {
		if _, dup := seen[pattern]; dup {
			continue
		}
		seen[pattern] = struct{}{}

		if targets, ok := cache.Get(pattern); ok {
			e.Metrics.ObserveCacheHit()
			resolved[pattern] = targets
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, interrupted(err)
		}
		if strings.TrimSpace(pattern) == "" {
			return nil, invalidPatternSyntax(strconv.Quote(pattern), errEmptyPattern)
		}

		classification, err := Classify(ctx, pattern, e.Aliases)
		if err != nil {
			return nil, err
		}
		e.Metrics.ObservePattern(classification.Disposition)
		switch classification.Disposition {
		case types.DispositionAlias:
			for _, expansion := range classification.Expansions {
				deferred.add(expansion, pattern)
			}
		case types.DispositionBuildTarget:
			deferred.add(pattern, pattern)
		default:
			targets, err := e.resolveFilePattern(ctx, pattern)
			if err != nil {
				return nil, err
			}
			resolved[pattern] = targets
			cache.Put(pattern, targets)
		}
	}

	keys := deferred.build()
	if keys.Len() > 0 {
		byKey, err := e.resolveBuildTargetPatterns(ctx, keys.Keys())
		if err != nil {
			return nil, err
		}
		results := keys.Rekey(byKey)
		for pattern, targets := range results {
			resolved[pattern] = targets
		}
		cache.PutAll(results)
	}

	log.Ctx(ctx).Debug().
		Int("patterns", len(resolved)).
		Int("deferred", keys.Len()).
		Int("cached", cache.Len()).
		Msg("target patterns resolved")
	return resolved, nil
}

func (e *PatternEvaluator) resolveFilePattern(ctx context.Context, pattern string) (types.ResolutionSet, error) {
	referenced, err := e.Files.Canonicalize(ctx, []string{pattern})
	if err != nil {
		if isInterruption(ctx, err) {
			return nil, interrupted(err)
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to canonicalize %s", pattern)).
			WithCause(err)
	}
	if len(referenced.Missing) > 0 {
		return nil, nonExistentReference(pattern)
	}
	files := make([]types.ResolvedTarget, 0, len(referenced.Existing))
	for _, path := range referenced.Existing {
		files = append(files, types.FileTargetRef{Path: path})
	}
	log.Ctx(ctx).Debug().Str("pattern", pattern).Int("files", len(files)).Msg("file pattern resolved")
	return types.NewResolutionSet(files...), nil
}

// resolveBuildTargetPatterns parses every key into specs and resolves them
// with a single universe call. The universe answers index-aligned with the
// spec list, and owner[i] records which key produced spec i.
func (e *PatternEvaluator) resolveBuildTargetPatterns(ctx context.Context, keys []string) (map[string]types.ResolutionSet, error) {
	var specs []types.TargetNodeSpec
	var owner []int
	for idx, key := range keys {
		assert.NotEmpty(ctx, key, "deferred key must not be empty")
		parsed, err := e.Parser.Parse(ctx, key)
		if err != nil {
			if isInterruption(ctx, err) {
				return nil, interrupted(err)
			}
			return nil, invalidPatternSyntax(key, err)
		}
		for _, spec := range parsed {
			specs = append(specs, spec)
			owner = append(owner, idx)
		}
	}

	grouped := make([][]types.ResolvedTarget, len(keys))
	if len(specs) > 0 {
		start := time.Now()
		targets, err := e.Universe.ResolveSpecs(ctx, specs, e.Config)
		e.Metrics.ObserveBatch(len(specs), time.Since(start).Seconds(), err)
		if err != nil {
			if isInterruption(ctx, err) {
				return nil, interrupted(err)
			}
			return nil, resolutionFailure("failed to resolve target patterns", err)
		}
		if len(targets) != len(specs) {
			return nil, resolutionFailure(
				fmt.Sprintf("universe returned %d target sets for %d specs", len(targets), len(specs)), nil)
		}
		log.Ctx(ctx).Debug().Strs("keys", keys).Int("specs", len(specs)).Msg("resolved batched target specs")
		for idx, set := range targets {
			for _, target := range set {
				grouped[owner[idx]] = append(grouped[owner[idx]], types.BuildTargetRef{Target: target})
			}
		}
	}

	out := make(map[string]types.ResolutionSet, len(keys))
	for idx, key := range keys {
		out[key] = types.NewResolutionSet(grouped[idx]...)
	}
	return out, nil
}
