package core

import (
	"context"
	"strings"

	"target-resolver/internal/ports"
	"target-resolver/internal/types"
)

type testAliases struct {
	table   map[string][]string
	err     error
	lookups int
}

func (t *testAliases) Lookup(_ context.Context, pattern string) ([]string, error) {
	t.lookups++
	if t.err != nil {
		return nil, t.err
	}
	return t.table[pattern], nil
}

type testFiles struct {
	existing map[string][]string
	calls    int
}

func (t *testFiles) Canonicalize(_ context.Context, patterns []string) (ports.ReferencedFiles, error) {
	t.calls++
	var out ports.ReferencedFiles
	for _, pattern := range patterns {
		files, ok := t.existing[pattern]
		if !ok {
			out.Missing = append(out.Missing, "/repo/"+pattern)
			continue
		}
		out.Existing = append(out.Existing, files...)
	}
	return out, nil
}

// testParser yields one spec per pattern unless split lists several spec
// names for it.
type testParser struct {
	split  map[string][]string
	fail   map[string]error
	parsed []string
}

func (t *testParser) Parse(_ context.Context, pattern string) ([]types.TargetNodeSpec, error) {
	t.parsed = append(t.parsed, pattern)
	if err, ok := t.fail[pattern]; ok {
		return nil, err
	}
	names := t.split[pattern]
	if len(names) == 0 {
		names = []string{pattern}
	}
	specs := make([]types.TargetNodeSpec, 0, len(names))
	for _, name := range names {
		specs = append(specs, types.TargetNodeSpec{Kind: types.SpecKindTarget, Name: name, Source: pattern})
	}
	return specs, nil
}

type testUniverse struct {
	targets map[string][]string
	err     error
	drop    bool
	calls   int
	specs   [][]string
}

func (t *testUniverse) ResolveSpecs(_ context.Context, specs []types.TargetNodeSpec, config types.TargetConfiguration) ([][]types.BuildTarget, error) {
	t.calls++
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	t.specs = append(t.specs, names)
	if t.err != nil {
		return nil, t.err
	}
	out := make([][]types.BuildTarget, 0, len(specs))
	for _, spec := range specs {
		var set []types.BuildTarget
		for _, name := range t.targets[spec.Name] {
			target := buildTarget(name)
			target.Configuration = config
			set = append(set, target)
		}
		out = append(out, set)
	}
	if t.drop && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func buildTarget(name string) types.BuildTarget {
	base, short, _ := strings.Cut(name, ":")
	return types.BuildTarget{Unconfigured: types.UnconfiguredTarget{BaseName: base, ShortName: short}}
}

func newTestEvaluator(aliases *testAliases, files *testFiles, parser *testParser, universe *testUniverse) *PatternEvaluator {
	if aliases == nil {
		aliases = &testAliases{}
	}
	if files == nil {
		files = &testFiles{}
	}
	if parser == nil {
		parser = &testParser{}
	}
	if universe == nil {
		universe = &testUniverse{}
	}
	return NewPatternEvaluator(aliases, files, parser, universe, types.TargetConfiguration{})
}
