package app

import "target-resolver/internal/types"

// AliasSource selects where aliases come from. All configured sources are
// consulted in order: inline table, alias file, then Redis.
type AliasSource struct {
	Inline    map[string]string
	File      string
	RedisAddr string
	RedisKey  string
}

type ResolveRequest struct {
	ProjectRoot   string
	WorkingDir    string
	Patterns      []string
	Preload       []string
	Aliases       AliasSource
	TargetConfig  string
	BuildFileName string
	Workers       int
	Format        types.OutputFormat
}

type ResolveResult struct {
	Results   types.PatternResultMap
	Preloaded int
	Cached    int
}

type ClassifyRequest struct {
	Patterns []string
	Aliases  AliasSource
}

type ClassifiedPattern struct {
	Pattern     string            `json:"pattern" yaml:"pattern"`
	Disposition types.Disposition `json:"disposition" yaml:"disposition"`
	Expansions  []string          `json:"expansions,omitempty" yaml:"expansions,omitempty"`
}

type ClassifyResult struct {
	Patterns []ClassifiedPattern
}
