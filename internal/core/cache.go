package core

import "target-resolver/internal/types"

// ResolutionCache memoizes pattern resolutions for the lifetime of one
// evaluator. Entries are never evicted: the cache is only valid while the
// backing target universe does not change. It is not safe for concurrent use.
type ResolutionCache struct {
	entries map[string]types.ResolutionSet
}

func NewResolutionCache() *ResolutionCache {
	return &ResolutionCache{
		entries: make(map[string]types.ResolutionSet, 32),
	}
}

func (c *ResolutionCache) Get(pattern string) (types.ResolutionSet, bool) {
	if c == nil {
		return nil, false
	}
	set, ok := c.entries[pattern]
	return set, ok
}

func (c *ResolutionCache) Put(pattern string, set types.ResolutionSet) {
	if c == nil {
		return
	}
	c.entries[pattern] = set
}

func (c *ResolutionCache) PutAll(results types.PatternResultMap) {
	for pattern, set := range results {
		c.Put(pattern, set)
	}
}

func (c *ResolutionCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
