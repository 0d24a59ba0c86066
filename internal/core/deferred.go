package core

import "target-resolver/internal/types"

// DeferredKeys is the frozen per-call table of resolution keys queued for the
// batched universe call. A key is either an input pattern or an alias
// expansion; owners maps each key to every input pattern that receives
// its result. Two aliases expanding to the same target both keep their
// attribution.
type DeferredKeys struct {
	keys   []string
	owners map[string][]string
}

func (d DeferredKeys) Len() int {
	return len(d.keys)
}

// Keys returns the keys in first-seen order.
func (d DeferredKeys) Keys() []string {
	return append([]string(nil), d.keys...)
}

func (d DeferredKeys) Owners(key string) []string {
	return append([]string(nil), d.owners[key]...)
}

// Rekey attributes per-key results to the input patterns. A pattern fed
// by several keys gets the union of their sets. Keys missing from results
// contribute an empty set so every owner is present in the output.
func (d DeferredKeys) Rekey(results map[string]types.ResolutionSet) types.PatternResultMap {
	out := types.PatternResultMap{}
	for _, key := range d.keys {
		set := results[key]
		for _, pattern := range d.owners[key] {
			existing, ok := out[pattern]
			if !ok {
				out[pattern] = types.NewResolutionSet(set...)
				continue
			}
			out[pattern] = existing.Union(set)
		}
	}
	return out
}

type deferredBuilder struct {
	keys   []string
	owners map[string][]string
}

func newDeferredBuilder() *deferredBuilder {
	return &deferredBuilder{owners: map[string][]string{}}
}

func (b *deferredBuilder) add(key string, pattern string) {
	owners, seen := b.owners[key]
	if !seen {
		b.keys = append(b.keys, key)
	}
	for _, owner := range owners {
		if owner == pattern {
			return
		}
	}
	b.owners[key] = append(owners, pattern)
}

func (b *deferredBuilder) build() DeferredKeys {
	owners := make(map[string][]string, len(b.owners))
	for key, patterns := range b.owners {
		owners[key] = append([]string(nil), patterns...)
	}
	return DeferredKeys{
		keys:   append([]string(nil), b.keys...),
		owners: owners,
	}
}
