package types

import "sort"

// ResolutionSet is a sorted, duplicate-free collection of resolved targets.
// Build one with NewResolutionSet; the zero value is an empty set.
type ResolutionSet []ResolvedTarget

func NewResolutionSet(items ...ResolvedTarget) ResolutionSet {
	if len(items) == 0 {
		return ResolutionSet{}
	}
	sorted := append([]ResolvedTarget(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CompareResolved(sorted[i], sorted[j]) < 0
	})
	out := make(ResolutionSet, 0, len(sorted))
	for _, item := range sorted {
		if len(out) > 0 && CompareResolved(out[len(out)-1], item) == 0 {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Union merges two sets into a new sorted set.
func (s ResolutionSet) Union(other ResolutionSet) ResolutionSet {
	merged := make([]ResolvedTarget, 0, len(s)+len(other))
	merged = append(merged, s...)
	merged = append(merged, other...)
	return NewResolutionSet(merged...)
}

func (s ResolutionSet) Len() int {
	return len(s)
}

func (s ResolutionSet) Contains(target ResolvedTarget) bool {
	idx := sort.Search(len(s), func(i int) bool {
		return CompareResolved(s[i], target) >= 0
	})
	return idx < len(s) && CompareResolved(s[idx], target) == 0
}

func (s ResolutionSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, item := range s {
		out = append(out, item.String())
	}
	return out
}

// PatternResultMap maps every pattern supplied to a resolve call to its
// resolution set.
type PatternResultMap map[string]ResolutionSet

// Patterns returns the keys in sorted order.
func (m PatternResultMap) Patterns() []string {
	out := make([]string, 0, len(m))
	for pattern := range m {
		out = append(out, pattern)
	}
	sort.Strings(out)
	return out
}
