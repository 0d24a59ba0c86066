package adapters

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"k8s.io/apimachinery/pkg/util/sets"
)

var aliasNamePattern = regexp.MustCompile(`^[A-Za-z_-][A-Za-z0-9_-]*$`)

// aliasFetcher returns the raw value stored for an alias name.
type aliasFetcher func(ctx context.Context, name string) (string, bool, error)

// isAliasName reports whether value is syntactically an alias name.
func isAliasName(value string) bool {
	return aliasNamePattern.MatchString(value)
}

// splitAliasFlavor separates "name#flavor" into its parts.
func splitAliasFlavor(pattern string) (string, string) {
	name, flavor, _ := strings.Cut(strings.TrimSpace(pattern), "#")
	return name, flavor
}

// expandAlias resolves name into fully-qualified targets, following entries
// that name other aliases. The result keeps first-seen order.
func expandAlias(ctx context.Context, name string, fetch aliasFetcher) ([]string, error) {
	var out []string
	emitted := sets.New[string]()
	visiting := sets.New[string]()
	var walk func(current string, chain []string) (bool, error)
	walk = func(current string, chain []string) (bool, error) {
		value, ok, err := fetch(ctx, current)
		if err != nil || !ok {
			return false, err
		}
		if visiting.Has(current) {
			return false, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("alias cycle detected: %s", strings.Join(append(chain, current), " -> ")))
		}
		visiting.Insert(current)
		defer visiting.Delete(current)
		for _, entry := range strings.Fields(value) {
			if isAliasName(entry) {
				found, err := walk(entry, append(chain, current))
				if err != nil {
					return false, err
				}
				if !found {
					return false, errbuilder.New().
						WithCode(errbuilder.CodeInvalidArgument).
						WithMsg(fmt.Sprintf("alias %s references unknown alias %s", current, entry))
				}
				continue
			}
			target, err := normalizeAliasTarget(entry)
			if err != nil {
				return false, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("alias %s has invalid target", current)).
					WithCause(err)
			}
			if emitted.Has(target) {
				continue
			}
			emitted.Insert(target)
			out = append(out, target)
		}
		return true, nil
	}
	if _, err := walk(name, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeAliasTarget turns //pkg into //pkg:pkg and validates the shape
// of a fully-qualified target.
func normalizeAliasTarget(entry string) (string, error) {
	idx := strings.Index(entry, "//")
	if idx < 0 {
		return "", fmt.Errorf("%s is not a fully-qualified build target", entry)
	}
	if strings.Contains(entry, "...") {
		return "", fmt.Errorf("%s is a pattern, not a build target", entry)
	}
	cell := entry[:idx]
	rest := strings.TrimSuffix(entry[idx+2:], "/")
	base, name, hasName := strings.Cut(rest, ":")
	if !hasName {
		short := base
		if slash := strings.LastIndex(base, "/"); slash >= 0 {
			short = base[slash+1:]
		}
		name = short
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%s has an empty target name", entry)
	}
	return cell + "//" + base + ":" + name, nil
}

// appendAliasFlavor adds flavor to every expansion, merging with flavors
// the expansion already carries.
func appendAliasFlavor(targets []string, flavor string) []string {
	if flavor == "" {
		return targets
	}
	out := make([]string, 0, len(targets))
	for _, target := range targets {
		if strings.Contains(target, "#") {
			out = append(out, target+","+flavor)
			continue
		}
		out = append(out, target+"#"+flavor)
	}
	return out
}
