package adapters

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"target-resolver/internal/ports"
	"target-resolver/internal/types"
)

// AliasConfigAdapter serves aliases from an in-memory table, typically the
// alias section of a config file. The table is validated on construction so
// lookups of defined aliases never fail.
type AliasConfigAdapter struct {
	aliases map[string]string
}

func NewAliasConfigAdapter(aliases map[string]string) (*AliasConfigAdapter, error) {
	adapter := &AliasConfigAdapter{aliases: make(map[string]string, len(aliases))}
	for name, value := range aliases {
		trimmed := strings.TrimSpace(name)
		if !isAliasName(trimmed) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid alias name: %q", name))
		}
		if strings.TrimSpace(value) == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("alias %s has no targets", trimmed))
		}
		adapter.aliases[trimmed] = value
	}
	ctx := context.Background()
	for _, name := range adapter.Names() {
		if _, err := expandAlias(ctx, name, adapter.fetch); err != nil {
			return nil, err
		}
	}
	log.Debug().Int("aliases", len(adapter.aliases)).Msg("alias table loaded")
	return adapter, nil
}

// LoadAliasConfigFile reads a YAML alias file.
func LoadAliasConfigFile(path string) (*AliasConfigAdapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("alias file not found: " + path).
			WithCause(err)
	}
	var file types.AliasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse alias file: " + path).
			WithCause(err)
	}
	return NewAliasConfigAdapter(file.Alias)
}

func (a *AliasConfigAdapter) Lookup(ctx context.Context, pattern string) ([]string, error) {
	name, flavor := splitAliasFlavor(pattern)
	if !isAliasName(name) {
		return nil, nil
	}
	targets, err := expandAlias(ctx, name, a.fetch)
	if err != nil {
		return nil, err
	}
	return appendAliasFlavor(targets, flavor), nil
}

// Names returns the defined alias names in sorted order.
func (a *AliasConfigAdapter) Names() []string {
	names := make([]string, 0, len(a.aliases))
	for name := range a.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Raw returns a copy of the unexpanded table.
func (a *AliasConfigAdapter) Raw() map[string]string {
	out := make(map[string]string, len(a.aliases))
	for name, value := range a.aliases {
		out[name] = value
	}
	return out
}

func (a *AliasConfigAdapter) fetch(_ context.Context, name string) (string, bool, error) {
	value, ok := a.aliases[name]
	return value, ok, nil
}

var _ ports.AliasTablePort = (*AliasConfigAdapter)(nil)
