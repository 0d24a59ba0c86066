package adapters

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"target-resolver/internal/ports"
	"target-resolver/internal/types"
)

var patternCharset = regexp.MustCompile(`^[A-Za-z0-9_./+=,@~:#-]*$`)

// CommandLineSpecParser parses build-target patterns as typed on the command
// line. Patterns without // resolve relative to WorkingDir, which is either
// absolute (and then taken relative to ProjectRoot) or already
// root-relative.
type CommandLineSpecParser struct {
	ProjectRoot string
	WorkingDir  string
}

func NewCommandLineSpecParser(projectRoot string, workingDir string) CommandLineSpecParser {
	return CommandLineSpecParser{ProjectRoot: projectRoot, WorkingDir: workingDir}
}

func (p CommandLineSpecParser) Parse(_ context.Context, pattern string) ([]types.TargetNodeSpec, error) {
	spec, err := p.parse(pattern)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid build target pattern %q: %s", pattern, err.Error()))
	}
	spec.Source = pattern
	return []types.TargetNodeSpec{spec}, nil
}

func (p CommandLineSpecParser) parse(pattern string) (types.TargetNodeSpec, error) {
	raw := strings.TrimSpace(pattern)
	if raw == "" {
		return types.TargetNodeSpec{}, fmt.Errorf("pattern is empty")
	}
	if !patternCharset.MatchString(raw) {
		return types.TargetNodeSpec{}, fmt.Errorf("pattern contains unsupported characters")
	}
	if raw == "..." {
		raw = "//..."
	}

	var cell, rest string
	if idx := strings.Index(raw, "//"); idx >= 0 {
		cell, rest = raw[:idx], raw[idx+2:]
		if strings.ContainsAny(cell, "/:#") {
			return types.TargetNodeSpec{}, fmt.Errorf("invalid cell name %q", cell)
		}
	} else {
		if strings.HasPrefix(raw, "/") {
			return types.TargetNodeSpec{}, fmt.Errorf("absolute patterns must start with //")
		}
		dir, err := p.relativeWorkingDir()
		if err != nil {
			return types.TargetNodeSpec{}, err
		}
		rest = joinPackagePath(dir, raw)
	}

	var flavors []string
	if body, flavorList, ok := strings.Cut(rest, "#"); ok {
		rest = body
		for _, flavor := range strings.Split(flavorList, ",") {
			if flavor = strings.TrimSpace(flavor); flavor != "" {
				flavors = append(flavors, flavor)
			}
		}
		if len(flavors) == 0 {
			return types.TargetNodeSpec{}, fmt.Errorf("empty flavor list")
		}
	}

	if rest == "..." || strings.HasSuffix(rest, "/...") {
		base := strings.TrimSuffix(strings.TrimSuffix(rest, "..."), "/")
		if strings.Contains(base, ":") {
			return types.TargetNodeSpec{}, fmt.Errorf("recursive patterns cannot name a target")
		}
		if len(flavors) > 0 {
			return types.TargetNodeSpec{}, fmt.Errorf("recursive patterns cannot carry flavors")
		}
		if err := validatePackagePath(base); err != nil {
			return types.TargetNodeSpec{}, err
		}
		return types.TargetNodeSpec{Kind: types.SpecKindRecursive, Cell: cell, BasePath: base}, nil
	}

	base, name, hasName := strings.Cut(rest, ":")
	base = strings.TrimSuffix(base, "/")
	if err := validatePackagePath(base); err != nil {
		return types.TargetNodeSpec{}, err
	}
	if strings.Contains(name, ":") {
		return types.TargetNodeSpec{}, fmt.Errorf("target name contains ':'")
	}
	if hasName && name == "" {
		if len(flavors) > 0 {
			return types.TargetNodeSpec{}, fmt.Errorf("package patterns cannot carry flavors")
		}
		return types.TargetNodeSpec{Kind: types.SpecKindPackage, Cell: cell, BasePath: base}, nil
	}
	if !hasName {
		name = path.Base(base)
		if base == "" {
			return types.TargetNodeSpec{}, fmt.Errorf("pattern names no package or target")
		}
	}
	if strings.Contains(name, "/") {
		return types.TargetNodeSpec{}, fmt.Errorf("target name contains '/'")
	}
	return types.TargetNodeSpec{
		Kind:     types.SpecKindTarget,
		Cell:     cell,
		BasePath: base,
		Name:     name,
		Flavors:  flavors,
	}, nil
}

// relativeWorkingDir returns the package prefix for relative patterns. An
// absolute working directory must lie inside ProjectRoot.
func (p CommandLineSpecParser) relativeWorkingDir() (string, error) {
	cwd := p.WorkingDir
	if cwd == "" {
		return "", nil
	}
	if filepath.IsAbs(cwd) {
		if p.ProjectRoot == "" {
			return "", fmt.Errorf("working directory %s needs a project root", cwd)
		}
		rel, ok := relativeToRoot(filepath.Clean(p.ProjectRoot), filepath.Clean(cwd))
		if !ok {
			return "", fmt.Errorf("working directory %s is outside project root %s", cwd, p.ProjectRoot)
		}
		cwd = rel
	}
	cwd = filepath.ToSlash(cwd)
	if cwd == "." {
		return "", nil
	}
	return strings.Trim(cwd, "/"), nil
}

func joinPackagePath(dir string, pattern string) string {
	if dir == "" {
		return pattern
	}
	if strings.HasPrefix(pattern, ":") {
		return dir + pattern
	}
	return dir + "/" + pattern
}

func validatePackagePath(base string) error {
	if base == "" {
		return nil
	}
	if strings.HasPrefix(base, "/") {
		return fmt.Errorf("package path %q has a leading slash", base)
	}
	for _, segment := range strings.Split(base, "/") {
		switch segment {
		case "":
			return fmt.Errorf("package path %q has an empty segment", base)
		case ".", "..":
			return fmt.Errorf("package path %q has a relative segment", base)
		case "...":
			return fmt.Errorf("'...' is only allowed at the end of a pattern")
		}
	}
	return nil
}

var _ ports.SpecParserPort = CommandLineSpecParser{}
