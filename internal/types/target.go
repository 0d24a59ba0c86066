package types

import (
	"sort"
	"strings"
)

// UnconfiguredTarget is a fully-qualified build target name without a
// configuration. BaseName always carries the leading "//".
type UnconfiguredTarget struct {
	Cell      string   `yaml:"cell,omitempty" json:"cell,omitempty"`
	BaseName  string   `yaml:"base_name" json:"base_name"`
	ShortName string   `yaml:"short_name" json:"short_name"`
	Flavors   []string `yaml:"flavors,omitempty" json:"flavors,omitempty"`
}

// FullyQualifiedName renders cell//pkg:name#flavor1,flavor2.
func (t UnconfiguredTarget) FullyQualifiedName() string {
	var builder strings.Builder
	builder.WriteString(t.Cell)
	builder.WriteString(t.BaseName)
	builder.WriteString(":")
	builder.WriteString(t.ShortName)
	if len(t.Flavors) > 0 {
		flavors := append([]string(nil), t.Flavors...)
		sort.Strings(flavors)
		builder.WriteString("#")
		builder.WriteString(strings.Join(flavors, ","))
	}
	return builder.String()
}

// PackagePath returns the package directory relative to the cell root.
func (t UnconfiguredTarget) PackagePath() string {
	return strings.TrimPrefix(t.BaseName, "//")
}

type TargetConfiguration struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

func (c TargetConfiguration) IsUnconfigured() bool {
	return strings.TrimSpace(c.Name) == ""
}

type BuildTarget struct {
	Unconfigured  UnconfiguredTarget  `yaml:"target" json:"target"`
	Configuration TargetConfiguration `yaml:"configuration,omitempty" json:"configuration,omitempty"`
}

func (t BuildTarget) String() string {
	name := t.Unconfigured.FullyQualifiedName()
	if t.Configuration.IsUnconfigured() {
		return name
	}
	return name + " (" + t.Configuration.Name + ")"
}

// ResolvedTarget is either a BuildTargetRef or a FileTargetRef. The
// unexported method keeps the set closed.
type ResolvedTarget interface {
	Kind() ResolvedKind
	String() string
	resolvedTarget()
}

type BuildTargetRef struct {
	Target BuildTarget
}

func (BuildTargetRef) Kind() ResolvedKind { return ResolvedKindBuildTarget }

func (r BuildTargetRef) String() string { return r.Target.String() }

func (BuildTargetRef) resolvedTarget() {}

type FileTargetRef struct {
	Path string
}

func (FileTargetRef) Kind() ResolvedKind { return ResolvedKindFile }

func (r FileTargetRef) String() string { return r.Path }

func (FileTargetRef) resolvedTarget() {}

// CompareResolved is the total ordering over resolved targets. Build
// targets sort before files; build targets compare by fully-qualified name
// and then configuration, files by path.
func CompareResolved(a, b ResolvedTarget) int {
	if a.Kind() != b.Kind() {
		if a.Kind() == ResolvedKindBuildTarget {
			return -1
		}
		return 1
	}
	switch left := a.(type) {
	case BuildTargetRef:
		right := b.(BuildTargetRef)
		if c := strings.Compare(left.Target.Unconfigured.FullyQualifiedName(), right.Target.Unconfigured.FullyQualifiedName()); c != 0 {
			return c
		}
		return strings.Compare(left.Target.Configuration.Name, right.Target.Configuration.Name)
	case FileTargetRef:
		return strings.Compare(left.Path, b.(FileTargetRef).Path)
	default:
		return strings.Compare(a.String(), b.String())
	}
}
