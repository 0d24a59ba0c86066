package types

// Disposition is the closed set of ways a pattern can be resolved.
type Disposition string

const (
	DispositionAlias       Disposition = "alias"
	DispositionBuildTarget Disposition = "build-target"
	DispositionFile        Disposition = "file"
)

type SpecKind string

const (
	// SpecKindTarget matches a single named target, e.g. //foo:bar.
	SpecKindTarget SpecKind = "target"
	// SpecKindPackage matches every target in one package, e.g. //foo:.
	SpecKindPackage SpecKind = "package"
	// SpecKindRecursive matches every target in a package and below it, e.g. //foo/...
	SpecKindRecursive SpecKind = "recursive"
)

type ResolvedKind string

const (
	ResolvedKindBuildTarget ResolvedKind = "build-target"
	ResolvedKindFile        ResolvedKind = "file"
)

type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)
