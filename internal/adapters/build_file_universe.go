package adapters

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog/log"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/sets"

	"target-resolver/internal/ports"
	"target-resolver/internal/types"
)

const (
	DefaultBuildFileName   = "BUILD.hcl"
	defaultUniverseWorkers = 8
)

type buildFileConfig struct {
	Targets []buildTargetBlock `hcl:"target,block"`
}

type buildTargetBlock struct {
	Name    string   `hcl:"name,label"`
	Kind    string   `hcl:"kind,optional"`
	Srcs    []string `hcl:"srcs,optional"`
	Deps    []string `hcl:"deps,optional"`
	Flavors []string `hcl:"flavors,optional"`
	Labels  []string `hcl:"labels,optional"`
}

type packageKey struct {
	cell string
	path string
}

func (k packageKey) String() string {
	return k.cell + "//" + k.path
}

// buildPackage is one parsed BUILD file. A nil *buildPackage in the cache
// means the directory has no BUILD file.
type buildPackage struct {
	key     packageKey
	targets map[string]buildTargetBlock
	names   []string
}

// BuildFileUniverse answers target specs from HCL BUILD files found under
// ProjectRoot. Cells maps extra cell names onto their root directories.
// Parsed packages are kept for the lifetime of the universe.
type BuildFileUniverse struct {
	ProjectRoot   string
	BuildFileName string
	Workers       int
	Cells         map[string]string

	mu       sync.Mutex
	packages map[packageKey]*buildPackage
}

func NewBuildFileUniverse(projectRoot string, buildFileName string, workers int) *BuildFileUniverse {
	if buildFileName == "" {
		buildFileName = DefaultBuildFileName
	}
	if workers <= 0 {
		workers = defaultUniverseWorkers
	}
	return &BuildFileUniverse{
		ProjectRoot:   projectRoot,
		BuildFileName: buildFileName,
		Workers:       workers,
		packages:      map[packageKey]*buildPackage{},
	}
}

func (u *BuildFileUniverse) ResolveSpecs(ctx context.Context, specs []types.TargetNodeSpec, config types.TargetConfiguration) ([][]types.BuildTarget, error) {
	needed := map[packageKey]struct{}{}
	recursive := make(map[int][]packageKey)
	for idx, spec := range specs {
		if spec.Kind == types.SpecKindRecursive {
			keys, err := u.discoverPackages(ctx, spec.Cell, spec.BasePath)
			if err != nil {
				return nil, err
			}
			recursive[idx] = keys
			for _, key := range keys {
				needed[key] = struct{}{}
			}
			continue
		}
		needed[packageKey{cell: spec.Cell, path: spec.BasePath}] = struct{}{}
	}
	if err := u.loadPackages(ctx, needed); err != nil {
		return nil, err
	}

	out := make([][]types.BuildTarget, len(specs))
	for idx, spec := range specs {
		switch spec.Kind {
		case types.SpecKindRecursive:
			var targets []types.BuildTarget
			for _, key := range recursive[idx] {
				targets = append(targets, u.cached(key).all(config)...)
			}
			out[idx] = targets
		case types.SpecKindPackage:
			pkg, err := u.requirePackage(spec)
			if err != nil {
				return nil, err
			}
			out[idx] = pkg.all(config)
		default:
			pkg, err := u.requirePackage(spec)
			if err != nil {
				return nil, err
			}
			target, err := pkg.target(spec, config)
			if err != nil {
				return nil, err
			}
			out[idx] = []types.BuildTarget{target}
		}
	}
	log.Debug().Int("specs", len(specs)).Int("packages", len(needed)).Msg("resolved specs against build files")
	return out, nil
}

func (u *BuildFileUniverse) requirePackage(spec types.TargetNodeSpec) (*buildPackage, error) {
	key := packageKey{cell: spec.Cell, path: spec.BasePath}
	pkg := u.cached(key)
	if pkg == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no %s file for package %s", u.BuildFileName, key))
	}
	return pkg, nil
}

func (u *BuildFileUniverse) cached(key packageKey) *buildPackage {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.packages[key]
}

func (u *BuildFileUniverse) loadPackages(ctx context.Context, needed map[packageKey]struct{}) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(u.Workers)
	for key := range needed {
		u.mu.Lock()
		if u.packages == nil {
			u.packages = map[packageKey]*buildPackage{}
		}
		_, loaded := u.packages[key]
		u.mu.Unlock()
		if loaded {
			continue
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			pkg, err := u.parsePackage(key)
			if err != nil {
				return err
			}
			u.mu.Lock()
			u.packages[key] = pkg
			u.mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (u *BuildFileUniverse) parsePackage(key packageKey) (*buildPackage, error) {
	root, err := u.cellRoot(key.cell)
	if err != nil {
		return nil, err
	}
	file := filepath.Join(root, filepath.FromSlash(key.path), u.BuildFileName)
	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", file, err)
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse %s: %s", file, diags.Error()))
	}
	var config buildFileConfig
	if diags := gohcl.DecodeBody(hclFile.Body, packageEvalContext(key), &config); diags.HasErrors() {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to decode %s: %s", file, diags.Error()))
	}

	pkg := &buildPackage{key: key, targets: make(map[string]buildTargetBlock, len(config.Targets))}
	for _, block := range config.Targets {
		if _, dup := pkg.targets[block.Name]; dup {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("duplicate target %q in %s", block.Name, file))
		}
		pkg.targets[block.Name] = block
		pkg.names = append(pkg.names, block.Name)
	}
	sort.Strings(pkg.names)
	log.Debug().Str("package", key.String()).Int("targets", len(pkg.names)).Msg("loaded build file")
	return pkg, nil
}

// packageEvalContext exposes package.name and package.path to BUILD files.
func packageEvalContext(key packageKey) *hcl.EvalContext {
	name := path.Base(key.path)
	if key.path == "" {
		name = ""
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"package": cty.ObjectVal(map[string]cty.Value{
				"name": cty.StringVal(name),
				"path": cty.StringVal(key.path),
			}),
		},
	}
}

func (u *BuildFileUniverse) discoverPackages(ctx context.Context, cell string, base string) ([]packageKey, error) {
	root, err := u.cellRoot(cell)
	if err != nil {
		return nil, err
	}
	start := filepath.Join(root, filepath.FromSlash(base))
	info, err := os.Stat(start)
	if err != nil || !info.IsDir() {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("directory %s//%s does not exist", cell, base))
	}
	found := sets.New[string]()
	err = filepath.WalkDir(start, func(current string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if current != start && shouldSkipProjectDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != u.BuildFileName {
			return nil
		}
		rel, ok := relativeToRoot(root, filepath.Dir(current))
		if !ok {
			return nil
		}
		if rel == "." {
			rel = ""
		}
		found.Insert(rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	keys := make([]packageKey, 0, found.Len())
	for _, rel := range sets.List(found) {
		keys = append(keys, packageKey{cell: cell, path: rel})
	}
	return keys, nil
}

func (u *BuildFileUniverse) cellRoot(cell string) (string, error) {
	if cell == "" {
		if u.ProjectRoot == "" {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("project root is empty")
		}
		return u.ProjectRoot, nil
	}
	root, ok := u.Cells[cell]
	if !ok {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown cell %q", cell))
	}
	return root, nil
}

func (p *buildPackage) all(config types.TargetConfiguration) []types.BuildTarget {
	if p == nil {
		return nil
	}
	out := make([]types.BuildTarget, 0, len(p.names))
	for _, name := range p.names {
		out = append(out, p.build(name, nil, config))
	}
	return out
}

func (p *buildPackage) target(spec types.TargetNodeSpec, config types.TargetConfiguration) (types.BuildTarget, error) {
	block, ok := p.targets[spec.Name]
	if !ok {
		return types.BuildTarget{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no target named %q in package %s", spec.Name, p.key))
	}
	declared := sets.New(block.Flavors...)
	for _, flavor := range spec.Flavors {
		if !declared.Has(flavor) {
			return types.BuildTarget{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("target %s:%s does not declare flavor %q", p.key, spec.Name, flavor))
		}
	}
	return p.build(spec.Name, spec.Flavors, config), nil
}

func (p *buildPackage) build(name string, flavors []string, config types.TargetConfiguration) types.BuildTarget {
	return types.BuildTarget{
		Unconfigured: types.UnconfiguredTarget{
			Cell:      p.key.cell,
			BaseName:  "//" + p.key.path,
			ShortName: name,
			Flavors:   append([]string(nil), flavors...),
		},
		Configuration: config,
	}
}

var _ ports.UniverseResolverPort = (*BuildFileUniverse)(nil)
