package adapters

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
	"k8s.io/apimachinery/pkg/util/sets"

	"target-resolver/internal/ports"
)

// FileCanonicalizerAdapter maps path arguments onto files under ProjectRoot.
// Relative arguments resolve against WorkingDir. Arguments containing glob
// metacharacters are expanded against the files under the root.
type FileCanonicalizerAdapter struct {
	ProjectRoot string
	WorkingDir  string
}

func NewFileCanonicalizerAdapter(projectRoot string, workingDir string) FileCanonicalizerAdapter {
	if workingDir == "" {
		workingDir = projectRoot
	}
	return FileCanonicalizerAdapter{ProjectRoot: projectRoot, WorkingDir: workingDir}
}

func (a FileCanonicalizerAdapter) Canonicalize(ctx context.Context, patterns []string) (ports.ReferencedFiles, error) {
	if a.ProjectRoot == "" {
		return ports.ReferencedFiles{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project root is empty")
	}
	root, err := filepath.Abs(a.ProjectRoot)
	if err != nil {
		return ports.ReferencedFiles{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid project root: " + a.ProjectRoot).
			WithCause(err)
	}
	cwd := a.WorkingDir
	if cwd == "" {
		cwd = root
	} else if !filepath.IsAbs(cwd) {
		cwd = filepath.Join(root, cwd)
	}

	existing := sets.New[string]()
	missing := sets.New[string]()
	for _, pattern := range patterns {
		if err := ctx.Err(); err != nil {
			return ports.ReferencedFiles{}, err
		}
		abs := pattern
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, pattern)
		}
		abs = filepath.Clean(abs)
		rel, ok := relativeToRoot(root, abs)
		if !ok {
			missing.Insert(abs)
			continue
		}
		_, err := os.Stat(abs)
		if err == nil {
			existing.Insert(rel)
			continue
		}
		if !os.IsNotExist(err) {
			return ports.ReferencedFiles{}, fmt.Errorf("stat %s: %w", abs, err)
		}
		// A literal path wins over glob expansion, so a[1].txt is a file
		// when it exists.
		if !hasGlobMeta(rel) {
			missing.Insert(abs)
			continue
		}
		matches, err := a.expandGlob(ctx, root, rel)
		if err != nil {
			return ports.ReferencedFiles{}, err
		}
		if len(matches) == 0 {
			missing.Insert(abs)
			continue
		}
		existing.Insert(matches...)
	}
	log.Debug().
		Int("patterns", len(patterns)).
		Int("existing", existing.Len()).
		Int("missing", missing.Len()).
		Msg("canonicalized path arguments")
	return ports.ReferencedFiles{
		Existing: sets.List(existing),
		Missing:  sets.List(missing),
	}, nil
}

func (a FileCanonicalizerAdapter) expandGlob(ctx context.Context, root string, rel string) ([]string, error) {
	matcher, err := glob.Compile(rel, '/')
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid file glob: " + rel).
			WithCause(err)
	}
	var matches []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && shouldSkipProjectDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		candidate, ok := relativeToRoot(root, path)
		if ok && matcher.Match(candidate) {
			matches = append(matches, candidate)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// relativeToRoot returns abs relative to root in slash form, or false when
// abs is outside the root.
func relativeToRoot(root string, abs string) (string, bool) {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

func shouldSkipProjectDir(name string) bool {
	switch name {
	case ".git", ".hg", ".svn", "buck-out":
		return true
	default:
		return false
	}
}

var _ ports.FileCanonicalizerPort = FileCanonicalizerAdapter{}
