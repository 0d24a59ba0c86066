package types

import "strings"

// TargetNodeSpec is a parsed request for one or more build targets.
// Source is the resolution key the spec was parsed from; the evaluator uses
// it to attribute results back to that key.
type TargetNodeSpec struct {
	Kind     SpecKind `yaml:"kind" json:"kind"`
	Cell     string   `yaml:"cell,omitempty" json:"cell,omitempty"`
	BasePath string   `yaml:"base_path" json:"base_path"`
	Name     string   `yaml:"name,omitempty" json:"name,omitempty"`
	Flavors  []string `yaml:"flavors,omitempty" json:"flavors,omitempty"`
	Source   string   `yaml:"source,omitempty" json:"source,omitempty"`
}

func (s TargetNodeSpec) String() string {
	base := s.Cell + "//" + strings.Trim(s.BasePath, "/")
	switch s.Kind {
	case SpecKindRecursive:
		if strings.Trim(s.BasePath, "/") == "" {
			return s.Cell + "//..."
		}
		return base + "/..."
	case SpecKindPackage:
		return base + ":"
	default:
		name := base + ":" + s.Name
		if len(s.Flavors) > 0 {
			name += "#" + strings.Join(s.Flavors, ",")
		}
		return name
	}
}
