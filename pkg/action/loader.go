package action

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/kinematics"
	"github.com/teslashibe/go-pointlight/pkg/motion"
	"github.com/teslashibe/go-pointlight/pkg/projection"
	"github.com/teslashibe/go-pointlight/pkg/skeleton"
	"gonum.org/v1/gonum/spatial/r3"
)

// ActionFile is the YAML layout of a custom keyframe action.
//
//	name: curtsy
//	description: small curtsy
//	period: 2
//	easing: cosine
//	view: profile
//	keyframes:
//	  - name: stand
//	    phase: 0
//	  - name: dip
//	    phase: 0.5
//	    joints:
//	      pelvis: [0, 0.8, -0.05]
//	  - name: stand
//	    phase: 1
//
// Joints a keyframe leaves out stay at their rest position.
type ActionFile struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Period      float64        `yaml:"period"`
	Easing      string         `yaml:"easing"`
	Cyclic      bool           `yaml:"cyclic"`
	Loop        *bool          `yaml:"loop"`
	Projection  string         `yaml:"projection"`
	View        string         `yaml:"view"`
	Keyframes   []KeyframeFile `yaml:"keyframes"`
}

// KeyframeFile is one keyframe of an ActionFile.
type KeyframeFile struct {
	Name   string                `yaml:"name"`
	Phase  float64               `yaml:"phase"`
	Joints map[string][3]float64 `yaml:"joints"`
}

// LoadFromFile loads a custom action from a YAML file. The action name
// defaults to the file name without extension.
func LoadFromFile(path string) (*Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read action file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseAction(name, data)
}

// LoadFromDirectory loads every *.yaml and *.yml file in dir.
func LoadFromDirectory(dir string) ([]*Action, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to list action files: %w", err)
		}
		files = append(files, matches...)
	}

	var actions []*Action
	for _, file := range files {
		a, err := LoadFromFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// ParseAction parses YAML into an action. fallbackName is used when the
// document has no name. Joint names are checked when the action is built,
// since they depend on the skeleton.
func ParseAction(fallbackName string, data []byte) (*Action, error) {
	var f ActionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse action YAML: %w", err)
	}
	if f.Name == "" {
		f.Name = fallbackName
	}
	f.Name = strings.ToLower(strings.TrimSpace(f.Name))
	if f.Name == "" {
		return nil, errs.Config("action", "action file has no name")
	}
	if len(f.Keyframes) < 2 {
		return nil, errs.Config("action", "action %q needs at least 2 keyframes", f.Name)
	}
	if f.Period <= 0 {
		return nil, errs.Config("action", "action %q needs a positive period", f.Name)
	}

	easing, err := motion.ParseEasing(f.Easing)
	if err != nil {
		return nil, err
	}
	mode, err := projection.ParseMode(f.Projection)
	if err != nil {
		return nil, err
	}
	base, err := parseView(f.View)
	if err != nil {
		return nil, err
	}

	loop := f.Cyclic
	if f.Loop != nil {
		loop = *f.Loop
	}

	return &Action{
		Name:        Name(f.Name),
		Description: f.Description,
		Custom:      true,
		Build: func(skel *skeleton.Skeleton, mods Modifiers) (*Preset, error) {
			keys := make([]key, len(f.Keyframes))
			for i, kf := range f.Keyframes {
				moved := make(joints, len(kf.Joints))
				for id, p := range kf.Joints {
					moved[id] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
				}
				keys[i] = key{name: kf.Name, phase: kf.Phase, moved: moved}
			}
			set, err := keyframes(skel, mods, f.Cyclic, keys...)
			if err != nil {
				return nil, err
			}
			return keyframePreset(set, f.Period/mods.Speed(), easing, kinematics.Static(base), mode, loop)
		},
	}, nil
}

func parseView(view string) (kinematics.RigidTransform, error) {
	switch strings.ToLower(strings.TrimSpace(view)) {
	case "", "front":
		return kinematics.Identity(), nil
	case "profile", "side":
		return profile, nil
	default:
		return kinematics.Identity(), errs.Config("action", "unknown view %q (want front|profile)", view)
	}
}
