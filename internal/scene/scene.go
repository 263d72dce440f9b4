// Package scene loads scene descriptions and turns them into a running
// world of participants.
//
// A scene names its objects, the components and Lua scripts attached to
// each object, and a timeline of events the host injects at given frames.
// Scenes are written in TOML or YAML:
//
//	version = "1.0"
//
//	[[objects]]
//	name = "coin"
//	  [[objects.components]]
//	  type = "counter"
//	  params = { value = 10, max = 12 }
//
//	[[timeline]]
//	frame = 1
//	kinds = ["CounterModify"]
//	receivers = { objects = ["coin"] }
//	data = { bools = [false], ints = [5] }
package scene

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Scene is a scene document.
type Scene struct {
	Version  string   `toml:"version" yaml:"version" validate:"required,scene_version"`
	Name     string   `toml:"name" yaml:"name"`
	Objects  []Object `toml:"objects" yaml:"objects" validate:"dive"`
	Timeline []Entry  `toml:"timeline" yaml:"timeline" validate:"dive"`
}

// Object is one scene object and what is attached to it.
type Object struct {
	Name       string       `toml:"name" yaml:"name" validate:"required"`
	Tag        string       `toml:"tag" yaml:"tag"`
	Disabled   bool         `toml:"disabled" yaml:"disabled"`
	Input      Input        `toml:"input" yaml:"input"`
	Activators Activators   `toml:"activators" yaml:"activators"`
	Components []Component  `toml:"components" yaml:"components" validate:"dive"`
	Scripts    []ScriptSpec `toml:"scripts" yaml:"scripts" validate:"dive"`
}

// Component attaches a component type to an object.
type Component struct {
	Type     string               `toml:"type" yaml:"type" validate:"required"`
	Params   map[string]any       `toml:"params" yaml:"params"`
	Triggers map[string][]string  `toml:"triggers" yaml:"triggers"`
	Targets  map[string]Receivers `toml:"targets" yaml:"targets"`
}

// ScriptSpec attaches a Lua script to an object. Exactly one of Source and
// File is set; File is relative to the scene file.
type ScriptSpec struct {
	Source string   `toml:"source" yaml:"source" validate:"required_without=File,excluded_with=File"`
	File   string   `toml:"file" yaml:"file"`
	Listen []string `toml:"listen" yaml:"listen" validate:"dive,kind"`
}

// Receivers addresses objects by name or tag. "self" stands for the
// sending object. An empty Receivers is a broadcast.
type Receivers struct {
	Objects []string `toml:"objects" yaml:"objects"`
	Tags    []string `toml:"tags" yaml:"tags"`
}

// Input restricts which device inputs an object reacts to.
type Input struct {
	Buttons        []string `toml:"buttons" yaml:"buttons"`
	Keys           []string `toml:"keys" yaml:"keys"`
	Mouse          []string `toml:"mouse" yaml:"mouse"`
	Gamepad        []string `toml:"gamepad" yaml:"gamepad"`
	GamepadNumbers []string `toml:"gamepad_numbers" yaml:"gamepad_numbers"`
}

// Activators restricts which senders an object reacts to.
type Activators struct {
	Objects []string `toml:"objects" yaml:"objects"`
	Tags    []string `toml:"tags" yaml:"tags"`
}

// Entry is a timeline event published by the host at Frame. A missing
// Receivers broadcasts.
type Entry struct {
	Frame     int            `toml:"frame" yaml:"frame" validate:"gte=0"`
	Kinds     []string       `toml:"kinds" yaml:"kinds" validate:"required,min=1,dive,kind"`
	Sender    string         `toml:"sender" yaml:"sender"`
	Receivers *Receivers     `toml:"receivers" yaml:"receivers"`
	Data      map[string]any `toml:"data" yaml:"data"`
}

// Format is a scene file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Load reads and validates the scene at path.
func Load(path string) (*Scene, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene %s: %w", path, err)
	}
	sc, err := Parse(data, format)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if err := Validate(sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Parse decodes a scene without validating it. Unknown fields are
// rejected.
func Parse(data []byte, format Format) (*Scene, error) {
	var sc Scene
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&sc); err != nil {
			return nil, err
		}
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sc); err != nil {
			return nil, err
		}
	}
	return &sc, nil
}

// Encode writes sc in format.
func Encode(sc *Scene, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(sc)
	}
	return toml.Marshal(sc)
}
