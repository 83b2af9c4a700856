package decl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v2"

	"github.com/wippyai/typelayout/errors"
)

// File is a set of struct declarations.
type File struct {
	// Target is the pointer width pointers are declared with: "32", "64",
	// "wasm32" or "host". Empty means host.
	Target    string     `toml:"target" yaml:"target"`
	Lifetimes []Lifetime `toml:"lifetimes" yaml:"lifetimes"`
	Types     []Type     `toml:"types" yaml:"types"`
}

// Lifetime declares a named lifetime nested in Outer. An empty Outer is
// 'static; an outer lifetime must be declared before the lifetimes inside it.
type Lifetime struct {
	Name  string `toml:"name" yaml:"name"`
	Outer string `toml:"outer" yaml:"outer"`
}

// Type declares a struct.
type Type struct {
	Name   string  `toml:"name" yaml:"name"`
	Rule   string  `toml:"rule" yaml:"rule"`
	Fields []Field `toml:"fields" yaml:"fields"`
}

// Field declares a struct field. Type is a type expression, see Parse.
type Field struct {
	Name string `toml:"name" yaml:"name"`
	Type string `toml:"type" yaml:"type"`
}

// ParseTOML decodes declarations in TOML form.
func ParseTOML(data []byte) (*File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.ParseFailed("toml declarations", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
			Detail("unknown key %s", undecoded[0]).
			Build()
	}
	return &f, nil
}

// ParseYAML decodes declarations in YAML form. Unknown keys are rejected.
func ParseYAML(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.SetStrict(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.ParseFailed("yaml declarations", err)
	}
	return &f, nil
}

// LoadFile reads declarations from path, choosing the format by extension.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	}
	return nil, errors.Unsupported(errors.PhaseLoad, "declaration file format "+filepath.Ext(path))
}
