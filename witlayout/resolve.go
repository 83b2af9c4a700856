package witlayout

import (
	"io"
	"sort"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/typelayout/errors"
)

// Load decodes a WIT resolve in the JSON form produced by
// `wasm-tools component wit --json`.
func Load(r io.Reader) (*wit.Resolve, error) {
	res, err := wit.DecodeJSON(r)
	if err != nil {
		return nil, errors.Load("decode wit json", err)
	}
	return res, nil
}

// Named returns the named type definitions of res sorted by name.
func Named(res *wit.Resolve) []*wit.TypeDef {
	var defs []*wit.TypeDef
	for _, td := range res.TypeDefs {
		if td.Name != nil && *td.Name != "" {
			defs = append(defs, td)
		}
	}
	sort.SliceStable(defs, func(i, j int) bool {
		return *defs[i].Name < *defs[j].Name
	})
	return defs
}

// Lookup resolves name to a type. Primitive names are parsed directly;
// other names match the first type definition of res with that name.
func Lookup(res *wit.Resolve, name string) (wit.Type, error) {
	if res != nil {
		for _, td := range res.TypeDefs {
			if td.Name != nil && *td.Name == name {
				return td, nil
			}
		}
	}
	if t, err := wit.ParseType(name); err == nil {
		return t, nil
	}
	return nil, errors.NotFound(errors.PhaseLoad, "type", name)
}
