package decl

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/typelayout/errors"
	"github.com/wippyai/typelayout/layout"
)

// Registry holds the types built from a File, by name.
type Registry struct {
	target    layout.Target
	decls     map[string]*Type
	types     map[string]*layout.Type
	arrays    map[string]*layout.Type
	lifetimes map[string]*layout.Lifetime
	visiting  map[string]bool
	order     []string
}

// ParseTarget parses a target name: "32", "64", "wasm32" or "host".
func ParseTarget(s string) (layout.Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "host":
		return layout.Host, nil
	case "32", "arch32":
		return layout.Arch32, nil
	case "64", "arch64":
		return layout.Arch64, nil
	case "wasm32":
		return layout.Wasm32, nil
	}
	return layout.Target{}, errors.InvalidInput(errors.PhaseConfig, "unknown target "+strconv.Quote(s))
}

// Build defines every declared type. Types may refer to each other in any
// order; a type may contain itself only behind a pointer.
func (f *File) Build() (*Registry, error) {
	target, err := ParseTarget(f.Target)
	if err != nil {
		return nil, err
	}
	r := &Registry{
		target:    target,
		decls:     make(map[string]*Type, len(f.Types)),
		types:     make(map[string]*layout.Type, len(f.Types)),
		arrays:    make(map[string]*layout.Type),
		lifetimes: make(map[string]*layout.Lifetime),
		visiting:  make(map[string]bool),
	}

	for _, l := range f.Lifetimes {
		if err := r.declareLifetime(l); err != nil {
			return nil, err
		}
	}

	for i := range f.Types {
		d := &f.Types[i]
		if d.Name == "" {
			return nil, errors.InvalidInput(errors.PhaseConfig, "type "+strconv.Itoa(i)+" has no name")
		}
		if _, ok := r.decls[d.Name]; ok {
			return nil, errors.InvalidInput(errors.PhaseConfig, "duplicate type "+strconv.Quote(d.Name))
		}
		if _, ok := builtin(target, d.Name); ok {
			return nil, errors.InvalidInput(errors.PhaseConfig, "type "+strconv.Quote(d.Name)+" shadows a builtin")
		}
		r.decls[d.Name] = d
		r.types[d.Name] = layout.NewType(d.Name)
		r.order = append(r.order, d.Name)
	}

	for _, name := range r.order {
		if err := r.define(name); err != nil {
			return nil, err
		}
	}

	layout.Logger().Debug("declarations built",
		zap.Stringer("target", target),
		zap.Int("types", len(r.order)))
	return r, nil
}

// Target returns the target pointer types were built for.
func (r *Registry) Target() layout.Target {
	return r.target
}

// Names returns the declared type names in declaration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Lookup returns a declared type by name.
func (r *Registry) Lookup(name string) (*layout.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Parse resolves a type expression against the registry and the builtins.
func (r *Registry) Parse(expr string) (*layout.Type, error) {
	return r.expr(expr, true)
}

func (r *Registry) define(name string) error {
	t := r.types[name]
	if t.Defined() {
		return nil
	}
	if r.visiting[name] {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Type(name).
			Detail("type contains itself by value").
			Build()
	}
	r.visiting[name] = true
	defer delete(r.visiting, name)

	d := r.decls[name]
	rule := layout.CCompatible
	if d.Rule != "" {
		var err error
		if rule, err = layout.ParseRule(d.Rule); err != nil {
			return err
		}
	}

	fields := make([]layout.Field, len(d.Fields))
	for i, fd := range d.Fields {
		ft, err := r.expr(fd.Type, true)
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.Type = name
				e.Path = append([]string{fd.Name}, e.Path...)
			}
			return err
		}
		fields[i] = ft.Field(fd.Name)
	}
	return t.Define(rule, fields...)
}

// expr resolves a type expression:
//
//	name | *const T | *mut T | &T | &mut T | &'a T | &'a mut T | [T; N]
//
// Named types used by value are defined first; types behind a pointer may
// still be undefined.
func (r *Registry) expr(s string, byValue bool) (*layout.Type, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "*const "):
		inner, err := r.expr(s[len("*const "):], false)
		if err != nil {
			return nil, err
		}
		return r.target.ConstPtr(inner), nil

	case strings.HasPrefix(s, "*mut "):
		inner, err := r.expr(s[len("*mut "):], false)
		if err != nil {
			return nil, err
		}
		return r.target.MutPtr(inner), nil

	case strings.HasPrefix(s, "&"):
		rest := strings.TrimSpace(s[1:])
		lt := layout.Static
		if strings.HasPrefix(rest, "'") {
			name, tail, ok := strings.Cut(rest, " ")
			if !ok {
				return nil, errors.InvalidInput(errors.PhaseParse, "reference without pointee: "+strconv.Quote(s))
			}
			lt = r.lifetime(name)
			rest = strings.TrimSpace(tail)
		}
		mut := strings.HasPrefix(rest, "mut ")
		if mut {
			rest = rest[len("mut "):]
		}
		inner, err := r.expr(rest, false)
		if err != nil {
			return nil, err
		}
		if mut {
			return r.target.MutRef(lt, inner), nil
		}
		return r.target.Ref(lt, inner), nil

	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		return r.array(s)
	}

	if t, ok := builtin(r.target, s); ok {
		return t, nil
	}
	t, ok := r.types[s]
	if !ok {
		return nil, errors.NotFound(errors.PhaseConfig, "type", s)
	}
	if byValue {
		if err := r.define(s); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// maxArrayLen bounds both the element count and the byte size of [T; N].
const maxArrayLen = 1 << 16

// array lays out [T; N] as N consecutive elements.
func (r *Registry) array(s string) (*layout.Type, error) {
	body := s[1 : len(s)-1]
	i := strings.LastIndex(body, ";")
	if i < 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "array without length: "+strconv.Quote(s))
	}
	n, err := strconv.Atoi(strings.TrimSpace(body[i+1:]))
	if err != nil || n < 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "bad array length in "+strconv.Quote(s))
	}
	elem, err := r.expr(body[:i], true)
	if err != nil {
		return nil, err
	}
	if n > maxArrayLen || n*elem.Size() > maxArrayLen {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Type(s).
			Value(n).
			Detail("array larger than %d bytes or elements", maxArrayLen).
			Build()
	}

	name := "[" + elem.Name + "; " + strconv.Itoa(n) + "]"
	if t, ok := r.arrays[name]; ok {
		return t, nil
	}
	var t *layout.Type
	if n == 0 {
		// An empty array keeps its element's alignment.
		t, err = layout.Scalar(name, elem.Align(), nil)
	} else {
		fields := make([]layout.Field, n)
		for k := range fields {
			fields[k] = elem.Field(strconv.Itoa(k))
		}
		t, err = layout.Declare(name, layout.CCompatible, fields...)
	}
	if err != nil {
		return nil, err
	}
	r.arrays[name] = t
	return t, nil
}

func (r *Registry) declareLifetime(l Lifetime) error {
	name := quoteLifetime(l.Name)
	if name == "'" || name == "'static" {
		return errors.InvalidInput(errors.PhaseConfig, "bad lifetime name "+strconv.Quote(l.Name))
	}
	if _, ok := r.lifetimes[name]; ok {
		return errors.InvalidInput(errors.PhaseConfig, "duplicate lifetime "+name)
	}
	outer := layout.Static
	if l.Outer != "" && quoteLifetime(l.Outer) != "'static" {
		var ok bool
		if outer, ok = r.lifetimes[quoteLifetime(l.Outer)]; !ok {
			return errors.NotFound(errors.PhaseConfig, "lifetime", l.Outer)
		}
	}
	r.lifetimes[name] = outer.Inner(name)
	return nil
}

// lifetime returns the named lifetime. Lifetimes not declared in the file
// are nested directly in 'static.
func (r *Registry) lifetime(name string) *layout.Lifetime {
	if name == "'static" {
		return layout.Static
	}
	if lt, ok := r.lifetimes[name]; ok {
		return lt
	}
	lt := layout.Static.Inner(name)
	r.lifetimes[name] = lt
	return lt
}

func quoteLifetime(name string) string {
	if strings.HasPrefix(name, "'") {
		return name
	}
	return "'" + name
}
