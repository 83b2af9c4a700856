package layout

import (
	"go.uber.org/zap"

	"github.com/wippyai/typelayout/errors"
)

// Type is a named type with a layout. Pointer slots refer to their pointee by
// *Type, so a type may be declared with NewType, referenced from pointers,
// and defined afterwards; this is how self-referential structs are built.
//
// A type must be defined before it is shared between goroutines; after that
// it is never mutated.
type Type struct {
	Name    string
	Fields  []Field
	layout  Layout
	defined bool
}

// NewType declares a type without a layout.
func NewType(name string) *Type {
	return &Type{Name: name}
}

// Declare creates a struct type from fields laid out under rule.
func Declare(name string, rule Rule, fields ...Field) (*Type, error) {
	t := NewType(name)
	if err := t.Define(rule, fields...); err != nil {
		return nil, err
	}
	return t, nil
}

// Scalar creates a type whose layout is the given slot sequence with
// alignment align.
func Scalar(name string, align int, slots Sequence) (*Type, error) {
	return Declare(name, Transparent, Field{Name: name, Align: align, Size: slots.Size(), Slots: slots})
}

// Define computes the type's layout from fields. A type may be defined once.
func (t *Type) Define(rule Rule, fields ...Field) error {
	if t.defined {
		return errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Type(t.Name).
			Detail("type already defined").
			Build()
	}
	l, err := compute(t.Name, fields, rule)
	if err != nil {
		return err
	}
	t.Fields = fields
	t.layout = l
	t.defined = true
	if ce := Logger().Check(zap.DebugLevel, "type defined"); ce != nil {
		ce.Write(typeFields(t)...)
	}
	return nil
}

// Defined reports whether the type has a layout.
func (t *Type) Defined() bool {
	return t != nil && t.defined
}

// Layout returns the type's layout, or false if it is not yet defined.
func (t *Type) Layout() (Layout, bool) {
	if !t.Defined() {
		return Layout{}, false
	}
	return t.layout, true
}

// Size returns the size of the type in bytes, or 0 if undefined.
func (t *Type) Size() int {
	return t.layout.Size()
}

// Align returns the alignment of the type, or 0 if undefined.
func (t *Type) Align() int {
	return t.layout.Align
}

// Field returns a field named name holding a value of t. Fields of undefined
// types are rejected by Compute.
func (t *Type) Field(name string) Field {
	if !t.Defined() {
		return Field{Name: name, Type: t}
	}
	f := FieldOf(name, t.layout)
	f.Type = t
	return f
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

func mustScalar(name string, align int, slots Sequence) *Type {
	t, err := Scalar(name, align, slots)
	if err != nil {
		panic(err)
	}
	return t
}
