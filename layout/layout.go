package layout

import (
	"strconv"

	"github.com/wippyai/typelayout/errors"
	"github.com/wippyai/typelayout/internal/abi"
)

// Layout is the computed memory layout of a type. Layouts are immutable once
// returned and may be shared freely between goroutines.
type Layout struct {
	Slots   Sequence
	Offsets []int // byte offset of each field, in declaration order
	Align   int
	Padding int // padding bytes inserted at this level
	Rule    Rule
	padded  bool
}

// Size returns the size of the layout in bytes.
func (l Layout) Size() int {
	return l.Slots.Size()
}

// HasPadding reports whether the packing rule inserted padding bytes between
// or after the fields of this layout.
func (l Layout) HasPadding() bool {
	return l.Padding > 0
}

// ZeroValid reports whether all-zero bytes form a valid value: there is no
// padding at any level, no slot requires a non-zero byte and no slot is a
// reference.
func (l Layout) ZeroValid() bool {
	return !l.padded && !l.Slots.Contains(KindNonZero) && !l.Slots.HasRef()
}

// AlignedTo reports whether every address aligned for l is also aligned for t.
func (l Layout) AlignedTo(t Layout) bool {
	return AlignedTo(l.Align, t.Align)
}

// Field is one entry of an ordered field list.
type Field struct {
	Type   *Type // optional source type
	Name   string
	Slots  Sequence
	Align  int
	Size   int
	Padded bool // the field's own layout contains padding
}

// FieldOf returns a field named name with layout l.
func FieldOf(name string, l Layout) Field {
	return Field{
		Name:   name,
		Align:  l.Align,
		Size:   l.Size(),
		Slots:  l.Slots,
		Padded: l.padded,
	}
}

// ZeroValid reports whether all-zero bytes are a valid value for the field.
func (f Field) ZeroValid() bool {
	return !f.Padded && !f.Slots.Contains(KindNonZero) && !f.Slots.HasRef()
}

// Compute lays out fields under rule. It fails only on malformed input:
// an alignment that is not a power of two, a size that is negative or
// disagrees with the field's slots, a pointer of unsupported width, an
// undefined field type, or a Transparent rule over anything but one field.
func Compute(fields []Field, rule Rule) (Layout, error) {
	return compute("", fields, rule)
}

func compute(name string, fields []Field, rule Rule) (Layout, error) {
	alg, err := Select(rule)
	if err != nil {
		return Layout{}, err
	}
	if err := alg.Validate(name, fields); err != nil {
		return Layout{}, err
	}
	if err := validateFields(name, fields); err != nil {
		return Layout{}, err
	}
	return alg.Place(fields), nil
}

func validateFields(typeName string, fields []Field) error {
	for i, f := range fields {
		path := []string{fieldName(f, i)}
		if f.Type != nil && !f.Type.Defined() {
			e := errors.Undefined(errors.PhaseLayout, f.Type.Name)
			e.Path = path
			return e
		}
		if !abi.IsPowerOfTwo(f.Align) {
			e := errors.InvalidAlignment(errors.PhaseLayout, path, f.Align)
			e.Type = typeName
			return e
		}
		if n := f.Slots.Size(); f.Size < 0 || n != f.Size {
			e := errors.InvalidSize(errors.PhaseLayout, path, f.Size, n)
			e.Type = typeName
			return e
		}
		for _, s := range f.Slots {
			if s.IsPointer() {
				if e := validatePointer(s.Ptr); e != nil {
					e.Path = path
					e.Type = typeName
					return e
				}
			}
		}
	}
	return nil
}

func validatePointer(p *Pointer) *errors.Error {
	if p == nil {
		return errors.InvalidInput(errors.PhaseLayout, "pointer slot without pointer description")
	}
	if e := checkPointerWidth(errors.PhaseLayout, p.Width); e != nil {
		return e
	}
	if !p.Ref && p.Lifetime != nil {
		return errors.InvalidInput(errors.PhaseLayout, "raw pointer cannot carry a lifetime")
	}
	return nil
}

func fieldName(f Field, i int) string {
	if f.Name != "" {
		return f.Name
	}
	return strconv.Itoa(i)
}
