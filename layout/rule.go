package layout

import (
	"strconv"

	"github.com/wippyai/typelayout/errors"
	"github.com/wippyai/typelayout/internal/abi"
)

// Rule is a packing rule selecting a layout algorithm.
type Rule uint8

const (
	// CCompatible inserts padding so every field sits at a multiple of its
	// alignment and the total size is a multiple of the largest alignment.
	CCompatible Rule = iota
	// Compact never inserts padding; size is the sum of field sizes and the
	// alignment is always 1, whatever the fields' alignments.
	Compact
	// Transparent gives a single-field wrapper its field's layout verbatim.
	Transparent
)

func (r Rule) String() string {
	switch r {
	case CCompatible:
		return "c"
	case Compact:
		return "packed"
	case Transparent:
		return "transparent"
	default:
		return "rule(" + strconv.Itoa(int(r)) + ")"
	}
}

// ParseRule maps a rule name as accepted by String back to a Rule.
func ParseRule(s string) (Rule, error) {
	switch s {
	case "c", "C", "ccompatible":
		return CCompatible, nil
	case "packed", "compact":
		return Compact, nil
	case "transparent":
		return Transparent, nil
	}
	return 0, errors.InvalidInput(errors.PhaseConfig, "unknown packing rule "+strconv.Quote(s))
}

// Algorithm places an ordered field list according to one packing rule.
type Algorithm interface {
	Rule() Rule
	// Validate rejects field lists the rule cannot lay out.
	Validate(name string, fields []Field) error
	// Place computes the layout of a validated field list. It cannot fail.
	Place(fields []Field) Layout
}

// Select returns the layout algorithm for rule.
func Select(rule Rule) (Algorithm, error) {
	switch rule {
	case CCompatible:
		return sequential{rule: CCompatible, pad: true}, nil
	case Compact:
		return sequential{rule: Compact}, nil
	case Transparent:
		return transparent{}, nil
	}
	return nil, errors.Unsupported(errors.PhaseLayout, "packing rule "+rule.String())
}

// sequential places fields in declaration order, optionally padding each to
// its alignment. Fields are never reordered.
type sequential struct {
	rule Rule
	pad  bool
}

func (a sequential) Rule() Rule { return a.rule }

func (a sequential) Validate(string, []Field) error { return nil }

func (a sequential) Place(fields []Field) Layout {
	offset := 0
	align := 1
	padding := 0
	padded := false

	size := 0
	for _, f := range fields {
		size += f.Size
	}
	slots := make(Sequence, 0, len(fields)+size)
	offsets := make([]int, len(fields))

	for i, f := range fields {
		if a.pad {
			align = abi.Max(align, f.Align)
			pad := abi.PadFor(offset, f.Align)
			slots = append(slots, Repeat(Uninit, pad)...)
			offset += pad
			padding += pad
		}
		offsets[i] = offset
		slots = append(slots, f.Slots...)
		offset += f.Size
		padded = padded || f.Padded
	}

	if a.pad {
		trailing := abi.PadFor(offset, align)
		slots = append(slots, Repeat(Uninit, trailing)...)
		padding += trailing
	}

	return Layout{
		Rule:    a.rule,
		Align:   align,
		Slots:   slots,
		Offsets: offsets,
		Padding: padding,
		padded:  padded || padding > 0,
	}
}

type transparent struct{}

func (transparent) Rule() Rule { return Transparent }

func (transparent) Validate(name string, fields []Field) error {
	if len(fields) != 1 {
		return errors.FieldCount(errors.PhaseLayout, name, len(fields))
	}
	return nil
}

func (transparent) Place(fields []Field) Layout {
	f := fields[0]
	return Layout{
		Rule:    Transparent,
		Align:   f.Align,
		Slots:   f.Slots,
		Offsets: []int{0},
		padded:  f.Padded,
	}
}
