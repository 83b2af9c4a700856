package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConfig Phase = "config" // options and target selection
	PhaseLayout Phase = "layout" // field list validation and layout computation
	PhaseProbe  Phase = "probe"  // checking concrete memory against a layout
	PhaseLoad   Phase = "load"   // reading type definitions
	PhaseParse  Phase = "parse"  // WIT type name parsing
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidAlignment Kind = "invalid_alignment"
	KindInvalidSize      Kind = "invalid_size"
	KindFieldCount       Kind = "field_count"
	KindUndefined        Kind = "undefined"
	KindOutOfBounds      Kind = "out_of_bounds"
	KindMisaligned       Kind = "misaligned"
	KindInvalidData      Kind = "invalid_data"
	KindNotZeroable      Kind = "not_zeroable"
	KindUnsupported      Kind = "unsupported"
	KindNotFound         Kind = "not_found"
	KindInvalidInput     Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Type != "" {
		b.WriteString(" in ")
		b.WriteString(e.Type)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the name of the type being laid out
func (b *Builder) Type(name string) *Builder {
	b.err.Type = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidAlignment creates an error for an alignment that is not a positive power of two
func InvalidAlignment(phase Phase, path []string, align int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidAlignment,
		Path:   path,
		Detail: fmt.Sprintf("alignment %d is not a positive power of two", align),
		Value:  align,
	}
}

// InvalidSize creates an error for a negative size or a size that disagrees
// with the field's slot sequence
func InvalidSize(phase Phase, path []string, size, slots int) *Error {
	detail := fmt.Sprintf("declared size %d does not match slot sequence of %d bytes", size, slots)
	if size < 0 {
		detail = fmt.Sprintf("size %d is negative", size)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidSize,
		Path:   path,
		Detail: detail,
		Value:  size,
	}
}

// FieldCount creates an error for a packing rule applied to the wrong number of fields
func FieldCount(phase Phase, typeName string, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldCount,
		Type:   typeName,
		Detail: fmt.Sprintf("transparent packing requires exactly one field, got %d", got),
		Value:  got,
	}
}

// Undefined creates an error for a forward-declared type that was never defined
func Undefined(phase Phase, typeName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUndefined,
		Type:   typeName,
		Detail: "type declared but never defined",
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error for a memory range
func OutOfBounds(phase Phase, addr uint32, length, memSize uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) exceeds memory of %d bytes", addr, uint64(addr)+uint64(length), memSize),
		Value:  addr,
	}
}

// Misaligned creates an error for an address that violates a layout's alignment
func Misaligned(phase Phase, typeName string, addr uint32, align int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMisaligned,
		Type:   typeName,
		Detail: fmt.Sprintf("address %#x is not aligned to %d", addr, align),
		Value:  addr,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// NotZeroable creates an error for writing a zero value of a type that has none
func NotZeroable(phase Phase, typeName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotZeroable,
		Type:   typeName,
		Detail: "all-zero bytes are not a valid value",
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Load creates a type definition loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
