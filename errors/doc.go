// Package errors provides structured error types for the typelayout library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending type name, the field path and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLayout, errors.KindInvalidAlignment).
//		Type("Header").
//		Path("flags").
//		Value(3).
//		Detail("alignment %d is not a power of two", 3).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidAlignment(errors.PhaseLayout, path, 3)
//	err := errors.FieldCount(errors.PhaseLayout, "Wrapper", 2)
//
// Incompatibility answers (a failed reinterpretation or zero-validity check)
// are never errors; only malformed input is.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
