package layout

import (
	"fmt"
	"strconv"

	"github.com/wippyai/typelayout/errors"
)

// Target describes the architecture pointer slots are laid out for.
type Target struct {
	PointerWidth int // 4 or 8
}

var (
	Arch32 = Target{PointerWidth: 4}
	Arch64 = Target{PointerWidth: 8}
	// Wasm32 is the target for WebAssembly linear memory.
	Wasm32 = Arch32
	// Host matches the pointer width of the running program.
	Host = Target{PointerWidth: strconv.IntSize / 8}
)

// Validate rejects pointer widths other than 4 and 8.
func (t Target) Validate() error {
	if e := checkPointerWidth(errors.PhaseConfig, t.PointerWidth); e != nil {
		return e
	}
	return nil
}

func checkPointerWidth(phase errors.Phase, w int) *errors.Error {
	if w != 4 && w != 8 {
		return errors.New(phase, errors.KindUnsupported).
			Value(w).
			Detail("pointer width %d, want 4 or 8", w).
			Build()
	}
	return nil
}

func (t Target) String() string {
	return fmt.Sprintf("%d-bit", t.PointerWidth*8)
}

func (t Target) pointer(name string, p Pointer) *Type {
	p.Width = t.PointerWidth
	return mustScalar(name, t.PointerWidth, Sequence{PointerSlot(p)})
}

// ConstPtr returns the type of a raw read-only pointer to pointee.
func (t Target) ConstPtr(pointee *Type) *Type {
	return t.pointer("*const "+pointee.String(), Pointer{Pointee: pointee, Mut: Const})
}

// MutPtr returns the type of a raw mutable pointer to pointee.
func (t Target) MutPtr(pointee *Type) *Type {
	return t.pointer("*mut "+pointee.String(), Pointer{Pointee: pointee, Mut: Mut})
}

// Ref returns the type of a shared reference to pointee valid for lt.
func (t Target) Ref(lt *Lifetime, pointee *Type) *Type {
	return t.pointer("&"+lt.String()+" "+pointee.String(), Pointer{Pointee: pointee, Mut: Const, Ref: true, Lifetime: orStatic(lt)})
}

// MutRef returns the type of an exclusive reference to pointee valid for lt.
func (t Target) MutRef(lt *Lifetime, pointee *Type) *Type {
	return t.pointer("&"+lt.String()+" mut "+pointee.String(), Pointer{Pointee: pointee, Mut: Mut, Ref: true, Lifetime: orStatic(lt)})
}

// Usize returns the pointer-sized unsigned integer type.
func (t Target) Usize() *Type {
	return mustScalar("usize", t.PointerWidth, Bytes(t.PointerWidth))
}

// Isize returns the pointer-sized signed integer type.
func (t Target) Isize() *Type {
	return mustScalar("isize", t.PointerWidth, Bytes(t.PointerWidth))
}

// NonZeroUsize returns the pointer-sized integer type that is never zero.
func (t Target) NonZeroUsize() *Type {
	return mustScalar("NonZeroUsize", t.PointerWidth, Repeat(NonZero, t.PointerWidth))
}

// Fixed-size scalar types.
var (
	Unit = mustScalar("()", 1, nil)

	U8   = mustScalar("u8", 1, Bytes(1))
	U16  = mustScalar("u16", 2, Bytes(2))
	U32  = mustScalar("u32", 4, Bytes(4))
	U64  = mustScalar("u64", 8, Bytes(8))
	U128 = mustScalar("u128", 16, Bytes(16))

	I8   = mustScalar("i8", 1, Bytes(1))
	I16  = mustScalar("i16", 2, Bytes(2))
	I32  = mustScalar("i32", 4, Bytes(4))
	I64  = mustScalar("i64", 8, Bytes(8))
	I128 = mustScalar("i128", 16, Bytes(16))

	F32 = mustScalar("f32", 4, Bytes(4))
	F64 = mustScalar("f64", 8, Bytes(8))

	NonZeroU8   = mustScalar("NonZeroU8", 1, Repeat(NonZero, 1))
	NonZeroU16  = mustScalar("NonZeroU16", 2, Repeat(NonZero, 2))
	NonZeroU32  = mustScalar("NonZeroU32", 4, Repeat(NonZero, 4))
	NonZeroU64  = mustScalar("NonZeroU64", 8, Repeat(NonZero, 8))
	NonZeroU128 = mustScalar("NonZeroU128", 16, Repeat(NonZero, 16))

	NonZeroI8   = mustScalar("NonZeroI8", 1, Repeat(NonZero, 1))
	NonZeroI16  = mustScalar("NonZeroI16", 2, Repeat(NonZero, 2))
	NonZeroI32  = mustScalar("NonZeroI32", 4, Repeat(NonZero, 4))
	NonZeroI64  = mustScalar("NonZeroI64", 8, Repeat(NonZero, 8))
	NonZeroI128 = mustScalar("NonZeroI128", 16, Repeat(NonZero, 16))

	// MaybeUninitU8 is a byte that may hold no value at all.
	MaybeUninitU8 = mustScalar("MaybeUninit<u8>", 1, Repeat(Uninit, 1))
)
