package decl

import "github.com/wippyai/typelayout/layout"

var builtins = map[string]*layout.Type{
	"()": layout.Unit,

	"u8":   layout.U8,
	"u16":  layout.U16,
	"u32":  layout.U32,
	"u64":  layout.U64,
	"u128": layout.U128,

	"i8":   layout.I8,
	"i16":  layout.I16,
	"i32":  layout.I32,
	"i64":  layout.I64,
	"i128": layout.I128,

	"f32": layout.F32,
	"f64": layout.F64,

	"NonZeroU8":   layout.NonZeroU8,
	"NonZeroU16":  layout.NonZeroU16,
	"NonZeroU32":  layout.NonZeroU32,
	"NonZeroU64":  layout.NonZeroU64,
	"NonZeroU128": layout.NonZeroU128,
	"NonZeroI8":   layout.NonZeroI8,
	"NonZeroI16":  layout.NonZeroI16,
	"NonZeroI32":  layout.NonZeroI32,
	"NonZeroI64":  layout.NonZeroI64,
	"NonZeroI128": layout.NonZeroI128,

	"MaybeUninit<u8>": layout.MaybeUninitU8,
}

// builtin resolves a builtin type name. Pointer-sized integers depend on the
// target.
func builtin(target layout.Target, name string) (*layout.Type, bool) {
	switch name {
	case "usize":
		return target.Usize(), true
	case "isize":
		return target.Isize(), true
	case "NonZeroUsize", "NonZeroIsize":
		return target.NonZeroUsize(), true
	}
	t, ok := builtins[name]
	return t, ok
}
