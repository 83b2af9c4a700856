package witlayout

import (
	"github.com/wippyai/typelayout/layout"
)

var (
	boolType = scalar("bool", 1)
	u8Type   = scalar("u8", 1)
	s8Type   = scalar("s8", 1)
	u16Type  = scalar("u16", 2)
	s16Type  = scalar("s16", 2)
	u32Type  = scalar("u32", 4)
	s32Type  = scalar("s32", 4)
	u64Type  = scalar("u64", 8)
	s64Type  = scalar("s64", 8)
	f32Type  = scalar("f32", 4)
	f64Type  = scalar("f64", 8)
	charType = scalar("char", 4)

	stringType = mustType(sliceType("string", u8Type))
)

func scalar(name string, size int) *layout.Type {
	return mustType(layout.Scalar(name, size, layout.Bytes(size)))
}

// sliceType is the canonical (pointer, length) pair in linear memory.
func sliceType(name string, elem *layout.Type) (*layout.Type, error) {
	return layout.Declare(name, layout.CCompatible,
		layout.Wasm32.ConstPtr(elem).Field("ptr"),
		u32Type.Field("len"),
	)
}

func mustType(t *layout.Type, err error) *layout.Type {
	if err != nil {
		panic(err)
	}
	return t
}
