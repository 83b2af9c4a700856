package layout

import (
	"testing"

	"github.com/wippyai/typelayout/errors"
)

func TestHasPadding(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
		want   bool
	}{
		{"empty", nil, false},
		{"u8_u32", []Field{u8("a"), u32("b")}, true},
		{"u32_u8", []Field{u32("a"), u8("b")}, true},
		{"bytes", []Field{u8("a"), u8("b"), u8("c"), u8("d")}, false},
		{"u32_u32", []Field{u32("a"), u32("b")}, false},
		{"u16_u8_u8", []Field{U16.Field("a"), u8("b"), u8("c")}, false},
		{"pointer_then_u32", []Field{Arch64.ConstPtr(U8).Field("p"), u32("n")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HasPadding(tt.fields)
			if err != nil {
				t.Fatalf("HasPadding: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			l := mustCompute(t, tt.fields, CCompatible)
			if l.HasPadding() != tt.want {
				t.Errorf("Layout.HasPadding: got %v, want %v", l.HasPadding(), tt.want)
			}
		})
	}
}

func TestIsZeroValid(t *testing.T) {
	inner, err := Declare("Inner", CCompatible, u8("a"), u32("b"))
	if err != nil {
		t.Fatal(err)
	}
	packed, err := Declare("Packed", Compact, u8("a"), u32("b"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		fields []Field
		want   bool
	}{
		{"empty", nil, true},
		{"ints", []Field{u32("a"), u32("b")}, true},
		{"padded", []Field{u8("a"), u32("b")}, false},
		{"nonzero", []Field{NonZeroU32.Field("a")}, false},
		{"nonzero_among_ints", []Field{u32("a"), NonZeroU32.Field("b")}, false},
		{"raw_pointers", []Field{Arch64.ConstPtr(U8).Field("p"), Arch64.MutPtr(U64).Field("q")}, true},
		{"reference", []Field{Arch64.Ref(Static, U8).Field("r")}, false},
		{"mut_reference", []Field{Arch64.MutRef(Static.Inner("a"), U32).Field("r")}, false},
		{"reference_among_raw", []Field{Arch32.ConstPtr(U8).Field("p"), Arch32.Ref(nil, U8).Field("r")}, false},
		{"nested_padding", []Field{inner.Field("in"), u32("tail")}, false},
		{"nested_packed", []Field{packed.Field("in"), u8("tail")}, true},
		{"maybe_uninit", []Field{MaybeUninitU8.Field("m")}, true},
		{"unit", []Field{Unit.Field("u")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsZeroValid(tt.fields)
			if err != nil {
				t.Fatalf("IsZeroValid: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestZeroValidPropagates(t *testing.T) {
	inner, err := Declare("Inner", CCompatible, u8("a"), u32("b"))
	if err != nil {
		t.Fatal(err)
	}
	outer, err := Declare("Outer", CCompatible, inner.Field("in"))
	if err != nil {
		t.Fatal(err)
	}
	wrapped, err := Declare("Wrapped", Transparent, outer.Field("o"))
	if err != nil {
		t.Fatal(err)
	}

	for _, typ := range []*Type{inner, outer, wrapped} {
		l, _ := typ.Layout()
		if l.ZeroValid() {
			t.Errorf("%s: padding inside a field must make the type not zero-valid", typ)
		}
	}

	// Outer itself inserts no padding of its own.
	l, _ := outer.Layout()
	if l.HasPadding() {
		t.Errorf("Outer: unexpected padding %d at its own level", l.Padding)
	}
}

func TestReferenceZeroValidityPropagates(t *testing.T) {
	borrowed, err := Declare("Borrowed", CCompatible, u32("len"), Arch32.Ref(Static, U8).Field("data"))
	if err != nil {
		t.Fatal(err)
	}
	outer, err := Declare("Outer", CCompatible, u32("tag"), borrowed.Field("b"))
	if err != nil {
		t.Fatal(err)
	}
	wrapped, err := Declare("Wrapped", Transparent, Arch64.MutRef(nil, U64).Field("r"))
	if err != nil {
		t.Fatal(err)
	}

	for _, typ := range []*Type{borrowed, outer, wrapped} {
		l, _ := typ.Layout()
		if l.HasPadding() {
			t.Errorf("%s: unexpected padding", typ)
		}
		if l.ZeroValid() {
			t.Errorf("%s: a reference must make the type not zero-valid", typ)
		}
	}

	got, err := IsZeroValid([]Field{outer.Field("o")})
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("IsZeroValid over a field holding a reference: got true")
	}

	raw, err := Declare("Raw", CCompatible, u32("len"), Arch32.ConstPtr(U8).Field("data"))
	if err != nil {
		t.Fatal(err)
	}
	if l, _ := raw.Layout(); !l.ZeroValid() {
		t.Error("raw pointers must stay zero-valid")
	}
}

func TestHasPaddingErrors(t *testing.T) {
	_, err := HasPadding([]Field{{Name: "bad", Align: 3, Size: 1, Slots: Bytes(1)}})
	wantKind(t, err, errors.KindInvalidAlignment)
	_, err = IsZeroValid([]Field{{Name: "bad", Align: 1, Size: 2, Slots: Bytes(1)}})
	wantKind(t, err, errors.KindInvalidSize)
}
