// Package typelayout computes memory layouts of structured data and answers
// two safety questions over them: may the bytes of one type be reinterpreted
// as another, and is the all-zero byte pattern a valid value.
//
// # Architecture Overview
//
//	typelayout/          Root package with the Memory interfaces
//	├── layout/          Slot model, packing rules, layout and checkers
//	├── witlayout/       Layouts for WIT type definitions on wasm32
//	├── decl/            Struct declarations loaded from TOML or YAML
//	├── probe/           Validation of wazero linear memory against layouts
//	├── errors/          Structured error types for debugging
//	└── cmd/typelayout/  Command-line inspector
//
// # Quick Start
//
// Declare a type and query it:
//
//	hdr, err := layout.Declare("Header", layout.CCompatible,
//	    layout.U8.Field("kind"),
//	    layout.U32.Field("len"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	l, _ := hdr.Layout()
//	fmt.Println(l.Size(), l.Align, l.Offsets) // 8 4 [0 4]
//	fmt.Println(l.ZeroValid())                // false: 3 padding bytes
//	fmt.Println(layout.FromBytes(layout.U64, hdr)) // true
//
// # Thread Safety
//
// Layouts and defined types are immutable and may be shared. Calculator and
// witlayout.Calculator are safe for concurrent use. A type declared with
// layout.NewType must be defined before it is shared.
//
// # Memory Model
//
// Layouts are byte-addressable and little-endian agnostic: slots describe
// initialization state, never values. Pointer slots are 4 or 8 bytes wide
// depending on the layout.Target.
package typelayout
