// Package layout computes byte-level memory layouts and decides two safety
// questions over them: whether the bytes of one type may be reinterpreted as
// another, and whether all-zero bytes are a valid value.
//
// # Slot Model
//
// A layout is a Sequence of Slots in address order:
//
//	Slot        Width   Meaning
//	────────────────────────────────────────────────────────
//	Init        1       initialized byte, any value
//	Uninit      1       byte that may be uninitialized
//	NonZero     1       initialized byte, never zero
//	Pointer     4 / 8   pointer to a Type, const or mut,
//	                    raw or reference with a Lifetime
//
// # Packing Rules
//
//	CCompatible   fields in order, each padded to its alignment,
//	              trailing padding to the largest alignment
//	Compact       fields in order, no padding, alignment 1
//	Transparent   exactly one field, whose layout is used verbatim
//
// # Usage
//
//	header, err := layout.Declare("Header", layout.CCompatible,
//		layout.U8.Field("kind"),
//		layout.U32.Field("len"),
//	)
//	l, _ := header.Layout()
//	// l.Size() == 8, l.Align == 4, l.Offsets == [0 4], l.HasPadding()
//
//	layout.Reinterpretable(src.Slots, dst.Slots) // byte reinterpretation
//	l.ZeroValid()                                // zeroed construction
//	layout.AlignedTo(8, 4)                       // alignment implication
//
// Pointer types are built per Target so their width matches the
// architecture:
//
//	node := layout.NewType("Node")
//	next := layout.Arch64.ConstPtr(node)
//	_ = node.Define(layout.CCompatible, layout.U64.Field("value"), next.Field("next"))
//
// Malformed field lists are rejected with *errors.Error values in
// errors.PhaseLayout. A negative compatibility answer is a plain false.
package layout
