// Package witlayout maps WIT type definitions onto layout types so the
// layout checkers can answer reinterpretation and zero-validity questions
// about component-model values in wasm32 linear memory.
//
// # Mapping
//
//	WIT type              Layout
//	─────────────────────────────────────────────────────────────
//	bool, u8..u64, s8..   initialized bytes of the canonical width
//	f32, f64, char        initialized bytes
//	string                { ptr: *const u8, len: u32 }
//	list<T>               { ptr: *const T,  len: u32 }
//	record, tuple         CCompatible struct of the members
//	enum, flags           initialized bytes, canonical discriminant or word size
//	variant, option,      { tag, payload } where payload is uninit bytes
//	result                sized and aligned for the largest case
//	own<R>, borrow<R>     u32 handle
//
// Slots carry initialization state only, so the restricted value ranges of
// bool, char and discriminants are not represented.
//
// The Calculator caches one *layout.Type per *wit.TypeDef.
package witlayout
