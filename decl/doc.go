// Package decl loads struct declarations from TOML or YAML files and builds
// them into layout types.
//
// A declaration file names a target and a list of types:
//
//	target = "64"
//
//	[[lifetimes]]
//	name = "a"
//
//	[[types]]
//	name = "Node"
//	fields = [
//	  { name = "value", type = "u32" },
//	  { name = "next",  type = "*const Node" },
//	]
//
// Field types are expressions over builtin scalars (u8..u128, i8..i128,
// f32, f64, usize, isize, NonZero*, MaybeUninit<u8>, ()), declared names,
// pointers (*const T, *mut T), references (&T, &'a T, &mut T, &'a mut T) and
// arrays ([T; N]). A type may refer to itself only behind a pointer.
package decl
