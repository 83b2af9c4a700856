package layout

// AlignedTo reports whether an address satisfying alignment u also satisfies
// alignment t, that is whether u is a multiple of t. Non-positive alignments
// are never aligned.
func AlignedTo(u, t int) bool {
	if u <= 0 || t <= 0 {
		return false
	}
	return u%t == 0
}

// TypeAlignedTo is AlignedTo over the alignments of two defined types.
func TypeAlignedTo(u, t *Type) bool {
	return u.Defined() && t.Defined() && AlignedTo(u.Align(), t.Align())
}
