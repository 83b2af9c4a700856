package abi

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// AlignTo rounds offset up to the next multiple of align.
// align must be a power of two; zero leaves offset unchanged.
func AlignTo(offset, align int) int {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// PadFor returns the number of bytes needed after offset to reach a multiple
// of align: (align - offset mod align) mod align.
func PadFor(offset, align int) int {
	if align <= 1 {
		return 0
	}
	return (align - offset%align) % align
}

// Max returns the larger of a and b.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
