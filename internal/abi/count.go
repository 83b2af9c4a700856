package abi

// DiscriminantSize returns the byte width of a variant discriminant for
// numCases cases.
func DiscriminantSize(numCases int) int {
	if numCases <= 256 {
		return 1
	} else if numCases <= 65536 {
		return 2
	}
	return 4
}

// FlagsSize returns the size and alignment of a flags value with numFlags
// members. More than 64 flags are stored as consecutive u32 words.
func FlagsSize(numFlags int) (size, align int) {
	switch {
	case numFlags == 0:
		return 0, 1
	case numFlags <= 8:
		return 1, 1
	case numFlags <= 16:
		return 2, 2
	case numFlags <= 32:
		return 4, 4
	case numFlags <= 64:
		return 8, 8
	}
	return ((numFlags + 31) / 32) * 4, 4
}
