package layout

// HasPadding reports whether laying out fields under CCompatible inserts any
// padding. Padding only comes from alignment gaps, which Compact never
// inserts, so the two sizes differ exactly when padding exists.
func HasPadding(fields []Field) (bool, error) {
	c, err := Compute(fields, CCompatible)
	if err != nil {
		return false, err
	}
	packed, err := Compute(fields, Compact)
	if err != nil {
		return false, err
	}
	return c.Size() != packed.Size(), nil
}

// IsZeroValid reports whether a structure of fields can be built from all-zero
// bytes: it has no padding, every field is itself zero-valid, and no slot
// requires a non-zero byte. Raw pointers are zero-valid as the null pointer;
// references are not.
func IsZeroValid(fields []Field) (bool, error) {
	padded, err := HasPadding(fields)
	if err != nil {
		return false, err
	}
	if padded {
		return false, nil
	}
	for _, f := range fields {
		if !f.ZeroValid() {
			return false, nil
		}
	}
	return true, nil
}
