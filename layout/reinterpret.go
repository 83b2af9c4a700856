package layout

import (
	"fmt"

	"go.uber.org/zap"
)

// Mismatch describes the first reason a reinterpretation was rejected.
type Mismatch struct {
	Src    Slot
	Dst    Slot
	Reason string
	Offset int // byte offset of the rejected slot, -1 for a size mismatch
}

func (m Mismatch) String() string {
	if m.Offset < 0 {
		return m.Reason
	}
	return fmt.Sprintf("offset %d: %s -> %s: %s", m.Offset, m.Src, m.Dst, m.Reason)
}

// Reinterpretable reports whether every valid value of src is also a valid
// value of dst when the same bytes are read as dst. Sequences of different
// sizes are never reinterpretable.
//
// The relation is reflexive and not symmetric: a mutable pointer may be read
// as a const pointer but not the reverse, and a NonZero byte may be read as
// an Init byte but not the reverse.
func Reinterpretable(src, dst Sequence) bool {
	return newChecker(nil).sequence(src, dst)
}

// Explain is Reinterpretable with the reason for a negative answer.
func Explain(src, dst Sequence) (Mismatch, bool) {
	c := newChecker(nil)
	ok := c.sequence(src, dst)
	return c.mismatch, ok
}

// FromBytes reports whether a value of u may be built from the bytes of any
// valid value of t. Undefined types are never compatible, except a type with
// itself.
func FromBytes(t, u *Type) bool {
	return newChecker(nil).pointee(t, u)
}

type pair struct {
	src, dst *Type
}

// checker walks two slot sequences, recursing into pointees. Pointee pairs
// already under evaluation are assumed compatible, which makes recursion
// through self-referential pointer types terminate.
type checker struct {
	pending  map[pair]struct{}
	cache    *pairCache
	mismatch Mismatch
}

func newChecker(cache *pairCache) *checker {
	return &checker{
		pending: make(map[pair]struct{}),
		cache:   cache,
	}
}

func (c *checker) sequence(src, dst Sequence) bool {
	if ss, ds := src.Size(), dst.Size(); ss != ds {
		c.mismatch = Mismatch{Offset: -1, Reason: fmt.Sprintf("size %d != %d", ss, ds)}
		return false
	}

	i, j, off := 0, 0, 0
	for i < len(src) && j < len(dst) {
		s, d := src[i], dst[j]
		switch {
		case s.IsPointer() && d.IsPointer():
			if reason := c.pointer(s.Ptr, d.Ptr); reason != "" {
				return c.reject(off, s, d, reason)
			}
			off += s.Size()
			i++
			j++

		case s.IsPointer():
			// A pointer may be viewed as its raw bytes.
			for k := 0; k < s.Size(); k++ {
				if j >= len(dst) || dst[j].IsPointer() || !acceptsByte(dst[j].Kind, KindInit) {
					return c.reject(off, s, d, "pointer bytes cannot satisfy target slots")
				}
				j++
			}
			off += s.Size()
			i++

		case d.IsPointer():
			// Raw bytes never become a mutable pointer or a reference.
			if d.Ptr == nil || d.Ptr.Ref || d.Ptr.Mut == Mut {
				return c.reject(off, s, d, "raw bytes cannot form a mutable pointer or reference")
			}
			for k := 0; k < d.Size(); k++ {
				if i >= len(src) || !src[i].initialized() {
					return c.reject(off, s, d, "pointer built from bytes that may be uninitialized")
				}
				i++
			}
			off += d.Size()
			j++

		default:
			if !acceptsByte(d.Kind, s.Kind) {
				return c.reject(off, s, d, "byte does not satisfy target")
			}
			off++
			i++
			j++
		}
	}
	return i == len(src) && j == len(dst)
}

// acceptsByte reports whether a byte of kind src is a valid byte of kind dst.
func acceptsByte(dst, src Kind) bool {
	switch dst {
	case KindUninit:
		return src == KindUninit || src == KindInit || src == KindNonZero
	case KindInit:
		return src == KindInit || src == KindNonZero
	case KindNonZero:
		return src == KindNonZero
	}
	return false
}

// pointer returns why dst cannot be read from src, or "" if it can.
func (c *checker) pointer(src, dst *Pointer) string {
	switch {
	case src == nil || dst == nil:
		return "pointer slot without pointer description"
	case src.Width != dst.Width:
		return "pointer widths differ"
	case dst.Mut == Mut && src.Mut != Mut:
		return "cannot gain write capability"
	case dst.Ref && !src.Ref:
		return "raw pointer cannot become a reference"
	case dst.Ref && !src.Lifetime.Outlives(dst.Lifetime):
		return fmt.Sprintf("lifetime %s does not outlive %s", src.Lifetime, dst.Lifetime)
	}
	if !c.pointee(src.Pointee, dst.Pointee) {
		return fmt.Sprintf("pointee %s cannot be read as %s", src.Pointee, dst.Pointee)
	}
	// Writes through dst land in src's pointee.
	if dst.Mut == Mut && !c.pointee(dst.Pointee, src.Pointee) {
		return fmt.Sprintf("pointee %s cannot be written back as %s", dst.Pointee, src.Pointee)
	}
	return ""
}

// pointee reports whether a value of u may be read from the bytes of t.
func (c *checker) pointee(t, u *Type) bool {
	if t == u {
		return true
	}
	if !t.Defined() || !u.Defined() {
		return false
	}

	key := pair{src: t, dst: u}
	if _, ok := c.pending[key]; ok {
		return true
	}
	if c.cache != nil {
		if ok, hit := c.cache.get(key); hit {
			return ok
		}
	}

	c.pending[key] = struct{}{}
	ok := c.sequence(t.layout.Slots, u.layout.Slots)
	delete(c.pending, key)

	// Negative answers never depend on pending assumptions.
	if c.cache != nil && (!ok || len(c.pending) == 0) {
		c.cache.put(key, ok)
	}
	return ok
}

func (c *checker) reject(off int, s, d Slot, reason string) bool {
	c.mismatch = Mismatch{Offset: off, Src: s, Dst: d, Reason: reason}
	if ce := Logger().Check(zap.DebugLevel, "reinterpretation rejected"); ce != nil {
		ce.Write(
			zap.Int("offset", off),
			zap.Stringer("src", s),
			zap.Stringer("dst", d),
			zap.String("reason", reason),
		)
	}
	return false
}
