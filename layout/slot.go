package layout

import (
	"strconv"
	"strings"
)

// Kind identifies the variant of a Slot.
type Kind uint8

const (
	KindInit    Kind = iota // initialized byte, any value
	KindUninit              // byte of unknown initialization state
	KindNonZero             // initialized byte that is never zero
	KindPointer             // pointer-width group, see Pointer
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindUninit:
		return "uninit"
	case KindNonZero:
		return "nonzero"
	case KindPointer:
		return "pointer"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Mutability of the target of a pointer slot.
type Mutability uint8

const (
	Const Mutability = iota
	Mut
)

func (m Mutability) String() string {
	if m == Mut {
		return "mut"
	}
	return "const"
}

// Pointer describes a pointer slot: the type it addresses, whether the target
// may be written through it, and for references the lifetime it may assume.
type Pointer struct {
	Pointee  *Type
	Lifetime *Lifetime // references only; nil means Static
	Width    int
	Mut      Mutability
	Ref      bool
}

// Slot is one unit of the byte-level memory model. Byte slots are one byte
// wide; a pointer slot spans Pointer.Width bytes and is never split except
// when decomposed into plain bytes during reinterpretation.
type Slot struct {
	Ptr  *Pointer
	Kind Kind
}

var (
	Init    = Slot{Kind: KindInit}
	Uninit  = Slot{Kind: KindUninit}
	NonZero = Slot{Kind: KindNonZero}
)

// PointerSlot returns a slot for p.
func PointerSlot(p Pointer) Slot {
	return Slot{Kind: KindPointer, Ptr: &p}
}

// Size returns the number of bytes the slot occupies.
func (s Slot) Size() int {
	if s.Kind == KindPointer && s.Ptr != nil {
		return s.Ptr.Width
	}
	return 1
}

// IsPointer reports whether s is a pointer slot.
func (s Slot) IsPointer() bool {
	return s.Kind == KindPointer
}

// initialized reports whether s is a byte known to be initialized.
func (s Slot) initialized() bool {
	return s.Kind == KindInit || s.Kind == KindNonZero
}

func (s Slot) String() string {
	if s.Kind != KindPointer || s.Ptr == nil {
		return s.Kind.String()
	}
	return s.Ptr.String()
}

func (p *Pointer) String() string {
	var b strings.Builder
	if p.Ref {
		b.WriteByte('&')
		if p.Lifetime != nil && p.Lifetime != Static {
			b.WriteString(p.Lifetime.String())
			b.WriteByte(' ')
		}
		if p.Mut == Mut {
			b.WriteString("mut ")
		}
	} else {
		b.WriteByte('*')
		b.WriteString(p.Mut.String())
		b.WriteByte(' ')
	}
	if p.Pointee != nil {
		b.WriteString(p.Pointee.Name)
	} else {
		b.WriteString("opaque")
	}
	return b.String()
}

func samePointer(a, b *Pointer) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Pointee == b.Pointee &&
		a.Width == b.Width &&
		a.Mut == b.Mut &&
		a.Ref == b.Ref &&
		orStatic(a.Lifetime) == orStatic(b.Lifetime)
}

// Subsumes reports whether slot a may stand in for slot b at the conservative
// end: every slot subsumes itself, Uninit subsumes Init, and only NonZero
// subsumes NonZero.
func Subsumes(a, b Slot) bool {
	switch {
	case a.Kind == KindPointer || b.Kind == KindPointer:
		return a.Kind == b.Kind && samePointer(a.Ptr, b.Ptr)
	case a.Kind == b.Kind:
		return true
	case a.Kind == KindUninit && b.Kind == KindInit:
		return true
	default:
		return false
	}
}

// Sequence is an ordered list of slots from low to high address.
type Sequence []Slot

// Repeat returns a sequence of n copies of s.
func Repeat(s Slot, n int) Sequence {
	if n <= 0 {
		return nil
	}
	seq := make(Sequence, n)
	for i := range seq {
		seq[i] = s
	}
	return seq
}

// Bytes returns a sequence of n Init slots.
func Bytes(n int) Sequence {
	return Repeat(Init, n)
}

// Size returns the number of bytes covered by the sequence.
func (s Sequence) Size() int {
	n := 0
	for _, slot := range s {
		n += slot.Size()
	}
	return n
}

// Contains reports whether any slot in s has kind k.
func (s Sequence) Contains(k Kind) bool {
	for _, slot := range s {
		if slot.Kind == k {
			return true
		}
	}
	return false
}

// HasRef reports whether any slot in s is a reference. A reference is never
// null, so such a sequence has no all-zero value.
func (s Sequence) HasRef() bool {
	for _, slot := range s {
		if slot.IsPointer() && slot.Ptr != nil && slot.Ptr.Ref {
			return true
		}
	}
	return false
}

// Offsets returns the byte offset of each slot.
func (s Sequence) Offsets() []int {
	offs := make([]int, len(s))
	off := 0
	for i, slot := range s {
		offs[i] = off
		off += slot.Size()
	}
	return offs
}

// String renders runs of identical byte slots compactly, e.g.
// "init×3 uninit *const u64".
func (s Sequence) String() string {
	var b strings.Builder
	for i := 0; i < len(s); {
		j := i + 1
		if !s[i].IsPointer() {
			for j < len(s) && s[j].Kind == s[i].Kind {
				j++
			}
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i].String())
		if n := j - i; n > 1 {
			b.WriteString("×")
			b.WriteString(strconv.Itoa(n))
		}
		i = j
	}
	return b.String()
}
