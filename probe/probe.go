package probe

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/typelayout"
	"github.com/wippyai/typelayout/errors"
	"github.com/wippyai/typelayout/layout"
)

// Options configures a Prober.
type Options struct {
	Logger *zap.Logger
}

// Prober checks concrete bytes in memory against type layouts.
type Prober struct {
	mem typelayout.Memory
	log *zap.Logger
}

// New creates a Prober over mem. If mem implements typelayout.MemorySizer,
// ranges are bounds-checked before any access.
func New(mem typelayout.Memory, opts Options) *Prober {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	return &Prober{mem: mem, log: log}
}

// Check reports whether the bytes at addr hold a valid value of t: the range
// is in bounds, addr is aligned for t, NonZero slots hold non-zero bytes,
// references are non-null, and non-null pointers address an aligned,
// in-bounds pointee.
func (p *Prober) Check(addr uint32, t *layout.Type) error {
	l, err := p.locate(addr, t)
	if err != nil {
		return p.fail(t, addr, err)
	}

	data, err := p.mem.Read(addr, uint32(l.Size()))
	if err != nil {
		return p.fail(t, addr, err)
	}

	offs := l.Slots.Offsets()
	for i, s := range l.Slots {
		off := offs[i]
		switch {
		case s.Kind == layout.KindNonZero && data[off] == 0:
			e := errors.InvalidData(errors.PhaseProbe, []string{t.Name},
				fmt.Sprintf("zero byte at offset %d", off))
			return p.fail(t, addr, e)
		case s.IsPointer():
			if err := p.pointer(addr+uint32(off), s.Ptr); err != nil {
				return p.fail(t, addr, err)
			}
		}
	}
	return nil
}

// Zero writes the all-zero value of t at addr. Types without a valid zero
// value are rejected before memory is touched.
func (p *Prober) Zero(addr uint32, t *layout.Type) error {
	if c, ok := t.Layout(); ok && !c.ZeroValid() {
		return p.fail(t, addr, errors.NotZeroable(errors.PhaseProbe, t.Name))
	}
	l, err := p.locate(addr, t)
	if err != nil {
		return p.fail(t, addr, err)
	}
	if err := p.mem.Write(addr, make([]byte, l.Size())); err != nil {
		return p.fail(t, addr, err)
	}
	return nil
}

// locate validates that a value of t fits at addr.
func (p *Prober) locate(addr uint32, t *layout.Type) (layout.Layout, error) {
	l, ok := t.Layout()
	if !ok {
		return layout.Layout{}, errors.Undefined(errors.PhaseProbe, t.String())
	}
	if err := p.bounds(addr, uint32(l.Size())); err != nil {
		return layout.Layout{}, err
	}
	if addr%uint32(l.Align) != 0 {
		return layout.Layout{}, errors.Misaligned(errors.PhaseProbe, t.Name, addr, l.Align)
	}
	return l, nil
}

func (p *Prober) bounds(addr, length uint32) error {
	sizer, ok := p.mem.(typelayout.MemorySizer)
	if !ok {
		return nil
	}
	if size := sizer.Size(); uint64(addr)+uint64(length) > uint64(size) {
		return errors.OutOfBounds(errors.PhaseProbe, addr, length, size)
	}
	return nil
}

// readAddr reads a little-endian address of the given width.
func (p *Prober) readAddr(at uint32, width int) (uint64, error) {
	if width == 8 {
		return p.mem.ReadU64(at)
	}
	v, err := p.mem.ReadU32(at)
	return uint64(v), err
}

// pointer checks a pointer stored at at. Null is valid for raw pointers
// only.
func (p *Prober) pointer(at uint32, ptr *layout.Pointer) error {
	addr, err := p.readAddr(at, ptr.Width)
	if err != nil {
		return err
	}
	if addr == 0 {
		if ptr.Ref {
			return errors.New(errors.PhaseProbe, errors.KindInvalidData).
				Type(ptr.String()).
				Detail("null reference at %#x", at).
				Build()
		}
		return nil
	}
	pl, ok := ptr.Pointee.Layout()
	if !ok {
		return nil
	}
	if addr%uint64(pl.Align) != 0 {
		return errors.New(errors.PhaseProbe, errors.KindMisaligned).
			Type(ptr.Pointee.Name).
			Value(addr).
			Detail("pointer at %#x holds %#x, not aligned to %d", at, addr, pl.Align).
			Build()
	}
	if addr > math.MaxUint32 {
		err = errors.OutOfBounds(errors.PhaseProbe, math.MaxUint32, uint32(pl.Size()), math.MaxUint32)
	} else {
		err = p.bounds(uint32(addr), uint32(pl.Size()))
	}
	if err != nil {
		return errors.New(errors.PhaseProbe, errors.KindOutOfBounds).
			Type(ptr.Pointee.Name).
			Value(addr).
			Detail("pointer at %#x addresses memory past the end", at).
			Cause(err).
			Build()
	}
	return nil
}

func (p *Prober) fail(t *layout.Type, addr uint32, err error) error {
	if ce := p.log.Check(zap.DebugLevel, "probe failed"); ce != nil {
		ce.Write(
			zap.String("type", t.String()),
			zap.Uint32("addr", addr),
			zap.Error(err),
		)
	}
	return err
}
