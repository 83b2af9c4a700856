package layout

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/typelayout/errors"
)

// Options configures a Calculator.
type Options struct {
	Logger *zap.Logger
	Target Target
}

// DefaultOptions returns a configuration for the host architecture.
func DefaultOptions() Options {
	return Options{
		Target: Host,
	}
}

type layoutKey struct {
	t    *Type
	rule Rule
}

// Calculator memoizes layouts per (type, rule) and reinterpretation answers
// per type pair. Every cached value is a pure function of its key.
// Thread-safe.
type Calculator struct {
	log     *zap.Logger
	layouts map[layoutKey]Layout
	pairs   *pairCache
	opts    Options
	mu      sync.RWMutex
}

// NewCalculator creates a Calculator with the given options.
func NewCalculator(opts Options) (*Calculator, error) {
	if err := opts.Target.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	return &Calculator{
		log:     log.With(zap.Stringer("target", opts.Target)),
		layouts: make(map[layoutKey]Layout),
		pairs:   newPairCache(),
		opts:    opts,
	}, nil
}

// NewCalculatorWithDefaults creates a Calculator for the host architecture.
func NewCalculatorWithDefaults() *Calculator {
	c, err := NewCalculator(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return c
}

// Target returns the architecture the calculator lays out pointers for.
func (c *Calculator) Target() Target {
	return c.opts.Target
}

// Layout returns the layout of t's fields under rule. Pointer slots must
// match the calculator's target width.
func (c *Calculator) Layout(t *Type, rule Rule) (Layout, error) {
	if !t.Defined() {
		return Layout{}, errors.Undefined(errors.PhaseLayout, t.String())
	}

	key := layoutKey{t: t, rule: rule}
	c.mu.RLock()
	cached, ok := c.layouts[key]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	l, err := compute(t.Name, t.Fields, rule)
	if err != nil {
		return Layout{}, err
	}
	for _, s := range l.Slots {
		if s.IsPointer() && s.Ptr.Width != c.opts.Target.PointerWidth {
			return Layout{}, errors.New(errors.PhaseLayout, errors.KindUnsupported).
				Type(t.Name).
				Value(s.Ptr.Width).
				Detail("pointer width %d on %s target", s.Ptr.Width, c.opts.Target).
				Build()
		}
	}

	c.mu.Lock()
	c.layouts[key] = l
	c.mu.Unlock()

	c.log.Debug("layout computed",
		zap.String("type", t.Name),
		zap.Stringer("rule", rule),
		zap.Int("size", l.Size()),
		zap.Int("align", l.Align))
	return l, nil
}

// HasPadding reports whether t's fields need padding under CCompatible.
func (c *Calculator) HasPadding(t *Type) (bool, error) {
	cl, err := c.Layout(t, CCompatible)
	if err != nil {
		return false, err
	}
	pl, err := c.Layout(t, Compact)
	if err != nil {
		return false, err
	}
	return cl.Size() != pl.Size(), nil
}

// FromZeros reports whether all-zero bytes are a valid value of t under the
// rule t was defined with. Like Layout, it rejects undefined types and
// pointers of a width other than the target's.
func (c *Calculator) FromZeros(t *Type) (bool, error) {
	def, ok := t.Layout()
	if !ok {
		return false, errors.Undefined(errors.PhaseLayout, t.String())
	}
	l, err := c.Layout(t, def.Rule)
	if err != nil {
		return false, err
	}
	return l.ZeroValid(), nil
}

// FromBytes reports whether a value of u may be built from the bytes of any
// valid value of t.
func (c *Calculator) FromBytes(t, u *Type) bool {
	return newChecker(c.pairs).pointee(t, u)
}

// AlignedTo reports whether any address aligned for u is aligned for t. It
// is TypeAlignedTo; alignment does not depend on the target.
func (c *Calculator) AlignedTo(u, t *Type) bool {
	return TypeAlignedTo(u, t)
}

// pairCache stores settled reinterpretation answers.
type pairCache struct {
	m  map[pair]bool
	mu sync.RWMutex
}

func newPairCache() *pairCache {
	return &pairCache{m: make(map[pair]bool)}
}

func (p *pairCache) get(k pair) (ok, hit bool) {
	p.mu.RLock()
	ok, hit = p.m[k]
	p.mu.RUnlock()
	return ok, hit
}

func (p *pairCache) put(k pair, ok bool) {
	p.mu.Lock()
	p.m[k] = ok
	p.mu.Unlock()
}
