package witlayout

import (
	"strconv"
	"sync"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/typelayout/errors"
	"github.com/wippyai/typelayout/internal/abi"
	"github.com/wippyai/typelayout/layout"
)

// Options configures a Calculator.
type Options struct {
	Logger *zap.Logger
}

// Calculator maps WIT types to layout types on the wasm32 target.
// Thread-safe.
type Calculator struct {
	calc  *layout.Calculator
	log   *zap.Logger
	cache map[*wit.TypeDef]*layout.Type
	mu    sync.Mutex
}

// NewCalculator creates a Calculator.
func NewCalculator(opts Options) (*Calculator, error) {
	log := opts.Logger
	if log == nil {
		log = layout.Logger()
	}
	calc, err := layout.NewCalculator(layout.Options{Target: layout.Wasm32, Logger: log})
	if err != nil {
		return nil, err
	}
	return &Calculator{
		calc:  calc,
		log:   log,
		cache: make(map[*wit.TypeDef]*layout.Type),
	}, nil
}

// Type returns the layout type of t.
func (c *Calculator) Type(t wit.Type) (*layout.Type, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typeOf(t)
}

// Parse parses a WIT primitive type name such as "u32" or "string" and
// returns its layout type.
func (c *Calculator) Parse(s string) (*layout.Type, error) {
	t, err := wit.ParseType(s)
	if err != nil {
		return nil, errors.ParseFailed("wit type "+strconv.Quote(s), err)
	}
	return c.Type(t)
}

// Layout returns the wasm32 layout of t.
func (c *Calculator) Layout(t wit.Type) (layout.Layout, error) {
	typ, err := c.Type(t)
	if err != nil {
		return layout.Layout{}, err
	}
	return c.calc.Layout(typ, rootRule(typ))
}

// HasPadding reports whether t's own fields need padding.
func (c *Calculator) HasPadding(t wit.Type) (bool, error) {
	l, err := c.Layout(t)
	if err != nil {
		return false, err
	}
	return l.HasPadding(), nil
}

// FromZeros reports whether all-zero bytes are a valid value of t.
func (c *Calculator) FromZeros(t wit.Type) (bool, error) {
	typ, err := c.Type(t)
	if err != nil {
		return false, err
	}
	return c.calc.FromZeros(typ)
}

// FromBytes reports whether a value of dst may be read from the bytes of
// any value of src.
func (c *Calculator) FromBytes(src, dst wit.Type) (bool, error) {
	s, err := c.Type(src)
	if err != nil {
		return false, err
	}
	d, err := c.Type(dst)
	if err != nil {
		return false, err
	}
	return c.calc.FromBytes(s, d), nil
}

func rootRule(t *layout.Type) layout.Rule {
	if l, ok := t.Layout(); ok {
		return l.Rule
	}
	return layout.CCompatible
}

func (c *Calculator) typeOf(t wit.Type) (*layout.Type, error) {
	switch typ := t.(type) {
	case wit.Bool:
		return boolType, nil
	case wit.U8:
		return u8Type, nil
	case wit.S8:
		return s8Type, nil
	case wit.U16:
		return u16Type, nil
	case wit.S16:
		return s16Type, nil
	case wit.U32:
		return u32Type, nil
	case wit.S32:
		return s32Type, nil
	case wit.U64:
		return u64Type, nil
	case wit.S64:
		return s64Type, nil
	case wit.F32:
		return f32Type, nil
	case wit.F64:
		return f64Type, nil
	case wit.Char:
		return charType, nil
	case wit.String:
		return stringType, nil
	case *wit.TypeDef:
		return c.typeDef(typ)
	case nil:
		return nil, errors.InvalidInput(errors.PhaseLayout, "nil wit type")
	default:
		return nil, errors.Unsupported(errors.PhaseLayout, "wit type "+typeString(t))
	}
}

func (c *Calculator) typeDef(td *wit.TypeDef) (*layout.Type, error) {
	if cached, ok := c.cache[td]; ok {
		return cached, nil
	}

	name := defName(td)
	var (
		typ *layout.Type
		err error
	)
	switch kind := td.Kind.(type) {
	case *wit.Record:
		fields := make([]layout.Field, len(kind.Fields))
		for i, f := range kind.Fields {
			ft, err := c.typeOf(f.Type)
			if err != nil {
				return nil, withPath(err, f.Name)
			}
			fields[i] = ft.Field(f.Name)
		}
		typ, err = layout.Declare(name, layout.CCompatible, fields...)
	case *wit.Tuple:
		fields := make([]layout.Field, len(kind.Types))
		for i, et := range kind.Types {
			ft, err := c.typeOf(et)
			if err != nil {
				return nil, withPath(err, strconv.Itoa(i))
			}
			fields[i] = ft.Field(strconv.Itoa(i))
		}
		typ, err = layout.Declare(name, layout.CCompatible, fields...)
	case *wit.List:
		elem, err := c.typeOf(kind.Type)
		if err != nil {
			return nil, withPath(err, "element")
		}
		typ, err = sliceType(name, elem)
		if err != nil {
			return nil, err
		}
	case *wit.Variant:
		payloads := make([]wit.Type, len(kind.Cases))
		for i, cs := range kind.Cases {
			payloads[i] = cs.Type
		}
		typ, err = c.variant(name, payloads)
	case *wit.Option:
		typ, err = c.variant(name, []wit.Type{nil, kind.Type})
	case *wit.Result:
		typ, err = c.variant(name, []wit.Type{kind.OK, kind.Err})
	case *wit.Enum:
		n := abi.DiscriminantSize(len(kind.Cases))
		typ, err = layout.Scalar(name, n, layout.Bytes(n))
	case *wit.Flags:
		size, align := abi.FlagsSize(len(kind.Flags))
		typ, err = layout.Scalar(name, align, layout.Bytes(size))
	case *wit.Own, *wit.Borrow:
		typ, err = layout.Scalar(name, 4, layout.Bytes(4))
	case wit.Type:
		inner, ierr := c.typeOf(kind)
		if ierr != nil {
			return nil, withPath(ierr, name)
		}
		typ, err = layout.Declare(name, layout.Transparent, inner.Field(name))
	default:
		return nil, errors.Unsupported(errors.PhaseLayout, "wit type definition "+name)
	}
	if err != nil {
		return nil, err
	}

	c.cache[td] = typ
	if ce := c.log.Check(zap.DebugLevel, "wit type mapped"); ce != nil {
		ce.Write(
			zap.String("type", name),
			zap.Int("size", typ.Size()),
			zap.Int("align", typ.Align()),
		)
	}
	return typ, nil
}

// variant lays out a discriminant followed by a payload area large enough
// for every case. Cases disagree on which payload bytes are initialized, so
// the payload area is uninit.
func (c *Calculator) variant(name string, cases []wit.Type) (*layout.Type, error) {
	size, align := 0, 1
	for i, ct := range cases {
		if ct == nil {
			continue
		}
		pt, err := c.typeOf(ct)
		if err != nil {
			return nil, withPath(err, strconv.Itoa(i))
		}
		size = abi.Max(size, pt.Size())
		align = abi.Max(align, pt.Align())
	}

	tag := discriminant(len(cases))
	payload := layout.Field{
		Name:  "payload",
		Align: align,
		Size:  size,
		Slots: layout.Repeat(layout.Uninit, size),
	}
	return layout.Declare(name, layout.CCompatible, tag.Field("tag"), payload)
}

func discriminant(cases int) *layout.Type {
	switch abi.DiscriminantSize(cases) {
	case 1:
		return u8Type
	case 2:
		return u16Type
	}
	return u32Type
}

func withPath(err error, name string) error {
	if e, ok := err.(*errors.Error); ok {
		e.Path = append([]string{name}, e.Path...)
		return e
	}
	return err
}

func defName(td *wit.TypeDef) string {
	if td.Name != nil && *td.Name != "" {
		return *td.Name
	}
	switch kind := td.Kind.(type) {
	case *wit.Record:
		return "record"
	case *wit.Tuple:
		return "tuple"
	case *wit.List:
		return "list<" + typeString(kind.Type) + ">"
	case *wit.Option:
		return "option<" + typeString(kind.Type) + ">"
	case *wit.Result:
		return "result"
	case *wit.Variant:
		return "variant"
	case *wit.Enum:
		return "enum"
	case *wit.Flags:
		return "flags"
	case *wit.Own:
		return "own"
	case *wit.Borrow:
		return "borrow"
	}
	return "type"
}

func typeString(t wit.Type) string {
	switch typ := t.(type) {
	case nil:
		return "_"
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		return defName(typ)
	}
	return "unknown"
}
