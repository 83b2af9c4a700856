package decl

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/typelayout/errors"
	"github.com/wippyai/typelayout/layout"
)

const nodeTOML = `
target = "64"

[[lifetimes]]
name = "a"

[[lifetimes]]
name = "b"
outer = "a"

[[types]]
name = "List"
fields = [
  { name = "head", type = "*const Node" },
  { name = "len", type = "usize" },
]

[[types]]
name = "Node"
fields = [
  { name = "value", type = "u32" },
  { name = "next", type = "*const Node" },
]

[[types]]
name = "Header"
rule = "packed"
fields = [
  { name = "kind", type = "u8" },
  { name = "len", type = "u32" },
]
`

const nodeYAML = `
target: "64"
lifetimes:
  - name: a
  - name: b
    outer: a
types:
  - name: List
    fields:
      - {name: head, type: "*const Node"}
      - {name: len, type: usize}
  - name: Node
    fields:
      - {name: value, type: u32}
      - {name: next, type: "*const Node"}
  - name: Header
    rule: packed
    fields:
      - {name: kind, type: u8}
      - {name: len, type: u32}
`

var nodeFile = &File{
	Target: "64",
	Lifetimes: []Lifetime{
		{Name: "a"},
		{Name: "b", Outer: "a"},
	},
	Types: []Type{
		{Name: "List", Fields: []Field{
			{Name: "head", Type: "*const Node"},
			{Name: "len", Type: "usize"},
		}},
		{Name: "Node", Fields: []Field{
			{Name: "value", Type: "u32"},
			{Name: "next", Type: "*const Node"},
		}},
		{Name: "Header", Rule: "packed", Fields: []Field{
			{Name: "kind", Type: "u8"},
			{Name: "len", Type: "u32"},
		}},
	},
}

func wantErr(t *testing.T, err error, phase errors.Phase, kind errors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s/%s error, got nil", phase, kind)
	}
	if !stderrors.Is(err, errors.New(phase, kind).Build()) {
		t.Fatalf("expected %s/%s error, got %v", phase, kind, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		parse func([]byte) (*File, error)
		data  string
	}{
		{"toml", ParseTOML, nodeTOML},
		{"yaml", ParseYAML, nodeYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parse([]byte(tt.data))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(nodeFile, got); diff != "" {
				t.Errorf("parsed file mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	t.Run("toml", func(t *testing.T) {
		_, err := ParseTOML([]byte("[[types]]\nname = \"A\"\nalign = 4\n"))
		wantErr(t, err, errors.PhaseParse, errors.KindInvalidData)
	})
	t.Run("yaml", func(t *testing.T) {
		_, err := ParseYAML([]byte("types:\n  - name: A\n    align: 4\n"))
		wantErr(t, err, errors.PhaseParse, errors.KindInvalidData)
	})
	t.Run("malformed", func(t *testing.T) {
		_, err := ParseTOML([]byte("types = [[["))
		wantErr(t, err, errors.PhaseParse, errors.KindInvalidData)
	})
}

func TestBuild(t *testing.T) {
	r, err := nodeFile.Build()
	if err != nil {
		t.Fatal(err)
	}
	if r.Target() != layout.Arch64 {
		t.Errorf("target: got %v", r.Target())
	}
	if diff := cmp.Diff([]string{"List", "Node", "Header"}, r.Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}

	tests := []struct {
		name      string
		size      int
		align     int
		padding   bool
		zeroValid bool
	}{
		{"List", 16, 8, false, true},
		{"Node", 16, 8, true, false},
		{"Header", 5, 1, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, ok := r.Lookup(tt.name)
			if !ok {
				t.Fatalf("%s not found", tt.name)
			}
			l, ok := typ.Layout()
			if !ok {
				t.Fatalf("%s has no layout", tt.name)
			}
			if l.Size() != tt.size || l.Align != tt.align {
				t.Errorf("got size %d align %d, want %d/%d", l.Size(), l.Align, tt.size, tt.align)
			}
			if l.HasPadding() != tt.padding {
				t.Errorf("HasPadding: got %v, want %v", l.HasPadding(), tt.padding)
			}
			if l.ZeroValid() != tt.zeroValid {
				t.Errorf("ZeroValid: got %v, want %v", l.ZeroValid(), tt.zeroValid)
			}
		})
	}

	if _, ok := r.Lookup("Missing"); ok {
		t.Error("Lookup of an undeclared name should fail")
	}

	node, _ := r.Lookup("Node")
	next := node.Fields[1].Slots[0]
	if !next.IsPointer() || next.Ptr.Pointee != node {
		t.Errorf("Node.next should point at Node, got %v", next)
	}
}

func TestBuildByValueBeforeDeclaration(t *testing.T) {
	f := &File{Target: "32", Types: []Type{
		{Name: "Outer", Fields: []Field{{Name: "in", Type: "Inner"}, {Name: "tag", Type: "u8"}}},
		{Name: "Inner", Fields: []Field{{Name: "x", Type: "u16"}, {Name: "p", Type: "usize"}}},
	}}
	r, err := f.Build()
	if err != nil {
		t.Fatal(err)
	}
	outer, _ := r.Lookup("Outer")
	if outer.Size() != 12 || outer.Align() != 4 {
		t.Errorf("Outer: got size %d align %d, want 12/4", outer.Size(), outer.Align())
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		file  *File
		phase errors.Phase
		kind  errors.Kind
	}{
		{
			"unknown target",
			&File{Target: "16"},
			errors.PhaseConfig, errors.KindInvalidInput,
		},
		{
			"duplicate type",
			&File{Types: []Type{{Name: "A"}, {Name: "A"}}},
			errors.PhaseConfig, errors.KindInvalidInput,
		},
		{
			"unnamed type",
			&File{Types: []Type{{}}},
			errors.PhaseConfig, errors.KindInvalidInput,
		},
		{
			"shadows builtin",
			&File{Types: []Type{{Name: "u32"}}},
			errors.PhaseConfig, errors.KindInvalidInput,
		},
		{
			"unknown field type",
			&File{Types: []Type{{Name: "A", Fields: []Field{{Name: "x", Type: "Missing"}}}}},
			errors.PhaseConfig, errors.KindNotFound,
		},
		{
			"unknown rule",
			&File{Types: []Type{{Name: "A", Rule: "aligned"}}},
			errors.PhaseConfig, errors.KindInvalidInput,
		},
		{
			"contains itself",
			&File{Types: []Type{{Name: "A", Fields: []Field{{Name: "a", Type: "A"}}}}},
			errors.PhaseConfig, errors.KindInvalidInput,
		},
		{
			"mutual containment",
			&File{Types: []Type{
				{Name: "A", Fields: []Field{{Name: "b", Type: "B"}}},
				{Name: "B", Fields: []Field{{Name: "a", Type: "[A; 2]"}}},
			}},
			errors.PhaseConfig, errors.KindInvalidInput,
		},
		{
			"transparent with two fields",
			&File{Types: []Type{{Name: "A", Rule: "transparent", Fields: []Field{
				{Name: "x", Type: "u8"}, {Name: "y", Type: "u8"},
			}}}},
			errors.PhaseLayout, errors.KindFieldCount,
		},
		{
			"bad array length",
			&File{Types: []Type{{Name: "A", Fields: []Field{{Name: "x", Type: "[u8; n]"}}}}},
			errors.PhaseParse, errors.KindInvalidInput,
		},
		{
			"undeclared outer lifetime",
			&File{Lifetimes: []Lifetime{{Name: "b", Outer: "a"}}},
			errors.PhaseConfig, errors.KindNotFound,
		},
		{
			"duplicate lifetime",
			&File{Lifetimes: []Lifetime{{Name: "a"}, {Name: "'a"}}},
			errors.PhaseConfig, errors.KindInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.file.Build()
			wantErr(t, err, tt.phase, tt.kind)
		})
	}
}

func TestBuildErrorPath(t *testing.T) {
	f := &File{Types: []Type{{Name: "A", Fields: []Field{{Name: "x", Type: "Missing"}}}}}
	_, err := f.Build()
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if e.Type != "A" || len(e.Path) != 1 || e.Path[0] != "x" {
		t.Errorf("got type %q path %v, want A [x]", e.Type, e.Path)
	}
}

func TestExpressions(t *testing.T) {
	r, err := (&File{Target: "32", Types: []Type{
		{Name: "Pair", Fields: []Field{{Name: "a", Type: "u32"}, {Name: "b", Type: "u32"}}},
	}}).Build()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		expr  string
		name  string
		size  int
		align int
	}{
		{"u64", "u64", 8, 8},
		{"()", "()", 0, 1},
		{"usize", "usize", 4, 4},
		{"NonZeroUsize", "NonZeroUsize", 4, 4},
		{"MaybeUninit<u8>", "MaybeUninit<u8>", 1, 1},
		{"*const u8", "*const u8", 4, 4},
		{"*mut Pair", "*mut Pair", 4, 4},
		{"&u16", "&'static u16", 4, 4},
		{"&'a mut Pair", "&'a mut Pair", 4, 4},
		{"[u16; 3]", "[u16; 3]", 6, 2},
		{"[u32; 0]", "[u32; 0]", 0, 4},
		{"[Pair; 2]", "[Pair; 2]", 16, 4},
		{"[[u8; 3]; 2]", "[[u8; 3]; 2]", 6, 1},
		{"  Pair ", "Pair", 8, 4},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			typ, err := r.Parse(tt.expr)
			if err != nil {
				t.Fatal(err)
			}
			if typ.Name != tt.name {
				t.Errorf("name: got %q, want %q", typ.Name, tt.name)
			}
			if typ.Size() != tt.size || typ.Align() != tt.align {
				t.Errorf("got size %d align %d, want %d/%d", typ.Size(), typ.Align(), tt.size, tt.align)
			}
		})
	}

	a, _ := r.Parse("[u8; 4]")
	b, _ := r.Parse("[u8; 4]")
	if a != b {
		t.Error("array types should be shared")
	}

	for _, bad := range []string{"Missing", "&'a", "[u8]", "[u8; -1]", "*const Missing"} {
		if _, err := r.Parse(bad); err == nil {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}

func TestArrayLimits(t *testing.T) {
	r, err := (&File{Target: "64"}).Build()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		expr string
		ok   bool
	}{
		{"[u8; 65536]", true},
		{"[u8; 65537]", false},
		{"[u64; 8192]", true},
		{"[u64; 8193]", false},
		{"[(); 65537]", false},
		{"[u8; 1000000000]", false},
		{"[[u8; 256]; 512]", false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			typ, err := r.Parse(tt.expr)
			if !tt.ok {
				wantErr(t, err, errors.PhaseConfig, errors.KindInvalidInput)
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if typ.Size() != 1<<16 {
				t.Errorf("size: got %d, want %d", typ.Size(), 1<<16)
			}
		})
	}
}

func TestLifetimes(t *testing.T) {
	r, err := nodeFile.Build()
	if err != nil {
		t.Fatal(err)
	}
	parse := func(expr string) *layout.Type {
		t.Helper()
		typ, err := r.Parse(expr)
		if err != nil {
			t.Fatal(err)
		}
		return typ
	}

	tests := []struct {
		src, dst string
		want     bool
	}{
		{"&'a u32", "&'b u32", true},
		{"&'b u32", "&'a u32", false},
		{"&u32", "&'b u32", true},
		{"&'b u32", "&u32", false},
		{"&'c u32", "&'b u32", false},
		{"&'a u32", "&'a u32", true},
	}
	for _, tt := range tests {
		t.Run(tt.src+" -> "+tt.dst, func(t *testing.T) {
			if got := layout.FromBytes(parse(tt.src), parse(tt.dst)); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	for _, path := range []string{write("types.toml", nodeTOML), write("types.yml", nodeYAML)} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			f, err := LoadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(nodeFile, f); diff != "" {
				t.Errorf("loaded file mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err := LoadFile(write("types.json", "{}"))
	wantErr(t, err, errors.PhaseLoad, errors.KindUnsupported)

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	wantErr(t, err, errors.PhaseLoad, errors.KindInvalidData)
}
