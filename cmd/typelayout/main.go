package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tetratelabs/wazero"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/typelayout/decl"
	"github.com/wippyai/typelayout/layout"
	"github.com/wippyai/typelayout/probe"
	"github.com/wippyai/typelayout/witlayout"
)

func main() {
	var (
		witFile     = flag.String("wit", "", "Path to a WIT resolve in JSON form (wasm-tools component wit --json)")
		declFile    = flag.String("decl", "", "Path to struct declarations (.toml, .yaml)")
		typeName    = flag.String("type", "", "Print the layout of a type")
		from        = flag.String("from", "", "Source type of a reinterpretation check")
		to          = flag.String("to", "", "Target type of a reinterpretation check")
		zero        = flag.String("zero", "", "Report whether all-zero bytes are a valid value of a type")
		list        = flag.Bool("list", false, "List named types with size and alignment")
		wasmFile    = flag.String("wasm", "", "Core wasm module whose exported memory is probed with -type")
		addr        = flag.Uint("addr", 0, "Address probed in the module memory")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *witFile == "" && *declFile == "" && *typeName == "" && *from == "" && *zero == "" {
		fmt.Fprintln(os.Stderr, "Usage: typelayout [-wit types.json] [-decl types.toml] -type <name>")
		fmt.Fprintln(os.Stderr, "       typelayout [-wit types.json] -from <name> -to <name>")
		fmt.Fprintln(os.Stderr, "       typelayout [-wit types.json] -zero <name>")
		fmt.Fprintln(os.Stderr, "       typelayout -wit types.json | -decl types.toml -list")
		fmt.Fprintln(os.Stderr, "       typelayout [-wit types.json] -type <name> -wasm <mod.wasm> -addr <n>")
		fmt.Fprintln(os.Stderr, "       typelayout -wit types.json -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		layout.SetLogger(log)
		probe.SetLogger(log)
	}

	s, err := newSession(*witFile, *declFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	st := newStyles(stdoutIsTerminal())
	if err := run(s, st, *typeName, *from, *to, *zero, *list, *wasmFile, uint32(*addr)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(s *session, st styles, typeName, from, to, zero string, listOnly bool, wasmFile string, addr uint32) error {
	if listOnly {
		fmt.Println(st.title.Render("Types"))
		for _, e := range s.entries() {
			fmt.Printf("  %s\n", st.formatEntry(e))
		}
	}

	if typeName != "" {
		typ, l, err := s.layout(typeName)
		if err != nil {
			return err
		}
		fmt.Println(renderLayout(st, typ, l, terminalWidth()))

		if wasmFile != "" {
			if err := probeModule(wasmFile, addr, typ); err != nil {
				fmt.Println(st.bad.Render(fmt.Sprintf("probe %s at %#x: %v", typ.Name, addr, err)))
			} else {
				fmt.Println(st.good.Render(fmt.Sprintf("probe %s at %#x: ok", typ.Name, addr)))
			}
		}
	}

	if from != "" || to != "" {
		if from == "" || to == "" {
			return fmt.Errorf("-from and -to must be given together")
		}
		fmt.Println(s.reinterpret(st, from, to))
	}

	if zero != "" {
		typ, l, err := s.layout(zero)
		if err != nil {
			return err
		}
		fmt.Println(renderZero(st, typ, l))
	}
	return nil
}

// probeModule instantiates a core module and checks the bytes at addr in its
// exported memory against typ.
func probeModule(wasmFile string, addr uint32, typ *layout.Type) error {
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, data)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithStartFunctions())
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}

	var memName string
	for name := range compiled.ExportedMemories() {
		memName = name
		break
	}
	mem := probe.WrapMemory(mod.ExportedMemory(memName))
	if mem == nil {
		return fmt.Errorf("module exports no memory")
	}
	return probe.New(mem, probe.Options{}).Check(addr, typ)
}

// session resolves type names against optional struct declarations and an
// optional WIT resolve.
type session struct {
	res  *wit.Resolve
	reg  *decl.Registry
	calc *witlayout.Calculator
}

type entry struct {
	name string
	typ  *layout.Type
	err  error
}

func newSession(witFile, declFile string) (*session, error) {
	calc, err := witlayout.NewCalculator(witlayout.Options{Logger: layout.Logger()})
	if err != nil {
		return nil, err
	}
	s := &session{calc: calc}

	file := &decl.File{}
	if declFile != "" {
		if file, err = decl.LoadFile(declFile); err != nil {
			return nil, err
		}
	}
	if s.reg, err = file.Build(); err != nil {
		return nil, err
	}

	if witFile == "" {
		return s, nil
	}

	f, err := os.Open(witFile)
	if err != nil {
		return nil, fmt.Errorf("open wit: %w", err)
	}
	defer f.Close()

	s.res, err = witlayout.Load(f)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// lookup resolves declared names first, then WIT names and types, then
// pointer, reference and array expressions over the declarations.
func (s *session) lookup(name string) (*layout.Type, error) {
	name = strings.TrimSpace(name)
	if s.reg != nil {
		if t, ok := s.reg.Lookup(name); ok {
			return t, nil
		}
	}
	t, err := witlayout.Lookup(s.res, name)
	if err != nil {
		if s.reg != nil {
			if typ, perr := s.reg.Parse(name); perr == nil {
				return typ, nil
			}
		}
		return nil, err
	}
	return s.calc.Type(t)
}

func (s *session) layout(name string) (*layout.Type, layout.Layout, error) {
	typ, err := s.lookup(name)
	if err != nil {
		return nil, layout.Layout{}, err
	}
	l, ok := typ.Layout()
	if !ok {
		return nil, layout.Layout{}, fmt.Errorf("type %s has no layout", name)
	}
	return typ, l, nil
}

func (s *session) entries() []entry {
	var out []entry
	if s.reg != nil {
		for _, name := range s.reg.Names() {
			typ, _ := s.reg.Lookup(name)
			out = append(out, entry{name: name, typ: typ})
		}
	}
	if s.res != nil {
		for _, td := range witlayout.Named(s.res) {
			typ, err := s.calc.Type(td)
			out = append(out, entry{name: *td.Name, typ: typ, err: err})
		}
	}
	return out
}

func (s *session) reinterpret(st styles, from, to string) string {
	src, sl, err := s.layout(from)
	if err != nil {
		return st.bad.Render(err.Error())
	}
	dst, dl, err := s.layout(to)
	if err != nil {
		return st.bad.Render(err.Error())
	}

	head := fmt.Sprintf("%s -> %s: ", src.Name, dst.Name)
	if layout.FromBytes(src, dst) {
		return head + st.good.Render("reinterpretable")
	}
	msg := head + st.bad.Render("not reinterpretable")
	if m, ok := layout.Explain(sl.Slots, dl.Slots); !ok {
		msg += "\n  " + st.help.Render(m.String())
	}
	return msg
}
