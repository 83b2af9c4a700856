package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/typelayout/layout"
)

type styles struct {
	title    lipgloss.Style
	field    lipgloss.Style
	typ      lipgloss.Style
	pad      lipgloss.Style
	selected lipgloss.Style
	good     lipgloss.Style
	bad      lipgloss.Style
	help     lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		field: lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		typ:   lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		pad:   lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Italic(true),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")),
		good: lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		bad:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		help: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// terminalWidth returns the width of stdout, or 0 when it is not a terminal.
func terminalWidth() int {
	if !stdoutIsTerminal() {
		return 0
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}

func (st styles) formatEntry(e entry) string {
	if e.err != nil {
		return st.field.Render(e.name) + "  " + st.bad.Render(e.err.Error())
	}
	return fmt.Sprintf("%s  %s", st.field.Render(e.name),
		st.typ.Render(fmt.Sprintf("size %d align %d", e.typ.Size(), e.typ.Align())))
}

type row struct {
	offset int
	name   string
	typ    string
	slots  string
	pad    bool
}

func layoutRows(typ *layout.Type, l layout.Layout) []row {
	var rows []row
	end := 0
	for i, f := range typ.Fields {
		if i >= len(l.Offsets) {
			break
		}
		off := l.Offsets[i]
		if off > end {
			rows = append(rows, row{offset: end, name: "·", typ: "pad", slots: layout.Repeat(layout.Uninit, off-end).String(), pad: true})
		}
		name := f.Name
		if name == "" {
			name = fmt.Sprint(i)
		}
		tn := fmt.Sprintf("[%d]", f.Size)
		if f.Type != nil {
			tn = f.Type.Name
		}
		rows = append(rows, row{offset: off, name: name, typ: tn, slots: f.Slots.String()})
		end = off + f.Size
	}
	if size := l.Size(); size > end {
		rows = append(rows, row{offset: end, name: "·", typ: "pad", slots: layout.Repeat(layout.Uninit, size-end).String(), pad: true})
	}
	return rows
}

func renderLayout(st styles, typ *layout.Type, l layout.Layout, width int) string {
	var b strings.Builder
	b.WriteString(st.title.Render(typ.Name))
	b.WriteString(fmt.Sprintf("  size %d  align %d  rule %s\n", l.Size(), l.Align, l.Rule))

	rows := layoutRows(typ, l)
	nameW, typW := 0, 0
	for _, r := range rows {
		nameW = max(nameW, len(r.name))
		typW = max(typW, len(r.typ))
	}
	for _, r := range rows {
		line := fmt.Sprintf("  %4d  %-*s  %-*s  %s", r.offset, nameW, r.name, typW, r.typ, r.slots)
		style := st.field
		if r.pad {
			style = st.pad
		}
		if width > 0 {
			style = style.MaxWidth(width)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(renderZero(st, typ, l))
	return b.String()
}

func renderZero(st styles, typ *layout.Type, l layout.Layout) string {
	verdict := st.good.Render("zero-valid")
	if !l.ZeroValid() {
		verdict = st.bad.Render("not zero-valid")
	}
	return fmt.Sprintf("%s: %s, padding %d", typ.Name, verdict, l.Padding)
}
