package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type modelState int

const (
	stateBrowse modelState = iota
	stateDetail
)

type interactiveModel struct {
	session  *session
	st       styles
	entries  []entry
	visible  []entry
	marked   string
	filter   textinput.Model
	selected int
	width    int
	state    modelState
}

func newInteractiveModel(s *session) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "filter types"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.Focus()

	m := &interactiveModel{
		session: s,
		st:      newStyles(true),
		entries: s.entries(),
		filter:  ti,
		state:   stateBrowse,
	}
	m.applyFilter()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for _, e := range m.entries {
		if q == "" || strings.Contains(strings.ToLower(e.name), q) {
			m.visible = append(m.visible, e)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(0, len(m.visible)-1)
	}
}

func (m *interactiveModel) current() (entry, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return entry{}, false
	}
	return m.visible[m.selected], true
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.state == stateDetail {
				m.state = stateBrowse
				return m, nil
			}
			return m, tea.Quit

		case "up":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.state == stateBrowse && m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			if _, ok := m.current(); ok {
				m.state = stateDetail
			}
			return m, nil

		case "tab":
			if e, ok := m.current(); ok {
				if m.marked == e.name {
					m.marked = ""
				} else {
					m.marked = e.name
				}
			}
			return m, nil
		}
	}

	if m.state != stateBrowse {
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(m.st.title.Render("Type Layouts"))
	if m.marked != "" {
		b.WriteString(" source: ")
		b.WriteString(m.st.typ.Render(m.marked))
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		if len(m.visible) == 0 {
			b.WriteString(m.st.help.Render("no matching types"))
			b.WriteString("\n")
		}
		for i, e := range m.visible {
			line := m.st.formatEntry(e)
			if e.name == m.marked {
				line += " *"
			}
			if i == m.selected {
				b.WriteString(m.st.selected.Render("> " + e.name))
				b.WriteString(strings.TrimPrefix(line, m.st.field.Render(e.name)))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.st.help.Render("↑/↓ select • enter layout • tab mark source • esc quit"))

	case stateDetail:
		e, _ := m.current()
		if e.err != nil {
			b.WriteString(m.st.bad.Render(fmt.Sprintf("Error: %v", e.err)))
		} else {
			l, _ := e.typ.Layout()
			b.WriteString(renderLayout(m.st, e.typ, l, m.width))
			if m.marked != "" {
				b.WriteString("\n\n")
				b.WriteString(m.session.reinterpret(m.st, m.marked, e.name))
			}
		}
		b.WriteString("\n\n")
		b.WriteString(m.st.help.Render("esc back • ctrl+c quit"))
	}

	return b.String()
}

func runInteractive(s *session) error {
	p := tea.NewProgram(newInteractiveModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
