package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/assetpack/container"
	"github.com/wippyai/assetpack/namespace"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	c        *container.Container
	resolver *container.Resolver
	filename string
	result   string
	opts     []container.Option
	input    textinput.Model
	selected int
	state    modelState
}

type modelState int

const (
	stateSelectSection modelState = iota
	stateShowSection
	stateResolve
	stateShowResult
)

func newInteractiveModel(filename string, opts []container.Option) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		opts:     opts,
		state:    stateSelectSection,
	}
}

type loadedMsg struct {
	err  error
	c    *container.Container
	node *namespace.Node[container.Object]
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadContainer
}

func (m *interactiveModel) loadContainer() tea.Msg {
	c, node, err := load(m.filename, m.opts)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{c: c, node: node}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateResolve {
			return m.updateResolve(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectSection && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.c != nil && m.state == stateSelectSection && m.selected < len(m.c.Sections())-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectSection:
				if m.c != nil && len(m.c.Sections()) > 0 {
					m.state = stateShowSection
				}
			case stateShowSection, stateShowResult:
				m.state = stateSelectSection
				m.result = ""
			}

		case "/":
			if m.resolver != nil {
				m.prepareInput()
				m.state = stateResolve
				return m, textinput.Blink
			}

		case "esc":
			m.state = stateSelectSection
			m.result = ""
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.c = msg.c
		m.resolver = container.NewResolver(msg.node)
	}

	return m, nil
}

func (m *interactiveModel) updateResolve(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateSelectSection
		return m, nil
	case "enter":
		key := strings.TrimSpace(m.input.Value())
		if v, ok := m.resolver.Lookup(key); ok {
			m.result = resultStyle.Render(describe(v, m.resolver))
		} else {
			m.result = errorStyle.Render(fmt.Sprintf("%s: not found", key))
		}
		m.state = stateShowResult
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = "emitter:7"
	ti.Prompt = "key: "
	ti.Width = 40
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.c == nil {
		return "Loading container..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Asset Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	sections := m.c.Sections()
	switch m.state {
	case stateSelectSection:
		b.WriteString(fmt.Sprintf("%d sections, %d skipped:\n\n", len(sections), len(m.c.Errors)))
		for i, res := range sections {
			line := m.formatSection(res)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		for _, se := range m.c.Errors {
			b.WriteString(errorStyle.Render("  " + se.Error()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • / resolve • q quit"))

	case stateShowSection:
		res := sections[m.selected]
		b.WriteString(m.formatSection(res))
		b.WriteString("\n\n")
		for _, line := range details(res) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter back • q quit"))

	case stateResolve:
		b.WriteString("Resolve a key from the container namespace:\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter resolve • esc back"))

	case stateShowResult:
		b.WriteString(m.result)
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatSection(res container.Resource) string {
	return funcStyle.Render(fmt.Sprintf("%4d", res.SectionID())) + " " +
		typeStyle.Render(fmt.Sprintf("%-8s", res.Type())) + " " +
		summary(res)
}

func runInteractive(filename string, opts []container.Option) error {
	p := tea.NewProgram(newInteractiveModel(filename, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
