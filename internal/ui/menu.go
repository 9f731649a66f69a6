package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	logoStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	itemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("12")).Bold(true)
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const logo = `
 ▀█▀ █▀█ █▀▄ █▀█ █▄▄ █▀█ ▄▀█ █▀█ █▀▄
  █  █▄█ █▄▀ █▄█ █▄█ █▄█ █▀█ █▀▄ █▄▀
`

type menuItem struct {
	command string
	help    string
}

var menuItems = []menuItem{
	{"dashboard", "interactive todo dashboard"},
	{"web", "serve the JSON API"},
	{"mcp", "serve MCP tools on stdio"},
	{"list", "print all todos"},
	{"stats", "print completion statistics"},
	{"export", "write a JSON report to stdout"},
}

type MenuModel struct {
	choices  []menuItem
	cursor   int
	selected string
	quitting bool
}

func NewMenuModel() MenuModel {
	return MenuModel{
		choices: menuItems,
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		case "enter":
			m.selected = m.choices[m.cursor].command
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(logoStyle.Render(logo))
	s.WriteString("\n\n")

	for i, choice := range m.choices {
		line := fmt.Sprintf("%-10s %s", choice.command, helpStyle.Render(choice.help))
		if m.cursor == i {
			s.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			s.WriteString(itemStyle.Render("  " + line))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n(use arrow keys or j/k to navigate, enter to select, q to quit)\n")

	return s.String()
}

// Selected returns the chosen command, or "" when the menu was quit.
func (m MenuModel) Selected() string {
	return m.selected
}

func RunMenu() (string, error) {
	p := tea.NewProgram(NewMenuModel())
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	return finalModel.(MenuModel).Selected(), nil
}
