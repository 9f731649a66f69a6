package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nick-dorsch/todoboard/internal/todo"
	"github.com/nick-dorsch/todoboard/internal/ui/components"
	"github.com/nick-dorsch/todoboard/pkg/models"
)

const (
	defaultWidth  = 100
	defaultHeight = 30

	// Lines taken by the stats panel, the separators and the footer.
	chromeHeight = 12
)

var (
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(1)
	flashStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).PaddingLeft(1)
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
)

// snapshotMsg carries a collection snapshot from the change stream.
type snapshotMsg []models.Todo

// streamClosedMsg is sent once the change stream has been closed.
type streamClosedMsg struct{}

// DashboardModel is the single-page todo dashboard.
type DashboardModel struct {
	todos   *todo.Service
	updates <-chan []models.Todo

	stats    *components.StatsPanel
	list     *components.TodoList
	current  models.Stats
	rate     int
	flash    string
	width    int
	quitting bool
}

// NewDashboardModel builds a dashboard fed by updates, which is normally
// the channel returned by todo.Service.Watch.
func NewDashboardModel(todos *todo.Service, updates <-chan []models.Todo) DashboardModel {
	return DashboardModel{
		todos:   todos,
		updates: updates,
		stats:   components.NewStatsPanel(defaultWidth),
		list:    components.NewTodoList(defaultWidth, defaultHeight-chromeHeight),
		width:   defaultWidth,
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return waitForSnapshot(m.updates)
}

func waitForSnapshot(updates <-chan []models.Todo) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		snapshot, ok := <-updates
		if !ok {
			return streamClosedMsg{}
		}
		return snapshotMsg(snapshot)
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.stats.SetWidth(msg.Width)
		height := msg.Height - chromeHeight
		if height < 3 {
			height = 3
		}
		m.list.SetSize(msg.Width, height)
		return m, nil

	case snapshotMsg:
		m.apply(msg)
		return m, waitForSnapshot(m.updates)

	case streamClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		m.flash = ""
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			m.list.MoveUp()

		case "down", "j":
			m.list.MoveDown()

		case "s":
			m.cycleStatus()

		case "d":
			m.deleteSelected()
		}
		return m, nil
	}

	return m, m.list.Update(msg)
}

func (m *DashboardModel) apply(snapshot []models.Todo) {
	m.current = todo.ComputeStats(snapshot)
	m.rate = todo.CompletionRate(m.current)
	m.list.SetTodos(snapshot, m.todos.Now())
}

func (m *DashboardModel) cycleStatus() {
	t, ok := m.list.Selected()
	if !ok {
		return
	}
	next := t.Status.Next()
	if err := m.todos.SetStatus(t.ID, next); err != nil {
		m.flash = m.describeError(t, err)
		return
	}
	m.flash = fmt.Sprintf("%q is now %s", t.Title, next.Label())
}

func (m *DashboardModel) deleteSelected() {
	t, ok := m.list.Selected()
	if !ok {
		return
	}
	if err := m.todos.RemoveTask(t.ID); err != nil {
		m.flash = m.describeError(t, err)
		return
	}
	m.flash = fmt.Sprintf("Deleted %q", t.Title)
}

func (m *DashboardModel) describeError(t models.Todo, err error) string {
	if errors.Is(err, todo.ErrNotFound) {
		return fmt.Sprintf("%q no longer exists", t.Title)
	}
	return err.Error()
}

func (m DashboardModel) View() string {
	if m.quitting {
		return ""
	}

	divider := dividerStyle.Render(strings.Repeat("─", max(m.width, 1)))

	var s strings.Builder
	s.WriteString(m.stats.View(m.current, m.rate))
	s.WriteString("\n")
	s.WriteString(divider)
	s.WriteString("\n")
	s.WriteString(m.list.View())
	s.WriteString("\n")
	s.WriteString(divider)
	s.WriteString("\n")
	if m.flash != "" {
		s.WriteString(flashStyle.Render(m.flash))
		s.WriteString("\n")
	}
	s.WriteString(footerStyle.Render("j/k move • s cycle status • d delete • q quit"))
	s.WriteString("\n")

	return s.String()
}

// RunDashboard runs the dashboard until the user quits or ctx is done.
func RunDashboard(ctx context.Context, todos *todo.Service) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewDashboardModel(todos, todos.Watch(ctx))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
