package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nick-dorsch/todoboard/internal/todo"
	"github.com/nick-dorsch/todoboard/pkg/models"
)

// DuePlaceholder is shown for todos without a due date.
const DuePlaceholder = "N/A"

var (
	rowStyle         = lipgloss.NewStyle().PaddingLeft(1)
	selectedRowStyle = lipgloss.NewStyle().PaddingLeft(1).Bold(true).Foreground(lipgloss.Color("12"))
	titleDoneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("245"))
	descStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(5)
	dueStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	overdueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	scrollbarTrackStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("236"))

	scrollbarHandleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))
)

// StatusColor maps a status to its display colour. Unknown statuses are grey.
func StatusColor(s models.TodoStatus) lipgloss.Color {
	switch s {
	case models.TodoStatusCompleted:
		return lipgloss.Color("42")
	case models.TodoStatusInProgress:
		return lipgloss.Color("39")
	case models.TodoStatusPending:
		return lipgloss.Color("214")
	default:
		return lipgloss.Color("240")
	}
}

// FormatDue renders a due date as "2024-01-20 (1 day from now)", or the
// placeholder when there is none.
func FormatDue(due *time.Time, now time.Time) string {
	if due == nil {
		return DuePlaceholder
	}
	return fmt.Sprintf("%s (%s)", due.Format(time.DateOnly), humanize.RelTime(*due, now, "ago", "from now"))
}

// TodoList renders todos in a scrollable viewport with a cursor.
type TodoList struct {
	viewport viewport.Model
	todos    []models.Todo
	cursor   int
	now      time.Time
	width    int
	height   int
}

func NewTodoList(width, height int) *TodoList {
	l := &TodoList{}
	l.SetSize(width, height)
	return l
}

func (l *TodoList) SetSize(width, height int) {
	l.width = width
	l.height = height
	vpWidth := width
	if width > 0 {
		vpWidth = width - 1
	}
	l.viewport = viewport.New(vpWidth, height)
	l.updateContent()
}

// SetTodos replaces the rows. The cursor follows the selected todo when it
// still exists and is clamped otherwise.
func (l *TodoList) SetTodos(todos []models.Todo, now time.Time) {
	selected, hadSelection := l.Selected()

	l.todos = todos
	l.now = now

	if hadSelection {
		for i, t := range todos {
			if t.ID == selected.ID {
				l.cursor = i
				l.updateContent()
				return
			}
		}
	}
	if l.cursor >= len(todos) {
		l.cursor = len(todos) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.updateContent()
}

func (l *TodoList) Selected() (models.Todo, bool) {
	if l.cursor < 0 || l.cursor >= len(l.todos) {
		return models.Todo{}, false
	}
	return l.todos[l.cursor], true
}

func (l *TodoList) Cursor() int {
	return l.cursor
}

func (l *TodoList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
		l.updateContent()
	}
}

func (l *TodoList) MoveDown() {
	if l.cursor < len(l.todos)-1 {
		l.cursor++
		l.updateContent()
	}
}

func (l *TodoList) updateContent() {
	if len(l.todos) == 0 {
		l.viewport.SetContent(placeholderStyle.Render("Nothing to do"))
		return
	}

	var rows []string
	selectedLine := 0
	for i, t := range l.todos {
		if i == l.cursor {
			selectedLine = len(rows)
		}
		rows = append(rows, l.renderRow(t, i == l.cursor)...)
	}
	l.viewport.SetContent(strings.Join(rows, "\n"))

	// Two lines per row: keep both lines of the selected row visible.
	if selectedLine < l.viewport.YOffset {
		l.viewport.SetYOffset(selectedLine)
	} else if bottom := selectedLine + 1; bottom >= l.viewport.YOffset+l.viewport.Height {
		l.viewport.SetYOffset(bottom - l.viewport.Height + 1)
	}
}

func (l *TodoList) renderRow(t models.Todo, selected bool) []string {
	marker := "  "
	style := rowStyle
	if selected {
		marker = "> "
		style = selectedRowStyle
	}

	label := lipgloss.NewStyle().Foreground(StatusColor(t.Status)).Render(fmt.Sprintf("[%s]", t.Status.Label()))
	title := t.Title
	if t.Status == models.TodoStatusCompleted {
		title = titleDoneStyle.Render(title)
	}

	due := dueStyle.Render("due " + FormatDue(t.DueDate, l.now))
	if todo.IsOverdue(t, l.now) {
		due += " " + overdueStyle.Render("OVERDUE")
	}

	first := style.Render(fmt.Sprintf("%s#%d %s %s  %s", marker, t.ID, label, title, due))
	second := descStyle.Render(t.Description)
	return []string{first, second}
}

func (l *TodoList) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	return cmd
}

func (l *TodoList) View() string {
	if l.viewport.TotalLineCount() <= l.viewport.Height {
		return l.viewport.View()
	}

	h := l.viewport.Height
	percent := l.viewport.ScrollPercent()

	handlePos := int(float64(h-1) * percent)

	var sb strings.Builder
	for i := 0; i < h; i++ {
		if i == handlePos {
			sb.WriteString(scrollbarHandleStyle.Render("┃"))
		} else {
			sb.WriteString(scrollbarTrackStyle.Render("│"))
		}
		if i < h-1 {
			sb.WriteString("\n")
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, l.viewport.View(), sb.String())
}
