package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/nick-dorsch/todoboard/pkg/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	statBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Align(lipgloss.Center)

	statValueStyle = lipgloss.NewStyle().Bold(true)

	rateLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true).
				Padding(0, 1)
)

const statBoxCount = 4

// StatsPanel renders the per-status counters and the completion bar.
type StatsPanel struct {
	Width int
	Title string

	bar progress.Model
}

func NewStatsPanel(width int) *StatsPanel {
	p := &StatsPanel{
		Title: "Todo Dashboard",
		bar: progress.New(
			progress.WithSolidFill(string(StatusColor(models.TodoStatusCompleted))),
			progress.WithoutPercentage(),
		),
	}
	p.SetWidth(width)
	return p
}

func (p *StatsPanel) SetWidth(width int) {
	p.Width = width
	barWidth := width - 8
	if barWidth < 10 {
		barWidth = 10
	}
	p.bar.Width = barWidth
}

func (p *StatsPanel) View(stats models.Stats, rate int) string {
	var sb strings.Builder
	if p.Title != "" {
		sb.WriteString(headerStyle.Render(p.Title))
		sb.WriteString("\n")
	}

	if stats.Total == 0 {
		sb.WriteString(placeholderStyle.Render("No todos yet"))
		return sb.String()
	}

	boxWidth := p.Width/statBoxCount - 2
	if boxWidth < 12 {
		boxWidth = 12
	}
	boxes := []string{
		p.renderBox("Total", stats.Total, lipgloss.Color("252"), boxWidth),
		p.renderBox(models.TodoStatusCompleted.Label(), stats.Completed, StatusColor(models.TodoStatusCompleted), boxWidth),
		p.renderBox(models.TodoStatusInProgress.Label(), stats.InProgress, StatusColor(models.TodoStatusInProgress), boxWidth),
		p.renderBox(models.TodoStatusPending.Label(), stats.Pending, StatusColor(models.TodoStatusPending), boxWidth),
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	sb.WriteString("\n")

	sb.WriteString(rateLabelStyle.Render("Completion"))
	sb.WriteString("\n ")
	sb.WriteString(p.bar.ViewAs(float64(rate) / 100))
	sb.WriteString(fmt.Sprintf(" %3d%%", rate))

	return sb.String()
}

func (p *StatsPanel) renderBox(label string, value int, color lipgloss.Color, width int) string {
	body := statValueStyle.Foreground(color).Render(fmt.Sprintf("%d", value)) + "\n" + label
	return statBoxStyle.BorderForeground(color).Width(width).Render(body)
}
