package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/tdq/internal/models"
)

var styles = NewPalette("#E44332", "#058527", "#D1453B", "#EB8909", "#808080")

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	label lipgloss.Style
}

var _ Painter = (*Palette)(nil)

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		label: NewBold(h).Width(12),
	}
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

// priorityColor matches the flag colors Todoist uses for p1..p4.
func priorityColor(p models.Priority) lipgloss.Color {
	switch p {
	case models.PriorityHigh:
		return lipgloss.Color("#D1453B")
	case models.PriorityMedium:
		return lipgloss.Color("#EB8909")
	case models.PriorityLow:
		return lipgloss.Color("#246FE0")
	default:
		return lipgloss.Color("#808080")
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
