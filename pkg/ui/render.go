package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/saturnines/userfeed/pkg/users"
)

// Layout selects how the list is drawn
type Layout string

const (
	LayoutList Layout = "list"
	LayoutGrid Layout = "grid"
)

// ParseLayout accepts "list" or "grid"
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case LayoutList:
		return LayoutList, nil
	case LayoutGrid:
		return LayoutGrid, nil
	default:
		return "", fmt.Errorf("unknown layout %q (want list or grid)", s)
	}
}

// Toggle switches between list and grid
func (l Layout) Toggle() Layout {
	if l == LayoutGrid {
		return LayoutList
	}
	return LayoutGrid
}

const cellWidth = 28

var (
	nameStyle     = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	cellStyle     = lipgloss.NewStyle().Width(cellWidth).Padding(0, 1).
			Border(lipgloss.RoundedBorder())
	selectedCellStyle = cellStyle.BorderForeground(lipgloss.Color("212"))
)

// RenderList draws one row per profile. selected < 0 highlights nothing.
func RenderList(profiles []users.UserProfile, selected int) string {
	var b strings.Builder
	for i, u := range profiles {
		marker := "  "
		name := nameStyle.Render(u.FullName())
		if i == selected {
			marker = selectedStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s  %s  %s\n", marker, name, u.DOB.Date, mutedStyle.Render(u.Picture.Thumbnail))
	}
	return b.String()
}

// RenderGrid draws profiles as cells, columns per row.
func RenderGrid(profiles []users.UserProfile, columns, selected int) string {
	if columns < 1 {
		columns = 1
	}

	var rows []string
	for start := 0; start < len(profiles); start += columns {
		end := start + columns
		if end > len(profiles) {
			end = len(profiles)
		}

		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			u := profiles[i]
			style := cellStyle
			if i == selected {
				style = selectedCellStyle
			}
			cells = append(cells, style.Render(
				nameStyle.Render(u.FullName())+"\n"+mutedStyle.Render(truncate(u.Picture.Medium, cellWidth-2)),
			))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderDetail draws every field of one profile.
func RenderDetail(u users.UserProfile) string {
	lines := []string{
		nameStyle.Render(fmt.Sprintf("%s %s %s", u.Name.Title, u.Name.First, u.Name.Last)),
		fmt.Sprintf("Born:      %s (age %d)", u.DOB.Date, u.DOB.Age),
		fmt.Sprintf("Large:     %s", u.Picture.Large),
		fmt.Sprintf("Medium:    %s", u.Picture.Medium),
		fmt.Sprintf("Thumbnail: %s", u.Picture.Thumbnail),
		mutedStyle.Render("id " + u.ID.String()),
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
