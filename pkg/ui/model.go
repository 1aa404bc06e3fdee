package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/saturnines/userfeed/pkg/pagination"
	"github.com/saturnines/userfeed/pkg/users"
)

// Feed is the part of pagination.Controller the browser drives.
type Feed interface {
	FetchNextPage(ctx context.Context) error
	Reload(ctx context.Context) error
	ShouldFetchMore(candidate users.UserProfile) bool
	Snapshot() pagination.State
}

// StateMsg carries a controller snapshot into the program. Send it from a
// pagination.Controller subscription to redraw while a fetch is running.
type StateMsg pagination.State

type fetchDoneMsg struct{ err error }

// gridCellHeight is the rendered height of one grid row: two lines of
// content plus the border.
const gridCellHeight = 4

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is an interactive, infinitely scrolling profile browser.
type Model struct {
	ctx     context.Context
	feed    Feed
	state   pagination.State
	layout  Layout
	columns int

	selected int
	detail   bool
	height   int
}

// NewModel creates a browser over feed. The first page is requested by Init.
func NewModel(ctx context.Context, feed Feed, layout Layout, columns int) Model {
	if columns < 1 {
		columns = 1
	}
	if layout == "" {
		layout = LayoutList
	}
	return Model{
		ctx:     ctx,
		feed:    feed,
		state:   feed.Snapshot(),
		layout:  layout,
		columns: columns,
		height:  24,
	}
}

// Init starts the initial fetch.
func (m Model) Init() tea.Cmd {
	return m.fetchNext()
}

func (m Model) fetchNext() tea.Cmd {
	feed, ctx := m.feed, m.ctx
	return func() tea.Msg {
		return fetchDoneMsg{err: feed.FetchNextPage(ctx)}
	}
}

func (m Model) reload() tea.Cmd {
	feed, ctx := m.feed, m.ctx
	return func() tea.Msg {
		return fetchDoneMsg{err: feed.Reload(ctx)}
	}
}

// Update handles keys, window resizes and controller updates.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case StateMsg:
		m.apply(pagination.State(msg))
		return m, nil

	case fetchDoneMsg:
		if !errors.Is(msg.err, pagination.ErrFetchInProgress) {
			m.apply(m.feed.Snapshot())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "g":
		m.layout = m.layout.Toggle()
		return m, nil
	case "enter":
		m.detail = !m.detail && len(m.state.Users) > 0
		return m, nil
	case "esc":
		m.detail = false
		return m, nil
	case "r":
		m.selected = 0
		m.detail = false
		return m, m.reload()
	case "up", "k":
		return m.move(-m.step())
	case "down", "j":
		return m.move(m.step())
	case "left", "h":
		if m.layout == LayoutGrid {
			return m.move(-1)
		}
	case "right", "l":
		if m.layout == LayoutGrid {
			return m.move(1)
		}
	}
	return m, nil
}

// step is how far up/down moves: one row of the current layout.
func (m Model) step() int {
	if m.layout == LayoutGrid {
		return m.columns
	}
	return 1
}

// move shifts the selection and asks for the next page when the new
// selection is the last loaded profile.
func (m Model) move(delta int) (tea.Model, tea.Cmd) {
	n := len(m.state.Users)
	if n == 0 {
		return m, nil
	}
	m.selected = clamp(m.selected+delta, 0, n-1)

	if m.feed.ShouldFetchMore(m.state.Users[m.selected]) {
		return m, m.fetchNext()
	}
	return m, nil
}

func (m *Model) apply(s pagination.State) {
	if s.Version < m.state.Version {
		return
	}
	m.state = s
	if n := len(s.Users); n == 0 {
		m.selected = 0
		m.detail = false
	} else {
		m.selected = clamp(m.selected, 0, n-1)
	}
}

// View renders the header, the visible window of profiles and help.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Users (%d) · %s", len(m.state.Users), m.layout)))
	if m.state.Loading {
		b.WriteString("  loading…")
	}
	b.WriteString("\n")
	if m.state.HasError() {
		b.WriteString(errorStyle.Render("error: "+m.state.Error) + "\n")
	}
	b.WriteString("\n")

	switch {
	case len(m.state.Users) == 0 && !m.state.Loading:
		b.WriteString("No users. Press r to reload.\n")
	case m.detail:
		b.WriteString(RenderDetail(m.state.Users[m.selected]) + "\n")
	case m.layout == LayoutGrid:
		b.WriteString(m.gridWindow() + "\n")
	default:
		b.WriteString(m.listWindow())
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓ move · g grid/list · r reload · enter details · q quit"))
	return b.String()
}

// bodyHeight is the number of lines left for profiles.
func (m Model) bodyHeight() int {
	return max(1, m.height-5)
}

func (m Model) listWindow() string {
	visible := m.bodyHeight()
	start := max(0, m.selected-visible+1)
	end := min(len(m.state.Users), start+visible)
	return RenderList(m.state.Users[start:end], m.selected-start)
}

func (m Model) gridWindow() string {
	visibleRows := max(1, m.bodyHeight()/gridCellHeight)
	selRow := m.selected / m.columns
	startRow := max(0, selRow-visibleRows+1)

	start := startRow * m.columns
	end := min(len(m.state.Users), (startRow+visibleRows)*m.columns)
	return RenderGrid(m.state.Users[start:end], m.columns, m.selected-start)
}

// Selected returns the index of the highlighted profile.
func (m Model) Selected() int { return m.selected }

// Layout returns the current layout.
func (m Model) Layout() Layout { return m.layout }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
