package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"listfetch/internal/state"
	"listfetch/internal/transform"
)

const (
	chevronCollapsed = "▸"
	chevronExpanded  = "▾"

	// title plus its margin, and the help footer with its margin
	chromeHeight = 4
)

type Options struct {
	ExpandAll bool   // groups start expanded
	Theme     string // light|dark|auto
}

// viewMsg carries a store update into the program loop.
type viewMsg state.View

type row struct {
	group int // index into the snapshot groups
	item  int // -1 for the group header
}

func (r row) header() bool { return r.item < 0 }

// Model is the interactive list. The expanded set is keyed by group id and
// survives refreshes; it never feeds back into the store.
type Model struct {
	store   *state.Store
	views   <-chan state.View
	cancel  func()
	refresh func()

	opts     Options
	styles   Styles
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model

	view     state.View
	expanded map[int]bool
	seen     map[int]bool
	rows     []row
	cursor   int

	sized    bool
	quitting bool
}

// NewModel subscribes to store. refresh is invoked when the user asks for a
// new fetch and must not block; nil disables the key.
func NewModel(store *state.Store, refresh func(), opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	styles := NewStyles(ThemeFor(opts.Theme))
	sp.Style = styles.Spinner

	m := Model{
		store:    store,
		refresh:  refresh,
		opts:     opts,
		styles:   styles,
		keys:     defaultKeys(),
		help:     help.New(),
		spinner:  sp,
		viewport: viewport.New(0, 0),
		expanded: map[int]bool{},
		seen:     map[int]bool{},
		cancel:   func() {},
	}
	if store != nil {
		m.views, m.cancel = store.Subscribe(16)
		m.apply(store.View())
	}
	return m
}

// Close drops the store subscription.
func (m Model) Close() { m.cancel() }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForView(m.views))
}

func waitForView(ch <-chan state.View) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return viewMsg(v)
	}
}

func refreshCmd(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.sized = true
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.syncViewport()
		return m, nil

	case viewMsg:
		wasLoading := m.view.Loading
		m.apply(state.View(msg))
		cmds := []tea.Cmd{waitForView(m.views)}
		if m.view.Loading && !wasLoading {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.view.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.ExpandAll):
		for _, g := range m.view.Snapshot.Groups {
			m.expanded[g.GroupID] = true
		}
		m.rebuild()
	case key.Matches(msg, m.keys.CollapseAll):
		clear(m.expanded)
		m.rebuild()
	case key.Matches(msg, m.keys.Refresh):
		if m.refresh != nil && !m.view.Loading {
			return m, refreshCmd(m.refresh)
		}
		return m, nil
	default:
		return m, nil
	}
	m.syncViewport()
	return m, nil
}

// toggle flips the group under the cursor. On an item row the cursor moves
// back to the header being collapsed.
func (m *Model) toggle() {
	if m.cursor >= len(m.rows) {
		return
	}
	r := m.rows[m.cursor]
	g := m.view.Snapshot.Groups[r.group]
	if m.expanded[g.GroupID] {
		delete(m.expanded, g.GroupID)
	} else {
		m.expanded[g.GroupID] = true
	}
	m.rebuild()
	if !r.header() {
		for i, rr := range m.rows {
			if rr.group == r.group && rr.header() {
				m.cursor = i
				break
			}
		}
	}
}

func (m *Model) apply(v state.View) {
	m.view = v
	for _, g := range v.Snapshot.Groups {
		if m.seen[g.GroupID] {
			continue
		}
		m.seen[g.GroupID] = true
		if m.opts.ExpandAll {
			m.expanded[g.GroupID] = true
		}
	}
	m.rebuild()
	m.syncViewport()
}

func (m *Model) rebuild() {
	rows := make([]row, 0, len(m.rows))
	for gi, g := range m.view.Snapshot.Groups {
		rows = append(rows, row{group: gi, item: -1})
		if !m.expanded[g.GroupID] {
			continue
		}
		for ii := range g.Records {
			rows = append(rows, row{group: gi, item: ii})
		}
	}
	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

func (m *Model) syncViewport() {
	m.viewport.SetContent(m.renderRows())
	if !m.sized {
		return
	}
	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m Model) renderRows() string {
	groups := m.view.Snapshot.Groups
	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		line := m.renderRow(groups, r)
		if i == m.cursor {
			line = m.styles.Cursor.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(groups transform.GroupedResult, r row) string {
	g := groups[r.group]
	if r.header() {
		chev := chevronCollapsed
		if m.expanded[g.GroupID] {
			chev = chevronExpanded
		}
		return m.styles.Header.Render(fmt.Sprintf("%s List ID: %d (%d)", chev, g.GroupID, len(g.Records)))
	}
	return m.styles.Item.Render(g.Records[r.item].Name.Or(""))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Lists"))
	b.WriteString("\n")

	if m.view.Loading {
		b.WriteString(m.spinner.View() + " Loading...\n")
	}
	if m.view.Err != nil {
		b.WriteString(m.styles.Error.Render("Error: "+m.view.Err.Error()) + "\n")
	}

	switch {
	case !m.view.Ready:
		if !m.view.Loading && m.view.Err == nil {
			b.WriteString(m.styles.Muted.Render("Waiting for data") + "\n")
		}
	case len(m.view.Snapshot.Groups) == 0:
		b.WriteString(m.styles.Muted.Render("No items") + "\n")
	case m.sized:
		b.WriteString(m.viewport.View() + "\n")
	default:
		b.WriteString(m.renderRows() + "\n")
	}

	footer := m.help.View(m.keys)
	return lipgloss.JoinVertical(lipgloss.Left, b.String(), m.styles.Footer.Render(footer))
}

// Expanded reports whether the group is shown open.
func (m Model) Expanded(groupID int) bool { return m.expanded[groupID] }

// Run drives the model until the user quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
