package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lane-racer/internal/core"
	"github.com/vovakirdan/lane-racer/internal/registry"
	"github.com/vovakirdan/lane-racer/internal/storage"
)

const (
	trackListMinWidth = 84  // Narrower terminals get a tab strip instead of the list
	trackListWidth    = 28
	scoreRows         = 100 // Rows loaded per track
)

var (
	boardBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	boardDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardGold   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextTrack key.Binding
	PrevTrack key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PrevTrack, k.NextTrack, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.PrevTrack, k.NextTrack},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll"),
		),
		NextTrack: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/tab", "next track"),
		),
		PrevTrack: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←", "prev track"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel browses the stored leaderboard one track at a time.
type ScoreboardModel struct {
	store  *storage.Store // Nil shows empty tables
	tracks []registry.Track
	cursor int
	best   map[string]*storage.TrackStats

	scores []storage.ScoreEntry
	table  table.Model
	help   help.Model
	keys   ScoreboardKeyMap

	width, height int
	quitting      bool
	goingBack     bool
}

// NewScoreboardModel creates a scoreboard opened on the default track.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		tracks: registry.List(),
		best:   map[string]*storage.TrackStats{},
		help:   help.New(),
		keys:   DefaultScoreboardKeyMap(),
		width:  width,
		height: height,
	}
	for i, t := range m.tracks {
		if t.ID == registry.DefaultTrack {
			m.cursor = i
		}
	}
	if store != nil {
		if all, err := store.GetAllTrackStats(); err == nil {
			m.best = all
		}
	}

	m.table = m.newTable()
	m.load()
	return m
}

func (m ScoreboardModel) wide() bool { return m.width >= trackListMinWidth }

// newTable sizes the score table for the current window.
func (m *ScoreboardModel) newTable() table.Model {
	dateWidth := 12
	avail := m.width - 6
	if m.wide() {
		avail -= trackListWidth + 4
	}
	// Rank, Name, Score and Behind take 42 columns plus cell padding
	if spare := avail - 42 - 10; spare > 0 {
		dateWidth += core.Min(spare, 8)
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Driver", Width: 16},
			{Title: "Score", Width: 10},
			{Title: "Behind", Width: 10},
			{Title: "Date", Width: dateWidth},
		}),
		table.WithFocused(true),
		table.WithHeight(core.Max(m.height-11, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// current returns the selected track.
func (m ScoreboardModel) current() (registry.Track, bool) {
	if len(m.tracks) == 0 {
		return registry.Track{}, false
	}
	return m.tracks[m.cursor], true
}

// load reads the selected track's scores into the table.
func (m *ScoreboardModel) load() {
	m.scores = nil
	if t, ok := m.current(); ok && m.store != nil {
		if scores, err := m.store.TopScores(t.ID, scoreRows); err == nil {
			m.scores = scores
		}
	}
	m.fillRows()
}

// fillRows converts scores into table rows. Behind is the gap to the leader.
func (m *ScoreboardModel) fillRows() {
	rows := make([]table.Row, 0, len(m.scores))
	for i, s := range m.scores {
		behind := "-"
		if i > 0 {
			behind = fmt.Sprintf("-%d", m.scores[0].Score-s.Score)
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			s.Name,
			fmt.Sprintf("%d", s.Score),
			behind,
			s.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTrack):
			m.step(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevTrack):
			m.step(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.fillRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// step moves the track selection by delta, wrapping around.
func (m *ScoreboardModel) step(delta int) {
	n := len(m.tracks)
	if n == 0 {
		return
	}
	m.cursor = ((m.cursor+delta)%n + n) % n
	m.load()
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "HIGH SCORES"
	if t, ok := m.current(); ok {
		title = fmt.Sprintf("HIGH SCORES  ·  %s", t.Title)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(boardActive.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	body := boardBorder.Render(m.tableView())
	if m.wide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.trackList(), "  ", body)
	} else {
		b.WriteString(centerText(m.trackTabs(), m.width))
		b.WriteString("\n\n")
	}
	b.WriteString(body)
	b.WriteString("\n")

	if line := m.summary(); line != "" {
		b.WriteString(boardDim.Render(centerText(line, m.width)))
		b.WriteString("\n")
	}
	b.WriteString(boardDim.Render(m.help.View(m.keys)))
	return b.String()
}

// trackList renders every track with its lane count and best score.
func (m ScoreboardModel) trackList() string {
	var b strings.Builder
	b.WriteString(boardActive.Render("Tracks"))
	b.WriteString("\n\n")
	for i, t := range m.tracks {
		marker, style := "  ", lipgloss.NewStyle()
		if i == m.cursor {
			marker, style = "▸ ", boardActive
		}
		b.WriteString(style.Render(marker + t.ID))
		b.WriteString("\n")

		detail := fmt.Sprintf("    %d lanes", len(t.Lanes))
		if st := m.best[t.ID]; st != nil && st.RunsCount > 0 {
			detail += "  " + boardGold.Render(fmt.Sprintf("★ %d", st.HighScore))
		}
		b.WriteString(boardDim.Render(detail))
		b.WriteString("\n")
	}
	return boardBorder.Width(trackListWidth).Render(strings.TrimRight(b.String(), "\n"))
}

// trackTabs renders a one-line track selector for narrow terminals.
func (m ScoreboardModel) trackTabs() string {
	t, ok := m.current()
	if !ok {
		return ""
	}
	tabs := make([]string, len(m.tracks))
	for i, tr := range m.tracks {
		if i == m.cursor {
			tabs[i] = boardActive.Render("[" + tr.ID + "]")
		} else {
			tabs[i] = boardDim.Render(" " + tr.ID + " ")
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 {
		line = fmt.Sprintf("◂ %s ▸", t.ID)
	}
	return line
}

// tableView renders the table or a placeholder for an empty track.
func (m ScoreboardModel) tableView() string {
	if len(m.scores) == 0 {
		return boardDim.Italic(true).Padding(2, 4).
			Render("No scores on this track yet.\nFinish a race to claim the top spot!")
	}
	return m.table.View()
}

// summary describes every run recorded on the selected track.
func (m ScoreboardModel) summary() string {
	t, ok := m.current()
	if !ok {
		return ""
	}
	st := m.best[t.ID]
	if st == nil || st.RunsCount == 0 {
		return ""
	}
	return fmt.Sprintf("%d runs  •  best %d  •  average %.0f  •  last %s",
		st.RunsCount, st.HighScore, st.AvgScore, st.LastPlayed.Format("Jan 02 15:04"))
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
