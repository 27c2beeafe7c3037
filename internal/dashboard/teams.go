package dashboard

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/faceoff/internal/nhl"
	"github.com/smileynet/faceoff/internal/refresh"
)

const (
	// teamCardWidth is one team card plus its right margin.
	teamCardWidth = 13
	// teamCardHeight is a card row plus the gap below it.
	teamCardHeight = 4
)

// teamEntry is one selectable team.
type teamEntry struct {
	abbrev string
	name   string
}

// teamGroup is a conference heading and its teams sorted by abbreviation.
type teamGroup struct {
	conference string
	teams      []teamEntry
}

// teamsMsg carries the league standings used to list teams.
type teamsMsg struct {
	session uint64
	groups  []teamGroup
	err     error
}

func (m teamsMsg) Session() uint64 { return m.session }

// teamsScreen lists every team as a card grid grouped by conference.
type teamsScreen struct {
	base
	keys   gridKeys
	groups []teamGroup
	cursor int
	perRow int
	vp     viewport.Model
}

func newTeamsScreen(d *deps) Screen {
	return teamsScreen{
		base:   newBase(d, refresh.WithWidthThreshold(teamCardWidth)),
		keys:   GridKeyMap("open team"),
		perRow: teamsPerRow(0),
		vp:     newViewport(),
	}
}

func teamsPerRow(width int) int {
	if width <= 0 {
		return 6
	}
	return max(1, (width-4)/teamCardWidth)
}

func (s teamsScreen) Title() string     { return "Teams" }
func (s teamsScreen) Help() help.KeyMap { return s.keys }
func (s teamsScreen) Init() tea.Cmd     { return s.load() }

func (s teamsScreen) load() tea.Cmd {
	session := s.Session()
	return s.d.fetch(nhl.Standings(""), func(p nhl.Payload, err error) tea.Msg {
		if err != nil {
			return teamsMsg{session: session, err: err}
		}
		return teamsMsg{session: session, groups: groupTeams(p.List("standings"))}
	})
}

// groupTeams groups standings rows by conference, conferences and teams in
// alphabetical order.
func groupTeams(standings []nhl.Payload) []teamGroup {
	confs, byConf := groupBy(standings, "conferenceName")
	groups := make([]teamGroup, 0, len(confs))
	for _, conf := range confs {
		rows := byConf[conf]
		teams := make([]teamEntry, 0, len(rows))
		for _, t := range rows {
			abbrev := t.Localized("teamAbbrev", "???")
			teams = append(teams, teamEntry{abbrev: abbrev, name: t.Localized("teamName", abbrev)})
		}
		slices.SortFunc(teams, func(a, b teamEntry) int { return strings.Compare(a.abbrev, b.abbrev) })
		groups = append(groups, teamGroup{conference: conf, teams: teams})
	}
	return groups
}

func (s teamsScreen) count() int {
	n := 0
	for _, g := range s.groups {
		n += len(g.teams)
	}
	return n
}

func (s teamsScreen) selected() (teamEntry, bool) {
	i := s.cursor
	for _, g := range s.groups {
		if i < len(g.teams) {
			return g.teams[i], true
		}
		i -= len(g.teams)
	}
	return teamEntry{}, false
}

func (s teamsScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		sizeViewport(&s.vp, s.width, s.height, 0)
		if s.ctrl.ShouldRelayout(s.width) {
			s.perRow = teamsPerRow(s.width)
		}
		s.sync()
		return s, nil

	case teamsMsg:
		if msg.err != nil {
			return s, s.loadFailed("teams", msg.err)
		}
		s.loadSucceeded()
		s.groups = msg.groups
		s.cursor = min(s.cursor, max(s.count()-1, 0))
		if s.width > 0 {
			s.perRow = teamsPerRow(s.width)
		}
		s.sync()
		return s, nil

	case tea.KeyMsg:
		n := s.count()
		switch {
		case isRefresh(msg):
			cmd := s.manualRefresh(s.load)
			return s, cmd
		case key.Matches(msg, s.keys.Left):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, s.keys.Right):
			if s.cursor < n-1 {
				s.cursor++
			}
		case key.Matches(msg, s.keys.Up):
			if s.cursor-s.perRow >= 0 {
				s.cursor -= s.perRow
			}
		case key.Matches(msg, s.keys.Down):
			if s.cursor+s.perRow < n {
				s.cursor += s.perRow
			}
		case key.Matches(msg, s.keys.Open):
			if t, ok := s.selected(); ok {
				return s, pushScreen(newTeamScreen(s.d, t.abbrev, t.name))
			}
			return s, nil
		default:
			return s, nil
		}
		s.sync()
		return s, nil
	}
	return s, nil
}

func (s *teamsScreen) sync() {
	if s.width == 0 || !s.loaded {
		return
	}
	content, cursorLine := s.grid()
	s.vp.SetContent(content)
	switch {
	case cursorLine < s.vp.YOffset:
		s.vp.SetYOffset(cursorLine)
	case cursorLine+teamCardHeight > s.vp.YOffset+s.vp.Height:
		s.vp.SetYOffset(cursorLine + teamCardHeight - s.vp.Height)
	}
}

// grid renders the conference sections and returns the first line of the
// row holding the cursor.
func (s teamsScreen) grid() (string, int) {
	if len(s.groups) == 0 {
		return mutedText.Render("No teams data available"), 0
	}
	var lines []string
	cursorLine := 0
	idx := 0
	for _, g := range s.groups {
		lines = append(lines, sectionStyle.Width(s.width).Render(g.conference+" Conference"), "")
		for i := 0; i < len(g.teams); i += s.perRow {
			end := min(i+s.perRow, len(g.teams))
			cards := make([]string, 0, end-i)
			for j := i; j < end; j++ {
				if idx == s.cursor {
					cursorLine = len(lines)
				}
				cards = append(cards, teamCard(g.teams[j].abbrev, idx == s.cursor))
				idx++
			}
			row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
			lines = append(lines, strings.Split(row, "\n")...)
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n"), cursorLine
}

func teamCard(abbrev string, focused bool) string {
	border := lipgloss.NormalBorder()
	if focused {
		border = lipgloss.DoubleBorder()
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(accentColor).
		Padding(0, 1).
		Width(teamCardWidth - 3).
		MarginRight(1).
		Align(lipgloss.Center).
		Bold(true).
		Render(abbrev)
}

func (s teamsScreen) View(width, height int, spin string) string {
	if !s.loaded {
		return s.loadingView(spin, "teams")
	}
	return s.vp.View()
}
