package dashboard

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/faceoff/internal/nhl"
)

const leadersShown = 5

// leaderCategory is one leaderboard: the payload key and its heading.
type leaderCategory struct {
	key   string
	title string
}

var (
	skaterCategories = []leaderCategory{
		{"goals", "Goals"},
		{"assists", "Assists"},
		{"points", "Points"},
		{"plusMinus", "+/-"},
		{"goalsPp", "PP Goals"},
		{"goalsSh", "SH Goals"},
		{"penaltyMins", "PIM"},
		{"toi", "TOI/G"},
	}
	goalieCategories = []leaderCategory{
		{"wins", "Wins"},
		{"savePctg", "Save %"},
		{"goalsAgainstAverage", "GAA"},
		{"shutouts", "Shutouts"},
	}
)

var leaderCols = []column{
	{title: "#", width: 2, right: true},
	{title: "Player", width: 22},
	{title: "Team", width: 4},
	{title: "Pos", width: 3},
	{title: "Value", width: 7, right: true},
}

// leadersMsg carries the skater and goalie leaderboards.
type leadersMsg struct {
	session uint64
	skaters nhl.Payload
	goalies nhl.Payload
	err     error
}

func (m leadersMsg) Session() uint64 { return m.session }

// statsScreen shows league leaders for skaters and goalies.
type statsScreen struct {
	base
	keys    scrollKeys
	tabs    tabSet
	skaters nhl.Payload
	goalies nhl.Payload
	vp      viewport.Model
}

func newStatsScreen(d *deps) Screen {
	return statsScreen{
		base: newBase(d),
		keys: ScrollKeyMap(true),
		tabs: tabSet{labels: []string{"Skaters", "Goalies"}},
		vp:   newViewport(),
	}
}

func (s statsScreen) Title() string     { return "Stats Leaders" }
func (s statsScreen) Help() help.KeyMap { return s.keys }
func (s statsScreen) Init() tea.Cmd     { return s.load() }

func (s statsScreen) load() tea.Cmd {
	session := s.Session()
	return s.d.fetchAll([]nhl.Request{nhl.SkaterLeaders(), nhl.GoalieLeaders()}, func(p []nhl.Payload, err error) tea.Msg {
		if err != nil {
			return leadersMsg{session: session, err: err}
		}
		return leadersMsg{session: session, skaters: p[0], goalies: p[1]}
	})
}

func (s statsScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		sizeViewport(&s.vp, s.width, s.height, tabLines+1)
		s.sync()
		return s, nil

	case leadersMsg:
		if msg.err != nil {
			return s, s.loadFailed("stats", msg.err)
		}
		s.loadSucceeded()
		s.skaters, s.goalies = msg.skaters, msg.goalies
		s.sync()
		return s, nil

	case tea.KeyMsg:
		switch {
		case isRefresh(msg):
			cmd := s.manualRefresh(s.load)
			return s, cmd
		case key.Matches(msg, s.keys.NextTab):
			s.tabs.next()
			s.vp.GotoTop()
			s.sync()
			return s, nil
		case key.Matches(msg, s.keys.PrevTab):
			s.tabs.prev()
			s.vp.GotoTop()
			s.sync()
			return s, nil
		}
		var cmd tea.Cmd
		s.vp, cmd = s.vp.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *statsScreen) sync() {
	if s.width == 0 || !s.loaded {
		return
	}
	if s.tabs.active == 0 {
		s.vp.SetContent(leaderColumns(s.skaters, skaterCategories, "No stats data available"))
		return
	}
	s.vp.SetContent(leaderColumns(s.goalies, goalieCategories, "No goalie stats available"))
}

// leaderColumns lays categories out in two columns, alternating left and
// right.
func leaderColumns(data nhl.Payload, cats []leaderCategory, empty string) string {
	if len(data) == 0 {
		return mutedText.Render(empty)
	}
	var left, right []string
	for i, c := range cats {
		if !data.Has(c.key) {
			continue
		}
		block := leaderBlock(c, data.List(c.key))
		if i%2 == 0 {
			left = append(left, block)
		} else {
			right = append(right, block)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(left, "\n\n"), "    ", strings.Join(right, "\n\n"))
}

func leaderBlock(c leaderCategory, players []nhl.Payload) string {
	lines := []string{
		sectionStyle.Width(tableWidth(leaderCols)).Render(c.title),
		tableHeader(leaderCols),
	}
	for i, p := range players[:min(len(players), leadersShown)] {
		lines = append(lines, tableRow(leaderCols, []string{
			strconv.Itoa(i + 1),
			shortName(p),
			p.Localized("teamAbbrev", "???"),
			p.Str("position", "?"),
			leaderValue(c.key, p),
		}))
	}
	return strings.Join(lines, "\n")
}

// leaderValue formats a leaderboard value for its category.
func leaderValue(category string, p nhl.Payload) string {
	switch category {
	case "savePctg":
		return fixed(p.Float("value", 0), 3)
	case "goalsAgainstAverage":
		return fixed(p.Float("value", 0), 2)
	case "toi":
		return clockFromSeconds(int(p.Float("value", 0)))
	}
	return p.Str("value", "0")
}

func (s statsScreen) View(width, height int, spin string) string {
	body := s.vp.View()
	if !s.loaded {
		body = s.loadingView(spin, "stats")
	}
	return lipgloss.JoinVertical(lipgloss.Left, s.tabs.view(), "", body)
}
