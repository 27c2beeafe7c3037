package dashboard

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/faceoff/internal/nhl"
)

const (
	tabRoster = iota
	tabTeamSchedule
)

// recentGamesShown is how many completed games precede the upcoming ones.
const recentGamesShown = 3

// teamHeaderLines is the team name, tab strip and blank line.
const teamHeaderLines = 1 + tabLines + 1

var rosterCols = []column{
	{title: "#", width: 4, right: true},
	{title: "Player", width: 24},
	{title: "Pos", width: 3},
	{title: "Season", width: 20},
}

var teamGameCols = []column{
	{title: "Date", width: 12},
	{title: "Opponent", width: 10},
	{title: "Result", width: 14, right: true},
}

// rosterEntry is one selectable player row.
type rosterEntry struct {
	id     int
	number string
	name   string
	pos    string
	stats  string
}

// rosterGroup is a position heading and its players by sweater number.
type rosterGroup struct {
	title   string
	players []rosterEntry
}

// teamMsg carries a team's roster, month schedule and player stats.
type teamMsg struct {
	session  uint64
	roster   nhl.Payload
	schedule nhl.Payload
	stats    nhl.Payload
	err      error
}

func (m teamMsg) Session() uint64 { return m.session }

// teamScreen shows a team's roster and schedule.
type teamScreen struct {
	base
	keys   rosterKeys
	scroll scrollKeys
	tabs   tabSet
	abbrev string
	name   string
	groups []rosterGroup
	games  []nhl.Payload
	cursor int
	vp     viewport.Model
}

func newTeamScreen(d *deps, abbrev, name string) Screen {
	return teamScreen{
		base:   newBase(d),
		keys:   RosterKeyMap(),
		scroll: ScrollKeyMap(false),
		tabs:   tabSet{labels: []string{"Roster", "Schedule"}},
		abbrev: abbrev,
		name:   name,
		vp:     newViewport(),
	}
}

func (s teamScreen) Title() string { return fmt.Sprintf("%s (%s)", s.name, s.abbrev) }

func (s teamScreen) Help() help.KeyMap {
	if s.tabs.active == tabRoster {
		return s.keys
	}
	return s.scroll
}

func (s teamScreen) Init() tea.Cmd { return s.load() }

func (s teamScreen) load() tea.Cmd {
	session := s.Session()
	reqs := []nhl.Request{
		nhl.Roster(s.abbrev),
		nhl.TeamMonthSchedule(s.abbrev, s.d.today()),
		nhl.TeamStats(s.abbrev),
	}
	return s.d.fetchAll(reqs, func(p []nhl.Payload, err error) tea.Msg {
		if err != nil {
			return teamMsg{session: session, err: err}
		}
		return teamMsg{session: session, roster: p[0], schedule: p[1], stats: p[2]}
	})
}

func (s teamScreen) count() int {
	n := 0
	for _, g := range s.groups {
		n += len(g.players)
	}
	return n
}

func (s teamScreen) selected() (rosterEntry, bool) {
	i := s.cursor
	for _, g := range s.groups {
		if i < len(g.players) {
			return g.players[i], true
		}
		i -= len(g.players)
	}
	return rosterEntry{}, false
}

func (s teamScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		sizeViewport(&s.vp, s.width, s.height, teamHeaderLines)
		s.sync()
		return s, nil

	case teamMsg:
		if msg.err != nil {
			return s, s.loadFailed("team data", msg.err)
		}
		s.loadSucceeded()
		s.groups = rosterGroups(msg.roster, seasonLines(msg.stats))
		s.games = teamGames(msg.schedule.List("games"))
		s.cursor = min(s.cursor, max(s.count()-1, 0))
		s.sync()
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s teamScreen) handleKey(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch {
	case isRefresh(msg):
		cmd := s.manualRefresh(s.load)
		return s, cmd
	case key.Matches(msg, s.keys.NextTab):
		s.tabs.next()
		s.vp.GotoTop()
		s.sync()
		return s, nil
	}

	if s.tabs.active != tabRoster {
		var cmd tea.Cmd
		s.vp, cmd = s.vp.Update(msg)
		return s, cmd
	}

	switch {
	case key.Matches(msg, s.keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, s.keys.Down):
		if s.cursor < s.count()-1 {
			s.cursor++
		}
	case key.Matches(msg, s.keys.Open):
		if p, ok := s.selected(); ok {
			return s, pushScreen(newPlayerScreen(s.d, p.id, p.name))
		}
		return s, nil
	default:
		return s, nil
	}
	s.sync()
	return s, nil
}

func (s *teamScreen) sync() {
	if s.width == 0 || !s.loaded {
		return
	}
	if s.tabs.active != tabRoster {
		s.vp.SetContent(s.scheduleView())
		return
	}
	content, line := s.rosterView()
	s.vp.SetContent(content)
	switch {
	case line < s.vp.YOffset:
		s.vp.SetYOffset(line)
	case line >= s.vp.YOffset+s.vp.Height:
		s.vp.SetYOffset(line - s.vp.Height + 1)
	}
}

// seasonLines summarizes each player's season from club stats, keyed by
// player id.
func seasonLines(stats nhl.Payload) map[int]string {
	out := make(map[int]string)
	for _, p := range stats.List("skaters") {
		out[p.Int("playerId", 0)] = fmt.Sprintf("%dG %dA %dP", p.Int("goals", 0), p.Int("assists", 0), p.Int("points", 0))
	}
	for _, p := range stats.List("goalies") {
		out[p.Int("playerId", 0)] = fmt.Sprintf("%dW %s %s", p.Int("wins", 0),
			fixed(p.Float("savePercentage", 0), 3), fixed(p.Float("goalsAgainstAverage", 0), 2))
	}
	return out
}

// rosterGroups builds forwards, defensemen and goalies sorted by sweater
// number. Empty positions are left out.
func rosterGroups(roster nhl.Payload, season map[int]string) []rosterGroup {
	var groups []rosterGroup
	for _, pos := range []struct{ key, title string }{
		{"forwards", "Forwards"},
		{"defensemen", "Defensemen"},
		{"goalies", "Goalies"},
	} {
		players := slices.Clone(roster.List(pos.key))
		if len(players) == 0 {
			continue
		}
		slices.SortStableFunc(players, func(a, b nhl.Payload) int {
			return cmp.Compare(a.Int("sweaterNumber", 99), b.Int("sweaterNumber", 99))
		})
		g := rosterGroup{title: pos.title}
		for _, p := range players {
			id := p.Int("id", 0)
			g.players = append(g.players, rosterEntry{
				id:     id,
				number: p.Str("sweaterNumber", "-"),
				name:   personName(p),
				pos:    p.Str("positionCode", "?"),
				stats:  season[id],
			})
		}
		groups = append(groups, g)
	}
	return groups
}

// rosterView renders the roster and returns the line holding the cursor.
func (s teamScreen) rosterView() (string, int) {
	if len(s.groups) == 0 {
		return mutedText.Render("No roster data available"), 0
	}
	var lines []string
	cursorLine, idx := 0, 0
	for _, g := range s.groups {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, sectionStyle.Width(tableWidth(rosterCols)).Render(g.title), tableHeader(rosterCols))
		for _, p := range g.players {
			row := tableRow(rosterCols, []string{p.number, p.name, p.pos, p.stats})
			if idx == s.cursor {
				cursorLine = len(lines)
				row = selectedRowStyle.Render(row)
			}
			lines = append(lines, row)
			idx++
		}
	}
	return strings.Join(lines, "\n"), cursorLine
}

// teamGames keeps the last few completed games and every game not yet
// final, in schedule order.
func teamGames(games []nhl.Payload) []nhl.Payload {
	var done, rest []nhl.Payload
	for _, g := range games {
		if stateOf(g).final() {
			done = append(done, g)
		} else {
			rest = append(rest, g)
		}
	}
	if len(done) > recentGamesShown {
		done = done[len(done)-recentGamesShown:]
	}
	return append(done, rest...)
}

// teamGameRow renders date, opponent and result from abbrev's side.
func teamGameRow(game nhl.Payload, abbrev string, local *time.Location) []string {
	home, away := game.Map("homeTeam"), game.Map("awayTeam")
	atHome := home.Str("abbrev", "???") == abbrev

	opponent := "@ " + home.Str("abbrev", "???")
	if atHome {
		opponent = "vs " + away.Str("abbrev", "???")
	}

	var result string
	switch state := stateOf(game); {
	case state.final():
		us, them := away.Int("score", 0), home.Int("score", 0)
		if atHome {
			us, them = them, us
		}
		outcome := "L"
		if us > them {
			outcome = "W"
		}
		result = fmt.Sprintf("%s %d-%d", outcome, us, them)
	case state.live():
		result = "LIVE"
	default:
		result = localTime(game.Str("startTimeUTC", ""), local)
		if result == "" {
			result = "TBD"
		}
	}
	return []string{game.Str("gameDate", ""), opponent, result}
}

func (s teamScreen) scheduleView() string {
	if len(s.games) == 0 {
		return mutedText.Render("No scheduled games")
	}
	lines := []string{tableHeader(teamGameCols)}
	for _, g := range s.games {
		row := teamGameRow(g, s.abbrev, s.d.local)
		line := tableRow(teamGameCols, row)
		if row[2] == "LIVE" {
			line = liveText.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (s teamScreen) View(width, height int, spin string) string {
	header := lipgloss.PlaceHorizontal(width, lipgloss.Center, boldText.Render(s.Title()))
	body := s.vp.View()
	if !s.loaded {
		body = s.loadingView(spin, "team data")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, s.tabs.view(), "", body)
}
