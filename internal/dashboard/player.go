package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/faceoff/internal/nhl"
)

const gameLogShown = 10

var (
	goalieSeasonCols = []column{
		{title: "", width: 12}, {title: "GP", width: 4, right: true}, {title: "W", width: 4, right: true},
		{title: "L", width: 4, right: true}, {title: "OTL", width: 4, right: true}, {title: "GAA", width: 5, right: true},
		{title: "SV%", width: 5, right: true}, {title: "SO", width: 3, right: true},
	}
	skaterSeasonCols = []column{
		{title: "", width: 12}, {title: "GP", width: 4, right: true}, {title: "G", width: 4, right: true},
		{title: "A", width: 4, right: true}, {title: "PTS", width: 4, right: true}, {title: "+/-", width: 4, right: true},
		{title: "PIM", width: 4, right: true}, {title: "PPG", width: 4, right: true}, {title: "SHG", width: 4, right: true},
	}
	goalieLogCols = []column{
		{title: "Date", width: 11}, {title: "Opp", width: 4}, {title: "Dec", width: 3},
		{title: "GA", width: 3, right: true}, {title: "SA", width: 3, right: true},
		{title: "SV%", width: 5, right: true}, {title: "TOI", width: 6, right: true},
	}
	skaterLogCols = []column{
		{title: "Date", width: 11}, {title: "Opp", width: 4}, {title: "G", width: 3, right: true},
		{title: "A", width: 3, right: true}, {title: "PTS", width: 3, right: true}, {title: "+/-", width: 3, right: true},
		{title: "SOG", width: 3, right: true}, {title: "TOI", width: 6, right: true},
	}
)

// playerMsg carries a player's landing page and game log.
type playerMsg struct {
	session uint64
	landing nhl.Payload
	log     nhl.Payload
	err     error
}

func (m playerMsg) Session() uint64 { return m.session }

// playerScreen shows a player's bio, stats and recent games.
type playerScreen struct {
	base
	keys    scrollKeys
	id      int
	name    string
	landing nhl.Payload
	games   []nhl.Payload
	vp      viewport.Model
}

func newPlayerScreen(d *deps, id int, name string) Screen {
	return playerScreen{
		base: newBase(d),
		keys: ScrollKeyMap(false),
		id:   id,
		name: name,
		vp:   newViewport(),
	}
}

func (s playerScreen) Title() string     { return s.name }
func (s playerScreen) Help() help.KeyMap { return s.keys }
func (s playerScreen) Init() tea.Cmd     { return s.load() }

func (s playerScreen) load() tea.Cmd {
	session := s.Session()
	reqs := []nhl.Request{nhl.PlayerLanding(s.id), nhl.PlayerGameLog(s.id)}
	return s.d.fetchAll(reqs, func(p []nhl.Payload, err error) tea.Msg {
		if err != nil {
			return playerMsg{session: session, err: err}
		}
		return playerMsg{session: session, landing: p[0], log: p[1]}
	})
}

func (s playerScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		sizeViewport(&s.vp, s.width, s.height, 0)
		s.sync()
		return s, nil

	case playerMsg:
		if msg.err != nil {
			return s, s.loadFailed("player data", msg.err)
		}
		s.loadSucceeded()
		s.landing = msg.landing
		s.games = msg.log.List("gameLog")
		first, last := s.landing.Localized("firstName", ""), s.landing.Localized("lastName", "")
		if first != "" && last != "" {
			s.name = first + " " + last
		}
		s.sync()
		return s, nil

	case tea.KeyMsg:
		if isRefresh(msg) {
			cmd := s.manualRefresh(s.load)
			return s, cmd
		}
		var cmd tea.Cmd
		s.vp, cmd = s.vp.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *playerScreen) sync() {
	if s.width == 0 || !s.loaded {
		return
	}
	s.vp.SetContent(s.content())
}

func (s playerScreen) content() string {
	if len(s.landing) == 0 {
		return mutedText.Render("No player data available")
	}
	goalie := s.landing.Str("position", "") == "G"
	parts := []string{playerInfo(s.landing)}
	if block := seasonBlock(s.landing, goalie); block != "" {
		parts = append(parts, "", block)
	}
	if block := gameLogBlock(s.games, goalie); block != "" {
		parts = append(parts, "", block)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func playerInfo(p nhl.Payload) string {
	rows := [][2]string{
		{"Team", p.Localized("fullTeamName", "N/A")},
		{"Position", p.Str("position", "N/A")},
		{"Number", "#" + p.Str("sweaterNumber", "N/A")},
		{"Height", p.Str("heightInCentimeters", "N/A")},
		{"Weight", p.Str("weightInPounds", "N/A") + " lbs"},
		{"Birth Date", p.Str("birthDate", "N/A")},
		{"Birth City", p.Localized("birthCity", "N/A")},
		{"Birth Country", p.Str("birthCountry", "N/A")},
		{"Shoots/Catches", p.Str("shootsCatches", "N/A")},
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = mutedText.Render(cell(r[0], 16, false)) + r[1]
	}
	return panelStyle().Render(strings.Join(lines, "\n"))
}

// seasonBlock renders this season and career totals, or "" when the
// landing page has neither.
func seasonBlock(p nhl.Payload, goalie bool) string {
	rs := p.Map("featuredStats").Map("regularSeason")
	season, career := rs.Map("subSeason"), rs.Map("career")
	if len(season) == 0 && len(career) == 0 {
		return ""
	}
	cols := skaterSeasonCols
	if goalie {
		cols = goalieSeasonCols
	}
	lines := []string{sectionStyle.Width(tableWidth(cols)).Render("Season & Career Stats"), tableHeader(cols)}
	for _, row := range []struct {
		label string
		stats nhl.Payload
	}{{"This Season", season}, {"Career", career}} {
		if len(row.stats) == 0 {
			continue
		}
		st := row.stats
		var vals []string
		if goalie {
			vals = []string{row.label, st.Str("gamesPlayed", "0"), st.Str("wins", "0"), st.Str("losses", "0"),
				st.Str("otLosses", "0"), fixed(st.Float("goalsAgainstAvg", 0), 2), savePct(st.Float("savePctg", 0)),
				st.Str("shutouts", "0")}
		} else {
			vals = []string{row.label, st.Str("gamesPlayed", "0"), st.Str("goals", "0"), st.Str("assists", "0"),
				st.Str("points", "0"), st.Str("plusMinus", "0"), st.Str("pim", "0"),
				st.Str("powerPlayGoals", "0"), st.Str("shorthandedGoals", "0")}
		}
		lines = append(lines, tableRow(cols, vals))
	}
	return strings.Join(lines, "\n")
}

// savePct renders a save percentage as ".915".
func savePct(f float64) string {
	return strings.TrimPrefix(fixed(f, 3), "0")
}

// gameLogBlock renders the most recent games, or "" without any.
func gameLogBlock(games []nhl.Payload, goalie bool) string {
	if len(games) == 0 {
		return ""
	}
	cols := skaterLogCols
	if goalie {
		cols = goalieLogCols
	}
	lines := []string{sectionStyle.Width(tableWidth(cols)).Render("Recent Games"), tableHeader(cols)}
	for _, g := range games[:min(len(games), gameLogShown)] {
		vals := []string{g.Str("gameDate", ""), g.Localized("opponentAbbrev", "")}
		if goalie {
			vals = append(vals, g.Str("decision", "-"), g.Str("goalsAgainst", "0"), g.Str("shotsAgainst", "0"),
				savePct(g.Float("savePctg", 0)))
		} else {
			vals = append(vals, g.Str("goals", "0"), g.Str("assists", "0"), g.Str("points", "0"),
				g.Str("plusMinus", "0"), g.Str("shots", "0"))
		}
		vals = append(vals, g.Str("toi", "0:00"))
		lines = append(lines, tableRow(cols, vals))
	}
	return strings.Join(lines, "\n")
}

func (s playerScreen) View(width, height int, spin string) string {
	if !s.loaded {
		return s.loadingView(spin, "player data")
	}
	return s.vp.View()
}
