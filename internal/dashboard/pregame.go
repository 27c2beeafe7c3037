package dashboard

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/faceoff/internal/nhl"
)

const (
	compCategoryWidth = 12
	maxPregameGoalies = 2
	maxPregameLeaders = 5
)

// landingMsg carries a game landing payload.
type landingMsg struct {
	session uint64
	landing nhl.Payload
	err     error
}

func (m landingMsg) Session() uint64 { return m.session }

// pregameScreen previews a game that has not started.
type pregameScreen struct {
	base
	keys    scrollKeys
	id      int
	game    nhl.Payload
	landing nhl.Payload
	vp      viewport.Model
}

func newPregameScreen(d *deps, game nhl.Payload) Screen {
	return pregameScreen{
		base: newBase(d),
		keys: ScrollKeyMap(false),
		id:   game.Int("id", 0),
		game: game,
		vp:   newViewport(),
	}
}

func (s pregameScreen) Title() string {
	return "Pre-Game: " + s.game.Map("awayTeam").Str("abbrev", "???") + " @ " + s.game.Map("homeTeam").Str("abbrev", "???")
}

func (s pregameScreen) Help() help.KeyMap { return s.keys }

func (s pregameScreen) Init() tea.Cmd { return s.load() }

func (s pregameScreen) load() tea.Cmd {
	session := s.Session()
	return s.d.fetch(nhl.GameLanding(s.id), func(p nhl.Payload, err error) tea.Msg {
		return landingMsg{session: session, landing: p, err: err}
	})
}

func (s pregameScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		sizeViewport(&s.vp, s.width, s.height, 0)
		s.sync()
		return s, nil

	case landingMsg:
		if msg.err != nil {
			return s, s.loadFailed("matchup", msg.err)
		}
		s.loadSucceeded()
		s.landing = msg.landing
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

func (s *pregameScreen) sync() {
	if s.width == 0 || !s.loaded {
		return
	}
	s.vp.SetContent(s.content())
}

func (s pregameScreen) content() string {
	if len(s.landing) == 0 {
		return mutedText.Render("No matchup data available")
	}
	w := s.width
	center := func(str string) string { return lipgloss.PlaceHorizontal(w, lipgloss.Center, str) }

	parts := []string{center(boldText.Render(s.Title()))}
	if t := localTime(s.landing.Str("startTimeUTC", ""), s.d.local); t != "" {
		parts = append(parts, center("Game Time: "+t))
	}
	if venue := s.landing.Localized("venue", ""); venue != "" {
		if loc := s.landing.Localized("venueLocation", ""); loc != "" {
			venue += ", " + loc
		}
		parts = append(parts, center(mutedText.Render(venue)))
	}

	panelW := max((w-5)/2-2, 10)
	teams := lipgloss.JoinHorizontal(lipgloss.Center,
		teamPanel(s.landing.Map("awayTeam"), panelW),
		"  @  ",
		teamPanel(s.landing.Map("homeTeam"), panelW))
	parts = append(parts, "", center(teams))

	matchup := s.landing.Map("matchup")
	if goalies := matchup.Map("goalieComparison"); len(goalies) > 0 {
		parts = append(parts, "", goalieComparison(goalies, w))
	}
	if leaders := matchup.Map("skaterComparison").List("leaders"); len(leaders) > 0 {
		parts = append(parts, "", skaterComparison(leaders, w))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func teamPanel(team nhl.Payload, width int) string {
	abbrev := team.Str("abbrev", "")
	lines := []string{boldText.Render(fmt.Sprintf("%s (%s)", team.Localized("commonName", abbrev), abbrev))}
	if rec := team.Str("record", ""); rec != "" {
		lines = append(lines, "Record: "+rec)
	}
	return panelStyle().Width(width).Align(lipgloss.Center).Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// compRow lays out an away value, a category and a home value across width.
func compRow(width int, away, category, home string) string {
	side := max((width-compCategoryWidth)/2, 1)
	return cell(away, side, true) + lipgloss.PlaceHorizontal(compCategoryWidth, lipgloss.Center, mutedText.Render(cell(category, compCategoryWidth-2, false))) + cell(home, side, false)
}

func goalieComparison(comp nhl.Payload, width int) string {
	lines := []string{sectionStyle.Width(width).Render("Goalie Matchup")}
	away, home := comp.Map("awayTeam"), comp.Map("homeTeam")

	at, ht := away.Map("teamTotals"), home.Map("teamTotals")
	if len(at) > 0 || len(ht) > 0 {
		lines = append(lines, compRow(width,
			fmt.Sprintf("%s | SV%%: %.3f", at.Str("record", "-"), at.Float("savePctg", 0)),
			"Team",
			fmt.Sprintf("SV%%: %.3f | %s", ht.Float("savePctg", 0), ht.Str("record", "-"))))
	}

	ag, hg := away.List("leaders"), home.List("leaders")
	for i := range min(max(len(ag), len(hg)), maxPregameGoalies) {
		var a, h string
		if i < len(ag) {
			g := ag[i]
			a = fmt.Sprintf("%s (%s, %.2f)", g.Localized("name", "?"), g.Str("record", "-"), g.Float("gaa", 0))
		}
		if i < len(hg) {
			g := hg[i]
			h = fmt.Sprintf("(%.2f, %s) %s", g.Float("gaa", 0), g.Str("record", "-"), g.Localized("name", "?"))
		}
		lines = append(lines, compRow(width, a, fmt.Sprintf("G%d", i+1), h))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func skaterComparison(leaders []nhl.Payload, width int) string {
	lines := []string{sectionStyle.Width(width).Render("Skater Leaders (Last 5 Games)")}
	for _, l := range leaders[:min(len(leaders), maxPregameLeaders)] {
		a, h := "-", "-"
		if al := l.Map("awayLeader"); len(al) > 0 {
			a = al.Localized("name", "?") + ": " + al.Str("value", "0")
		}
		if hl := l.Map("homeLeader"); len(hl) > 0 {
			h = hl.Str("value", "0") + ": " + hl.Localized("name", "?")
		}
		lines = append(lines, compRow(width, a, titleCase(l.Str("category", "?")), h))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (s pregameScreen) View(width, height int, spin string) string {
	if !s.loaded {
		return s.loadingView(spin, "matchup data")
	}
	return s.vp.View()
}
