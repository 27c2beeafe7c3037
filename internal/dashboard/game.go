package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/faceoff/internal/nhl"
	"github.com/smileynet/faceoff/internal/refresh"
)

const (
	// wideGameWidth is the narrowest body that shows play-by-play beside
	// the score and stats.
	wideGameWidth = 100
	// gameRelayoutDelta is the width change that re-evaluates the layout.
	gameRelayoutDelta = 20
)

// gameMsg carries the box score, play-by-play and landing payloads.
type gameMsg struct {
	session  uint64
	boxscore nhl.Payload
	pbp      nhl.Payload
	landing  nhl.Payload
	err      error
}

func (m gameMsg) Session() uint64 { return m.session }

// gameScreen shows one game in progress or finished.
type gameScreen struct {
	base
	keys     scrollKeys
	id       int
	game     nhl.Payload
	boxscore nhl.Payload
	goals    []scoredGoal
	plays    []nhl.Payload
	roster   map[int]string
	wide     bool
	vp       viewport.Model
}

func newGameScreen(d *deps, game nhl.Payload) Screen {
	return gameScreen{
		base: newBase(d, refresh.WithWidthThreshold(gameRelayoutDelta)),
		keys: ScrollKeyMap(false),
		id:   game.Int("id", 0),
		game: game,
		vp:   newViewport(),
	}
}

func (s gameScreen) Title() string {
	return s.game.Map("awayTeam").Str("abbrev", "AWY") + " @ " + s.game.Map("homeTeam").Str("abbrev", "HOM")
}

func (s gameScreen) Help() help.KeyMap { return s.keys }

func (s gameScreen) Init() tea.Cmd {
	if stateOf(s.game).polls() {
		return tea.Batch(s.load(), s.ctrl.Start())
	}
	return s.load()
}

func (s gameScreen) load() tea.Cmd {
	session := s.Session()
	reqs := []nhl.Request{nhl.Boxscore(s.id), nhl.PlayByPlay(s.id), nhl.GameLanding(s.id)}
	return s.d.fetchAll(reqs, func(p []nhl.Payload, err error) tea.Msg {
		if err != nil {
			return gameMsg{session: session, err: err}
		}
		return gameMsg{session: session, boxscore: p[0], pbp: p[1], landing: p[2]}
	})
}

// mergeBoxscore overlays live fields from the box score onto a copy of the
// schedule entry.
func mergeBoxscore(game, boxscore nhl.Payload) nhl.Payload {
	out := make(nhl.Payload, len(game))
	for k, v := range game {
		out[k] = v
	}
	for _, k := range []string{"awayTeam", "homeTeam", "gameState", "clock", "periodDescriptor"} {
		if v, ok := boxscore[k]; ok {
			out[k] = v
		}
	}
	return out
}

func (s gameScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		sizeViewport(&s.vp, s.width, s.height, 0)
		if s.ctrl.ShouldRelayout(s.width) {
			s.wide = s.width >= wideGameWidth
		}
		s.sync()
		return s, nil

	case gameMsg:
		if msg.err != nil {
			return s, s.loadFailed("game data", msg.err)
		}
		s.loadSucceeded()
		s.boxscore = msg.boxscore
		s.game = mergeBoxscore(s.game, msg.boxscore)
		s.goals = scoringSummary(msg.landing)
		s.plays = msg.pbp.List("plays")
		s.roster = rosterNames(msg.pbp)
		if s.width > 0 {
			s.wide = s.width >= wideGameWidth
		}
		if stateOf(s.game).final() && s.ctrl.Active() {
			s.d.log.Debug().Int("game", s.id).Msg("game final, polling stopped")
			s.ctrl.Stop()
		}
		s.sync()
		return s, nil

	case refresh.RefreshMsg, refresh.CountdownMsg:
		return s, s.tick(msg, s.load)

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

func (s *gameScreen) sync() {
	if s.width == 0 {
		return
	}
	s.vp.SetContent(s.content())
}

func (s gameScreen) content() string {
	if !s.loaded {
		return ""
	}
	if s.wide {
		half := (s.width - 1) / 2
		left := lipgloss.JoinVertical(lipgloss.Left,
			s.scoreBox(half), s.goalsSection(half), s.statsSection(half))
		right := s.playsSection(s.width - half - 1)
		return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		s.scoreBox(s.width), s.goalsSection(s.width), s.statsSection(s.width), s.playsSection(s.width))
}

// section draws a titled box of the given outer width.
func section(title string, width int, lines []string) string {
	inner := max(width-2, 1)
	body := append([]string{sectionStyle.Width(inner).Render(title)}, lines...)
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(accentColor).
		Width(inner).
		Render(strings.Join(body, "\n"))
}

func (s gameScreen) scoreBox(width int) string {
	away, home := s.game.Map("awayTeam"), s.game.Map("homeTeam")
	state := stateOf(s.game)

	scores := "  -  -  -"
	if !state.upcoming() {
		as, hs := away.Int("score", 0), home.Int("score", 0)
		av, hv := cell(fmt.Sprint(as), 3, true), cell(fmt.Sprint(hs), 3, false)
		if as > hs {
			av = liveText.Render(av)
		} else if hs > as {
			hv = liveText.Render(hv)
		}
		scores = av + " - " + hv
	}
	left := boldText.Render(cell(away.Str("abbrev", "AWY"), 5, false)) + " @ " +
		boldText.Render(cell(home.Str("abbrev", "HOM"), 5, false)) + scores

	inner := max(width-4, 1)
	status := liveText.Render(statusText(s.game, s.d.local))
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(status), 1)
	return panelStyle().Width(width - 2).Render(left + strings.Repeat(" ", gap) + status)
}

func (s gameScreen) goalsSection(width int) string {
	if len(s.goals) == 0 {
		return section("Scoring Summary", width, []string{mutedText.Render(" No goals scored yet")})
	}
	lines := make([]string, 0, len(s.goals))
	for _, g := range s.goals {
		scorer := personName(g.goal)
		if scorer == "" {
			scorer = "Goal"
		}
		line := " " + mutedText.Render(cell(goalPeriod(g.period)+" "+g.goal.Str("timeInPeriod", ""), 10, false)) +
			" " + boldText.Render(cell(g.goal.Localized("teamAbbrev", "???"), 4, false)) +
			" " + liveText.Render(scorer)
		if assists := assistNames(g.goal); len(assists) > 0 {
			line += " " + mutedText.Render("("+strings.Join(assists, ", ")+")")
		}
		lines = append(lines, lipgloss.NewStyle().MaxWidth(width-2).Render(line))
	}
	return section("Scoring Summary", width, lines)
}

func (s gameScreen) statsSection(width int) string {
	away := aggregateTeam(s.boxscore, "awayTeam")
	home := aggregateTeam(s.boxscore, "homeTeam")
	label := max(width-2-2-12, 1)

	row := func(a, l, h string) string {
		return " " + cell(a, 6, true) + lipgloss.PlaceHorizontal(label, lipgloss.Center, l) + cell(h, 6, false)
	}
	lines := []string{boldText.Render(row(
		s.boxscore.Map("awayTeam").Str("abbrev", "AWY"), "Game Stats", s.boxscore.Map("homeTeam").Str("abbrev", "HOM")))}
	for _, l := range statLines(away, home) {
		lines = append(lines, row(l.away, l.label, l.home))
	}
	return section("Game Stats", width, lines)
}

func (s gameScreen) playsSection(width int) string {
	teams := map[int]string{
		s.boxscore.Map("awayTeam").Int("id", 0): s.boxscore.Map("awayTeam").Str("abbrev", "AWY"),
		s.boxscore.Map("homeTeam").Int("id", 0): s.boxscore.Map("homeTeam").Str("abbrev", "HOM"),
	}
	groups := groupPlays(s.plays, teams, s.roster)
	if len(groups) == 0 {
		return section("Play-by-Play", width, []string{mutedText.Render(" No plays yet")})
	}

	inner := max(width-2, 1)
	var lines []string
	for _, g := range groups {
		lines = append(lines, "", lipgloss.PlaceHorizontal(inner, lipgloss.Center, boldText.Render(g.heading)), "")
		for _, p := range g.lines {
			desc := p.desc
			switch p.kind {
			case playGoal:
				desc = goalText.Render(desc)
			case playPenalty:
				desc = penaltyText.Render(desc)
			}
			line := " " + mutedText.Render(cell(p.clock, 6, true)) + " "
			if p.team != "" {
				line += boldText.Render(cell(p.team, 4, false)) + " "
			}
			lines = append(lines, lipgloss.NewStyle().MaxWidth(inner).Render(line+desc))
		}
	}
	return section("Play-by-Play", width, lines)
}

func (s gameScreen) View(width, height int, spin string) string {
	if !s.loaded {
		return s.loadingView(spin, "game data")
	}
	return s.vp.View()
}
