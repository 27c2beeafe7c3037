package dashboard

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/faceoff/internal/nhl"
	"github.com/smileynet/faceoff/internal/refresh"
)

// sideBySideWidth is the narrowest body that shows both conferences next
// to each other.
const sideBySideWidth = 150

const (
	tabWildCard = iota
	tabDivision
	tabConference
	tabLeague
)

var standingsCols = []column{
	{title: "#", width: 3, right: true},
	{title: "Team", width: 5},
	{title: "GP", width: 3, right: true},
	{title: "W", width: 3, right: true},
	{title: "L", width: 3, right: true},
	{title: "OTL", width: 3, right: true},
	{title: "PTS", width: 4, right: true},
	{title: "PCT", width: 6, right: true},
}

// standingsMsg carries the league standings table.
type standingsMsg struct {
	session uint64
	teams   []nhl.Payload
	err     error
}

func (m standingsMsg) Session() uint64 { return m.session }

// standingsScreen shows standings in four groupings.
type standingsScreen struct {
	base
	keys       scrollKeys
	tabs       tabSet
	teams      []nhl.Payload
	sideBySide bool
	vp         viewport.Model
}

func newStandingsScreen(d *deps) Screen {
	return standingsScreen{
		base: newBase(d, refresh.WithBreakpoint(sideBySideWidth)),
		keys: ScrollKeyMap(true),
		tabs: tabSet{labels: []string{"Wild Card", "Division", "Conference", "League"}},
		vp:   newViewport(),
	}
}

func (s standingsScreen) Title() string     { return "Standings" }
func (s standingsScreen) Help() help.KeyMap { return s.keys }
func (s standingsScreen) Init() tea.Cmd     { return s.load() }

func (s standingsScreen) load() tea.Cmd {
	session := s.Session()
	return s.d.fetch(nhl.Standings(""), func(p nhl.Payload, err error) tea.Msg {
		if err != nil {
			return standingsMsg{session: session, err: err}
		}
		return standingsMsg{session: session, teams: p.List("standings")}
	})
}

func (s standingsScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		sizeViewport(&s.vp, s.width, s.height, tabLines+1)
		if s.ctrl.ShouldRelayout(s.width) {
			s.sideBySide = s.width >= sideBySideWidth
		}
		s.sync()
		return s, nil

	case standingsMsg:
		if msg.err != nil {
			return s, s.loadFailed("standings", msg.err)
		}
		s.loadSucceeded()
		s.teams = msg.teams
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

func (s *standingsScreen) sync() {
	if s.width == 0 || !s.loaded {
		return
	}
	s.vp.SetContent(s.content())
}

func (s standingsScreen) content() string {
	if len(s.teams) == 0 {
		return mutedText.Render("No standings data available")
	}
	switch s.tabs.active {
	case tabWildCard:
		return s.arrange(wildCardSections(s.teams))
	case tabDivision:
		return s.arrange(divisionSections(s.teams))
	case tabConference:
		return s.arrange(conferenceSections(s.teams))
	default:
		return leagueTable(s.teams)
	}
}

// arrange places two conference blocks side by side when wide enough,
// otherwise stacks them.
func (s standingsScreen) arrange(blocks []string) string {
	if s.sideBySide && len(blocks) == 2 {
		return lipgloss.JoinHorizontal(lipgloss.Top, blocks[0], "    ", blocks[1])
	}
	return strings.Join(blocks, "\n\n")
}

func standingsRow(team nhl.Payload, rank string) string {
	return tableRow(standingsCols, []string{
		rank,
		team.Localized("teamAbbrev", "???"),
		strconv.Itoa(team.Int("gamesPlayed", 0)),
		strconv.Itoa(team.Int("wins", 0)),
		strconv.Itoa(team.Int("losses", 0)),
		strconv.Itoa(team.Int("otLosses", 0)),
		strconv.Itoa(team.Int("points", 0)),
		fixed(team.Float("pointPctg", 0), 3),
	})
}

func heading(title string) string {
	return sectionStyle.Width(tableWidth(standingsCols)).Render(title)
}

// groupBy buckets teams by a string field, returning the bucket names
// sorted.
func groupBy(teams []nhl.Payload, field string) ([]string, map[string][]nhl.Payload) {
	groups := make(map[string][]nhl.Payload)
	for _, t := range teams {
		name := t.Str(field, "Unknown")
		groups[name] = append(groups[name], t)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, groups
}

// sortedBy returns teams ordered by an integer sequence field; teams without
// it sort last.
func sortedBy(teams []nhl.Payload, field string) []nhl.Payload {
	out := slices.Clone(teams)
	slices.SortStableFunc(out, func(a, b nhl.Payload) int {
		return cmp.Compare(a.Int(field, 99), b.Int(field, 99))
	})
	return out
}

// wildCardSections shows the top three of each division, then the rest of
// the conference ordered by wild card position.
func wildCardSections(teams []nhl.Payload) []string {
	confs, byConf := groupBy(teams, "conferenceName")
	blocks := make([]string, 0, len(confs))
	for _, conf := range confs {
		lines := []string{heading(conf + " Conference"), tableHeader(standingsCols)}
		var wild []nhl.Payload
		divs, byDiv := groupBy(byConf[conf], "divisionName")
		for _, div := range divs {
			lines = append(lines, boldText.Render(div))
			for _, t := range sortedBy(byDiv[div], "divisionSequence") {
				if t.Int("divisionSequence", 0) > 3 {
					wild = append(wild, t)
					continue
				}
				lines = append(lines, standingsRow(t, t.Str("divisionSequence", "-")))
			}
		}
		if len(wild) > 0 {
			lines = append(lines, wildCardStyle.Render("Wild Card"))
			for _, t := range sortedBy(wild, "wildcardSequence") {
				lines = append(lines, standingsRow(t, t.Str("wildcardSequence", "-")))
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return blocks
}

// divisionSections lists each conference's divisions in full.
func divisionSections(teams []nhl.Payload) []string {
	confs, byConf := groupBy(teams, "conferenceName")
	blocks := make([]string, 0, len(confs))
	for _, conf := range confs {
		var lines []string
		divs, byDiv := groupBy(byConf[conf], "divisionName")
		for i, div := range divs {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, heading(div), tableHeader(standingsCols))
			lines = append(lines, rankedRows(sortedBy(byDiv[div], "divisionSequence"))...)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return blocks
}

// conferenceSections ranks teams within each conference.
func conferenceSections(teams []nhl.Payload) []string {
	confs, byConf := groupBy(teams, "conferenceName")
	blocks := make([]string, 0, len(confs))
	for _, conf := range confs {
		lines := []string{heading(conf + " Conference"), tableHeader(standingsCols)}
		lines = append(lines, rankedRows(sortedBy(byConf[conf], "conferenceSequence"))...)
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return blocks
}

func leagueTable(teams []nhl.Payload) string {
	lines := []string{heading("NHL Standings"), tableHeader(standingsCols)}
	lines = append(lines, rankedRows(sortedBy(teams, "leagueSequence"))...)
	return strings.Join(lines, "\n")
}

func rankedRows(teams []nhl.Payload) []string {
	rows := make([]string, len(teams))
	for i, t := range teams {
		rows[i] = standingsRow(t, fmt.Sprint(i+1))
	}
	return rows
}

func (s standingsScreen) View(width, height int, spin string) string {
	body := s.vp.View()
	if !s.loaded {
		body = s.loadingView(spin, "standings")
	}
	return lipgloss.JoinVertical(lipgloss.Left, s.tabs.view(), "", body)
}
