package dashboard

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/faceoff/internal/nhl"
	"github.com/smileynet/faceoff/internal/refresh"
)

const (
	// scheduleCardWidth is the horizontal space one game card takes,
	// margin included.
	scheduleCardWidth = 29
	// scheduleCardInner is the card content width inside padding.
	scheduleCardInner = 24
	// scheduleRowHeight is a row of cards plus the gap below it.
	scheduleRowHeight = 6
	// scheduleHeaderLines is the date header, hint line and blank line.
	scheduleHeaderLines = 3
)

// scheduleMsg carries the games of one date.
type scheduleMsg struct {
	session uint64
	date    time.Time
	games   []nhl.Payload
	err     error
}

func (m scheduleMsg) Session() uint64 { return m.session }

// scheduleScreen shows a day's games as a grid of cards.
type scheduleScreen struct {
	base
	keys   scheduleKeys
	date   time.Time
	games  []nhl.Payload
	cursor int
	perRow int
	vp     viewport.Model
}

func newScheduleScreen(d *deps) Screen {
	return scheduleScreen{
		base:   newBase(d, refresh.WithWidthThreshold(scheduleCardWidth)),
		keys:   ScheduleKeyMap(),
		date:   d.today(),
		perRow: cardsPerRow(0),
		vp:     newViewport(),
	}
}

// cardsPerRow returns how many game cards fit in width.
func cardsPerRow(width int) int {
	if width <= 0 {
		return 2
	}
	return max(1, (width-4)/scheduleCardWidth)
}

func (s scheduleScreen) Title() string     { return "Schedule" }
func (s scheduleScreen) Help() help.KeyMap { return s.keys }

func (s scheduleScreen) viewingToday() bool {
	return sameDay(s.date, s.d.today())
}

func (s scheduleScreen) Init() tea.Cmd {
	if s.viewingToday() {
		return tea.Batch(s.load(), s.ctrl.Start())
	}
	return s.load()
}

func (s scheduleScreen) load() tea.Cmd {
	session, date := s.Session(), s.date
	day := date.Format("2006-01-02")
	return s.d.fetch(nhl.Schedule(day), func(p nhl.Payload, err error) tea.Msg {
		if err != nil {
			return scheduleMsg{session: session, date: date, err: err}
		}
		var games []nhl.Payload
		for _, week := range p.List("gameWeek") {
			if week.Str("date", "") == day {
				games = week.List("games")
				break
			}
		}
		return scheduleMsg{session: session, date: date, games: games}
	})
}

func (s scheduleScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		sizeViewport(&s.vp, s.width, s.height, scheduleHeaderLines)
		if s.ctrl.ShouldRelayout(s.width) {
			s.perRow = cardsPerRow(s.width)
		}
		s.sync()
		return s, nil

	case scheduleMsg:
		if !sameDay(msg.date, s.date) {
			return s, nil
		}
		if msg.err != nil {
			return s, s.loadFailed("games", msg.err)
		}
		s.loadSucceeded()
		s.games = msg.games
		s.cursor = min(s.cursor, max(len(s.games)-1, 0))
		if s.width > 0 {
			s.perRow = cardsPerRow(s.width)
		}
		s.sync()
		return s, nil

	case refresh.RefreshMsg, refresh.CountdownMsg:
		// The league day can roll over while polling; only today is live.
		if s.ctrl.Active() && !s.viewingToday() {
			s.d.log.Debug().Uint64("session", s.Session()).Msg("day rolled over, polling stopped")
			s.ctrl.Stop()
			return s, nil
		}
		return s, s.tick(msg, s.load)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s scheduleScreen) handleKey(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch {
	case isRefresh(msg):
		cmd := s.manualRefresh(s.load)
		return s, cmd
	case key.Matches(msg, s.keys.PrevDay):
		return s.changeDate(s.date.AddDate(0, 0, -1))
	case key.Matches(msg, s.keys.NextDay):
		return s.changeDate(s.date.AddDate(0, 0, 1))
	case key.Matches(msg, s.keys.Today):
		return s.changeDate(s.d.today())
	case key.Matches(msg, s.keys.Left):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, s.keys.Right):
		if s.cursor < len(s.games)-1 {
			s.cursor++
		}
	case key.Matches(msg, s.keys.Up):
		if s.cursor-s.perRow >= 0 {
			s.cursor -= s.perRow
		}
	case key.Matches(msg, s.keys.Down):
		if s.cursor+s.perRow < len(s.games) {
			s.cursor += s.perRow
		}
	case key.Matches(msg, s.keys.Open):
		return s, s.open()
	case key.Matches(msg, s.keys.Standings):
		return s, pushScreen(newStandingsScreen(s.d))
	case key.Matches(msg, s.keys.Stats):
		return s, pushScreen(newStatsScreen(s.d))
	case key.Matches(msg, s.keys.Teams):
		return s, pushScreen(newTeamsScreen(s.d))
	default:
		return s, nil
	}
	s.sync()
	return s, nil
}

// changeDate switches to day and reloads. Polling runs only on today, and
// going to today always restarts the countdown.
func (s scheduleScreen) changeDate(day time.Time) (Screen, tea.Cmd) {
	s.date = dateOnly(day)
	s.games = nil
	s.cursor = 0
	s.loading = true
	s.loaded = false
	s.err = nil
	s.sync()

	cmds := []tea.Cmd{s.load()}
	if s.viewingToday() {
		cmds = append(cmds, s.ctrl.Start())
	} else {
		s.ctrl.Stop()
	}
	return s, tea.Batch(cmds...)
}

func (s scheduleScreen) open() tea.Cmd {
	if s.cursor >= len(s.games) {
		return nil
	}
	game := s.games[s.cursor]
	switch game.Str("gameScheduleState", "OK") {
	case schedulePostponed:
		return notify(noticeWarn, "This game has been postponed")
	case scheduleCancelled:
		return notify(noticeWarn, "This game has been cancelled")
	}
	if stateOf(game).upcoming() {
		return pushScreen(newPregameScreen(s.d, game))
	}
	return pushScreen(newGameScreen(s.d, game))
}

// sync re-renders the grid into the viewport and scrolls the cursor row
// into view.
func (s *scheduleScreen) sync() {
	if s.width == 0 {
		return
	}
	s.vp.SetContent(s.grid())
	top := (s.cursor / max(s.perRow, 1)) * scheduleRowHeight
	switch {
	case top < s.vp.YOffset:
		s.vp.SetYOffset(top)
	case top+scheduleRowHeight > s.vp.YOffset+s.vp.Height:
		s.vp.SetYOffset(top + scheduleRowHeight - s.vp.Height)
	}
}

func (s scheduleScreen) grid() string {
	if len(s.games) == 0 {
		if !s.loaded {
			return ""
		}
		return lipgloss.PlaceHorizontal(s.width, lipgloss.Center, mutedText.Render("No games scheduled"))
	}
	var rows []string
	for i := 0; i < len(s.games); i += s.perRow {
		end := min(i+s.perRow, len(s.games))
		cards := make([]string, 0, end-i)
		for j := i; j < end; j++ {
			cards = append(cards, gameCard(s.games[j], j == s.cursor, s.d.local))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n\n")
}

// gameCard renders one schedule card: two team rows and a status line.
func gameCard(game nhl.Payload, focused bool, local *time.Location) string {
	state := stateOf(game)
	teamRow := func(team nhl.Payload) string {
		score := ""
		if !state.upcoming() {
			score = team.Str("score", "-")
		}
		return cell(team.Str("abbrev", "???"), scheduleCardInner-3, false) + cell(score, 3, true)
	}

	status := statusText(game, local)
	if state.live() {
		status = liveText.Render(status)
	} else {
		status = mutedText.Render(status)
	}

	body := strings.Join([]string{
		teamRow(game.Map("awayTeam")),
		teamRow(game.Map("homeTeam")),
		lipgloss.PlaceHorizontal(scheduleCardInner, lipgloss.Center, status),
	}, "\n")
	return cardStyle(focused, state).
		Width(scheduleCardInner + 2).
		MarginRight(1).
		Render(body)
}

func (s scheduleScreen) View(width, height int, spin string) string {
	header := lipgloss.PlaceHorizontal(width, lipgloss.Center, boldText.Render(dayLabel(s.date, s.d.today())))
	hint := lipgloss.PlaceHorizontal(width, lipgloss.Center,
		mutedText.Render("Use arrow keys to navigate games | h/l: Change date | t: Today"))

	body := s.vp.View()
	if !s.loaded {
		body = s.loadingView(spin, "games")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, hint, "", body)
}
