package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/smileynet/faceoff/internal/refresh"
)

// titleBarHeight, noticeHeight and helpBarHeight are the lines reserved
// around the screen body.
const (
	titleBarHeight = 1
	noticeHeight   = 1
	helpBarHeight  = 1
)

// notice is the notification currently shown, if any.
type notice struct {
	id    int
	text  string
	level noticeLevel
}

// Model is the root Bubble Tea model for the dashboard TUI. It owns the
// screen stack, routes messages to the screen that requested them, and
// draws the title bar, notification line and help bar.
type Model struct {
	deps     *deps
	stack    []Screen
	width    int
	height   int
	spinner  spinner.Model
	help     help.Model
	keys     globalKeys
	notice   notice
	noticeID int
	quitting bool
}

// Option configures a Model.
type Option func(*deps)

// WithLogger attaches a logger for navigation and refresh events.
func WithLogger(l zerolog.Logger) Option {
	return func(d *deps) {
		d.log = l.With().Str("component", "dashboard").Logger()
	}
}

// WithRefreshInterval sets the automatic refresh interval for live screens.
func WithRefreshInterval(interval time.Duration) Option {
	return func(d *deps) {
		d.interval = interval
	}
}

// WithTick replaces tea.Tick for refresh timers.
func WithTick(fn refresh.TickFunc) Option {
	return func(d *deps) {
		d.tick = fn
	}
}

// WithClock overrides the time source used to decide what "today" is.
func WithClock(now func() time.Time) Option {
	return func(d *deps) {
		d.now = now
	}
}

// WithLocations sets the league time zone used for schedule dates and the
// zone game start times are shown in.
func WithLocations(league, local *time.Location) Option {
	return func(d *deps) {
		d.league = league
		d.local = local
	}
}

// WithContext sets the context passed to every fetch.
func WithContext(ctx context.Context) Option {
	return func(d *deps) {
		d.ctx = ctx
	}
}

// LeagueLocation returns the zone the league schedules games in, falling
// back to a fixed UTC-5 offset when the zone database is unavailable.
func LeagueLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// NewModel creates a dashboard Model with the schedule screen for today
// at the root of the stack.
func NewModel(feed Feed, opts ...Option) Model {
	d := &deps{
		ctx:      context.Background(),
		feed:     feed,
		log:      zerolog.Nop(),
		interval: refresh.DefaultInterval,
		now:      time.Now,
		local:    time.Local,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.league == nil {
		d.league = LeagueLocation()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		deps:    d,
		stack:   []Screen{newScheduleScreen(d)},
		spinner: s,
		help:    help.New(),
		keys:    GlobalKeyMap(),
	}
}

// Init starts the spinner and the root screen.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.top().Init())
}

func (m Model) top() Screen {
	return m.stack[len(m.stack)-1]
}

// Depth returns the number of open screens.
func (m Model) Depth() int {
	return len(m.stack)
}

// Update routes messages: global keys and navigation are handled here,
// session-tagged messages go to their owning screen, and everything else
// goes to the top screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m.updateTop(m.bodySize())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushMsg:
		m.deps.log.Debug().Str("screen", msg.screen.Title()).Int("depth", m.Depth()+1).Msg("push screen")
		m.stack = append(m.stack, msg.screen)
		initCmd := msg.screen.Init()
		next, sizeCmd := m.updateTop(m.bodySize())
		return next, tea.Batch(initCmd, sizeCmd)

	case popMsg:
		return m.pop()

	case notifyMsg:
		m.noticeID++
		m.notice = notice{id: m.noticeID, text: msg.text, level: msg.level}
		id := m.noticeID
		return m, tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
			return dismissNoticeMsg{id: id}
		})

	case dismissNoticeMsg:
		if msg.id == m.notice.id {
			m.notice = notice{}
		}
		return m, nil

	case sessioned:
		return m.route(msg)
	}

	return m.updateTop(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		for i := len(m.stack) - 1; i >= 0; i-- {
			m.stack[i].Teardown()
		}
		m.deps.log.Info().Msg("quit")
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if m.Depth() > 1 {
			return m.pop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.notice = notice{}
		return m, nil
	}

	return m.updateTop(msg)
}

// pop closes the top screen and resizes the one revealed beneath it. The
// root screen is never popped.
func (m Model) pop() (tea.Model, tea.Cmd) {
	if m.Depth() <= 1 {
		return m, nil
	}
	top := m.top()
	top.Teardown()
	m.stack = append([]Screen(nil), m.stack[:len(m.stack)-1]...)
	m.deps.log.Debug().Str("screen", top.Title()).Int("depth", m.Depth()).Msg("pop screen")
	return m.updateTop(m.bodySize())
}

// route delivers a session-tagged message to the screen that owns it. A
// message whose screen has been popped is discarded.
func (m Model) route(msg sessioned) (tea.Model, tea.Cmd) {
	session := msg.Session()
	for i := len(m.stack) - 1; i >= 0; i-- {
		if m.stack[i].Session() != session {
			continue
		}
		stack := append([]Screen(nil), m.stack...)
		var cmd tea.Cmd
		stack[i], cmd = stack[i].Update(msg)
		m.stack = stack
		return m, cmd
	}
	m.deps.log.Debug().Uint64("session", session).Msgf("discarded %T for closed screen", msg)
	return m, nil
}

func (m Model) updateTop(msg tea.Msg) (tea.Model, tea.Cmd) {
	stack := append([]Screen(nil), m.stack...)
	i := len(stack) - 1
	var cmd tea.Cmd
	stack[i], cmd = stack[i].Update(msg)
	m.stack = stack
	return m, cmd
}

// bodySize is the window size available to the screen body.
func (m Model) bodySize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: m.width, Height: m.bodyHeight()}
}

func (m Model) bodyHeight() int {
	h := m.height - titleBarHeight - noticeHeight - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the title bar, the top screen, the notification line and
// the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	top := m.top()
	body := lipgloss.NewStyle().
		Width(m.width).
		Height(m.bodyHeight()).
		MaxHeight(m.bodyHeight()).
		MaxWidth(m.width).
		Render(top.View(m.width, m.bodyHeight(), m.spinner.View()))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.titleBar(top),
		body,
		m.noticeLine(),
		m.help.View(HelpBindings(top, m.Depth() == 1)),
	)
}

func (m Model) titleBar(top Screen) string {
	left := titleStyle.Render("Faceoff") + mutedText.Render(" · ") + boldText.Render(top.Title())
	right := subtitleStyle.Render(top.Subtitle())
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(left)
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}

func (m Model) noticeLine() string {
	if m.notice.text == "" {
		return ""
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(noticeStyle(m.notice.level).Render(m.notice.text))
}
