// Package refresh drives periodic data refresh for a dashboard screen: a
// repeating refresh tick, a one-second countdown shown to the user, and
// debounced relayout decisions on terminal resize.
package refresh

import (
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// DefaultInterval is the time between automatic refreshes.
const DefaultInterval = 30 * time.Second

// Action tells the owning screen what a message meant.
type Action int

const (
	// ActionNone means the message was not for this controller, or was
	// from a stopped session.
	ActionNone Action = iota
	// ActionRefresh means the cache was invalidated and the screen should
	// re-fetch its data.
	ActionRefresh
	// ActionCountdown means the countdown changed and only the subtitle
	// needs redrawing.
	ActionCountdown
)

func (a Action) String() string {
	switch a {
	case ActionRefresh:
		return "refresh"
	case ActionCountdown:
		return "countdown"
	default:
		return "none"
	}
}

// Invalidator discards cached data. The nhl client satisfies it.
type Invalidator interface {
	InvalidateAll()
}

// TickFunc schedules fn to produce a message after d. tea.Tick satisfies it.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// RefreshMsg is delivered when the refresh interval elapses.
type RefreshMsg struct {
	session uint64
	gen     uint64
}

// Session identifies the controller that scheduled the tick.
func (m RefreshMsg) Session() uint64 { return m.session }

// CountdownMsg is delivered once per second while a controller is active.
type CountdownMsg struct {
	session uint64
	gen     uint64
}

// Session identifies the controller that scheduled the tick.
func (m CountdownMsg) Session() uint64 { return m.session }

var lastSession atomic.Uint64

// NextSession returns a process-unique id for a screen instance.
func NextSession() uint64 {
	return lastSession.Add(1)
}

// Controller owns the refresh schedule of one screen instance. It is not
// safe for concurrent use; all calls happen on the Bubble Tea update loop.
type Controller struct {
	session   uint64
	gen       uint64
	active    bool
	interval  int // seconds
	countdown int

	lastKnownWidth int
	threshold      int
	breakpoint     int // 0 means delta mode

	inv  Invalidator
	tick TickFunc
	log  zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithInterval sets the refresh interval. Values under one second are
// raised to one second.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.interval = max(int(d/time.Second), 1)
	}
}

// WithWidthThreshold sets the minimum width change that triggers a relayout.
func WithWidthThreshold(n int) Option {
	return func(c *Controller) {
		c.threshold = n
	}
}

// WithBreakpoint switches relayout decisions to breakpoint mode: a relayout
// is needed only when the width moves across w.
func WithBreakpoint(w int) Option {
	return func(c *Controller) {
		c.breakpoint = w
	}
}

// WithTick replaces tea.Tick as the timer source.
func WithTick(fn TickFunc) Option {
	return func(c *Controller) {
		c.tick = fn
	}
}

// WithLogger attaches a logger for lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// New creates an idle controller with its own session id. inv may be nil
// for screens whose refresh does not touch a cache.
func New(inv Invalidator, opts ...Option) *Controller {
	c := &Controller{
		session:   NextSession(),
		interval:  int(DefaultInterval / time.Second),
		threshold: 1,
		inv:       inv,
		tick:      tea.Tick,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.countdown = c.interval
	c.log = c.log.With().Str("component", "refresh").Uint64("session", c.session).Logger()
	return c
}

// Session returns the id carried by every tick this controller schedules.
func (c *Controller) Session() uint64 { return c.session }

// Active reports whether ticks are scheduled.
func (c *Controller) Active() bool { return c.active }

// Countdown returns the seconds remaining until the next automatic refresh.
func (c *Controller) Countdown() int { return c.countdown }

// Interval returns the refresh interval in seconds.
func (c *Controller) Interval() int { return c.interval }

// Start begins the refresh and countdown tick chains and resets the
// countdown. Starting an active controller restarts both chains; ticks
// from the earlier start are ignored.
func (c *Controller) Start() tea.Cmd {
	c.gen++
	c.active = true
	c.countdown = c.interval
	c.log.Debug().Uint64("gen", c.gen).Int("interval", c.interval).Msg("refresh started")
	return tea.Batch(c.refreshTick(), c.countdownTick())
}

// Stop cancels both tick chains. Ticks already in flight are dropped when
// they arrive and are not rescheduled. Stop is idempotent.
func (c *Controller) Stop() {
	if !c.active {
		return
	}
	c.active = false
	c.gen++
	c.log.Debug().Msg("refresh stopped")
}

// Update handles tick messages. Messages from other sessions or from a
// stopped generation yield ActionNone and no command.
func (c *Controller) Update(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshMsg:
		if !c.live(msg.session, msg.gen) {
			return ActionNone, nil
		}
		c.refresh()
		return ActionRefresh, c.refreshTick()
	case CountdownMsg:
		if !c.live(msg.session, msg.gen) {
			return ActionNone, nil
		}
		c.countdown--
		if c.countdown < 0 {
			c.countdown = c.interval
		}
		return ActionCountdown, c.countdownTick()
	}
	return ActionNone, nil
}

// ManualRefresh runs the same path as an automatic refresh: the countdown
// resets and the cache is invalidated. It works whether or not the
// controller is active.
func (c *Controller) ManualRefresh() Action {
	c.log.Debug().Msg("manual refresh")
	c.refresh()
	return ActionRefresh
}

// ShouldRelayout reports whether a resize to width warrants rebuilding the
// layout. In delta mode that is when the width moved at least the threshold
// since the last relayout; in breakpoint mode when it moved across the
// breakpoint. The remembered width only moves when true is returned.
func (c *Controller) ShouldRelayout(width int) bool {
	var relayout bool
	if c.breakpoint > 0 {
		relayout = (width >= c.breakpoint) != (c.lastKnownWidth >= c.breakpoint)
	} else {
		relayout = abs(width-c.lastKnownWidth) >= c.threshold
	}
	if relayout {
		c.lastKnownWidth = width
	}
	return relayout
}

// Subtitle returns the countdown text shown under the screen title, or ""
// while the controller is idle.
func (c *Controller) Subtitle() string {
	if !c.active {
		return ""
	}
	return fmt.Sprintf("Refreshing in %ds", c.countdown)
}

func (c *Controller) live(session, gen uint64) bool {
	return c.active && session == c.session && gen == c.gen
}

func (c *Controller) refresh() {
	c.countdown = c.interval
	if c.inv != nil {
		c.inv.InvalidateAll()
	}
}

func (c *Controller) refreshTick() tea.Cmd {
	session, gen := c.session, c.gen
	return c.tick(time.Duration(c.interval)*time.Second, func(time.Time) tea.Msg {
		return RefreshMsg{session: session, gen: gen}
	})
}

func (c *Controller) countdownTick() tea.Cmd {
	session, gen := c.session, c.gen
	return c.tick(time.Second, func(time.Time) tea.Msg {
		return CountdownMsg{session: session, gen: gen}
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
