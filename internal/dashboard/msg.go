// Package dashboard implements the faceoff terminal UI: a stack of screens
// (schedule, game, standings, stats, teams, players) over a shared caching
// feed client, each screen driving its own refresh schedule.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/smileynet/faceoff/internal/nhl"
	"github.com/smileynet/faceoff/internal/refresh"
)

// --- Consumer-side interfaces ---

// Feed reads NHL data through a cache. *nhl.Client satisfies it.
type Feed interface {
	Fetch(ctx context.Context, req nhl.Request) (nhl.Payload, error)
	InvalidateAll()
}

// Screen is one page on the navigation stack. Screens are values; Update
// returns the next value of the screen.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	// View renders the body. spin is the current spinner frame.
	View(width, height int, spin string) string
	Title() string
	Subtitle() string
	// Session identifies this screen instance. Result and tick messages
	// carry it so they can be routed to their owner.
	Session() uint64
	// Teardown stops timers. It is called when the screen is popped or the
	// program quits.
	Teardown()
	Help() help.KeyMap
}

// sessioned is implemented by messages that belong to one screen instance.
type sessioned interface {
	Session() uint64
}

// --- tea.Msg types ---

// pushMsg asks the root model to open a screen on top of the stack.
type pushMsg struct {
	screen Screen
}

// popMsg asks the root model to close the top screen.
type popMsg struct{}

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeWarn
	noticeError
)

// notifyMsg shows a transient notification under the body.
type notifyMsg struct {
	text  string
	level noticeLevel
}

// dismissNoticeMsg clears the notification with the given id if it is
// still showing.
type dismissNoticeMsg struct {
	id int
}

// noticeTimeout is how long a notification stays up.
const noticeTimeout = 4 * time.Second

func pushScreen(s Screen) tea.Cmd {
	return func() tea.Msg { return pushMsg{screen: s} }
}

func popScreen() tea.Msg { return popMsg{} }

func notify(level noticeLevel, format string, args ...any) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg { return notifyMsg{text: text, level: level} }
}

// --- shared screen dependencies ---

// deps carries what every screen needs to fetch and schedule.
type deps struct {
	ctx      context.Context
	feed     Feed
	log      zerolog.Logger
	interval time.Duration
	tick     refresh.TickFunc
	now      func() time.Time
	league   *time.Location // dates on the schedule
	local    *time.Location // start times shown to the user
}

// controller builds a refresh controller wired to the shared feed.
func (d *deps) controller(opts ...refresh.Option) *refresh.Controller {
	base := []refresh.Option{
		refresh.WithInterval(d.interval),
		refresh.WithLogger(d.log),
	}
	if d.tick != nil {
		base = append(base, refresh.WithTick(d.tick))
	}
	return refresh.New(d.feed, append(base, opts...)...)
}

// today returns the current date in the league's time zone.
func (d *deps) today() time.Time {
	return dateOnly(d.now().In(d.league))
}

// fetch returns a command that reads req and hands the result to wrap.
func (d *deps) fetch(req nhl.Request, wrap func(nhl.Payload, error) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		p, err := d.feed.Fetch(d.ctx, req)
		return wrap(p, err)
	}
}

// fetchAll returns a command that reads every request concurrently and
// hands the payloads, in request order, to wrap. The first error cancels
// the remaining reads.
func (d *deps) fetchAll(reqs []nhl.Request, wrap func([]nhl.Payload, error) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		out := make([]nhl.Payload, len(reqs))
		g, ctx := errgroup.WithContext(d.ctx)
		for i, req := range reqs {
			g.Go(func() error {
				p, err := d.feed.Fetch(ctx, req)
				if err != nil {
					return err
				}
				out[i] = p
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return wrap(nil, err)
		}
		return wrap(out, nil)
	}
}
