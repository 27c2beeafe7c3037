package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/faceoff/internal/refresh"
)

// base holds what every screen shares: dependencies, its refresh
// controller, the body size and the load state.
type base struct {
	d       *deps
	ctrl    *refresh.Controller
	width   int
	height  int
	loading bool
	loaded  bool
	err     error
}

func newBase(d *deps, opts ...refresh.Option) base {
	return base{d: d, ctrl: d.controller(opts...), loading: true}
}

// Session returns the id of this screen instance.
func (b base) Session() uint64 { return b.ctrl.Session() }

// Subtitle returns the refresh countdown while polling.
func (b base) Subtitle() string { return b.ctrl.Subtitle() }

// Teardown stops the refresh timers.
func (b base) Teardown() { b.ctrl.Stop() }

// tick handles refresh and countdown ticks. reload is returned alongside
// the rescheduled tick when the refresh interval elapsed.
func (b base) tick(msg tea.Msg, reload func() tea.Cmd) tea.Cmd {
	action, cmd := b.ctrl.Update(msg)
	if action == refresh.ActionRefresh {
		b.d.log.Debug().Uint64("session", b.Session()).Msg("auto refresh")
		return tea.Batch(cmd, reload())
	}
	return cmd
}

// manualRefresh invalidates the cache, resets the countdown and reloads.
func (b *base) manualRefresh(reload func() tea.Cmd) tea.Cmd {
	b.ctrl.ManualRefresh()
	b.loading = true
	b.d.log.Debug().Uint64("session", b.Session()).Msg("manual refresh")
	return tea.Batch(reload(), notify(noticeInfo, "Refreshed"))
}

// isRefresh reports whether msg is the refresh key.
func isRefresh(msg tea.KeyMsg) bool {
	return key.Matches(msg, GlobalKeyMap().Refresh)
}

// loadFailed records a fetch error and returns the notification for it.
// Previously loaded data is kept.
func (b *base) loadFailed(what string, err error) tea.Cmd {
	b.loading = false
	b.err = err
	b.d.log.Warn().Err(err).Uint64("session", b.Session()).Msgf("loading %s", what)
	return notify(noticeError, "Error loading %s: %v", what, err)
}

// loadSucceeded clears the loading and error state.
func (b *base) loadSucceeded() {
	b.loading = false
	b.loaded = true
	b.err = nil
}

// loadingView renders the placeholder shown before the first load.
func (b base) loadingView(spin, what string) string {
	if b.err != nil {
		return "Error loading " + what + ": " + b.err.Error() + "\n\nPress r to retry"
	}
	return spin + " Loading " + what + "..."
}

// sizeViewport fits vp to the body minus reserved header lines.
func sizeViewport(vp *viewport.Model, width, height, reserved int) {
	vp.Width = width
	vp.Height = max(height-reserved, 1)
}

// tabSet tracks the active tab of a tabbed screen.
type tabSet struct {
	labels []string
	active int
}

func (t *tabSet) next() { t.active = (t.active + 1) % len(t.labels) }
func (t *tabSet) prev() { t.active = (t.active + len(t.labels) - 1) % len(t.labels) }

// view renders the tab strip. It takes tabLines lines.
func (t tabSet) view() string { return renderTabs(t.labels, t.active) }

// tabLines is the height of a rendered tab strip.
const tabLines = 2
