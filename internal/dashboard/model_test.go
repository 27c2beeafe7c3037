package dashboard

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/smileynet/faceoff/internal/nhl"
)

// noTick never fires; refresh chains stop after being scheduled.
func noTick(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }

func dashboardFeed() *stubFeed {
	return scheduleFeed().
		set(nhl.Standings(""), nhl.Payload{"standings": standingsFixture()}).
		set(nhl.Boxscore(liveGameID), boxscoreFixture()).
		set(nhl.PlayByPlay(liveGameID), nhl.Payload{}).
		set(nhl.GameLanding(liveGameID), nhl.Payload{})
}

func newTestModel(feed Feed) Model {
	return NewModel(feed,
		WithTick(noTick),
		WithClock(func() time.Time { return testNow }),
		WithLocations(time.UTC, time.UTC),
	)
}

// drive runs cmd through m until no more messages are produced. The
// dismissal timer of a notification is not started.
func drive(t *testing.T, m Model, cmd tea.Cmd) (Model, []tea.Msg) {
	t.Helper()
	var seen []tea.Msg
	queue := execBatch(t, cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		seen = append(seen, msg)
		if _, ok := msg.(tea.QuitMsg); ok || isTickMsg(msg) {
			continue
		}
		next, c := m.Update(msg)
		m = next.(Model)
		if _, ok := msg.(notifyMsg); ok {
			continue
		}
		queue = append(queue, execBatch(t, c)...)
	}
	return m, seen
}

// startedModel returns a sized model whose root schedule has loaded.
func startedModel(t *testing.T, feed Feed) Model {
	t.Helper()
	m := newTestModel(feed)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = drive(t, next.(Model), m.Init())
	return m
}

func sendKey(t *testing.T, m Model, k string) (Model, []tea.Msg) {
	t.Helper()
	next, cmd := m.Update(keyMsg(k))
	return drive(t, next.(Model), cmd)
}

func TestNewModel_ScheduleAtRoot(t *testing.T) {
	m := newTestModel(dashboardFeed())

	if m.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", m.Depth())
	}
	if got := m.top().Title(); got != "Schedule" {
		t.Errorf("root = %q, want Schedule", got)
	}
	if m.View() != "Initializing..." {
		t.Errorf("View() before sizing = %q", m.View())
	}
}

func TestModel_RootLoads(t *testing.T) {
	m := startedModel(t, dashboardFeed())

	view := m.View()
	for _, want := range []string{"Faceoff", "Schedule", "Refreshing in 30s", "Today - October 18, 2026", "TOR", "quit"} {
		if !containsPlainText(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if containsPlainText(view, "back") {
		t.Error("root help should not offer back")
	}
}

func TestModel_PushAndPop(t *testing.T) {
	// Given: the schedule at the root
	m := startedModel(t, dashboardFeed())

	// When: opening standings
	m, _ = sendKey(t, m, "s")

	// Then: standings is on top and back is offered
	if m.Depth() != 2 || m.top().Title() != "Standings" {
		t.Fatalf("depth %d top %q, want standings pushed", m.Depth(), m.top().Title())
	}
	view := m.View()
	if !containsPlainText(view, "Wild Card") || !containsPlainText(view, "back") {
		t.Error("standings view should show tabs and a back hint")
	}
	if !containsPlainText(view, "Eastern Conference") {
		t.Error("pushed screen should load and size itself")
	}

	// When: going back
	m, _ = sendKey(t, m, "esc")

	// Then: the schedule is revealed, still loaded
	if m.Depth() != 1 || !containsPlainText(m.View(), "TOR") {
		t.Errorf("depth %d after back, want the loaded schedule", m.Depth())
	}

	// Back on the root is a no-op.
	m, _ = sendKey(t, m, "b")
	if m.Depth() != 1 {
		t.Errorf("Depth() = %d after back on root", m.Depth())
	}
}

func TestModel_PopStopsScreenRefresh(t *testing.T) {
	m := startedModel(t, dashboardFeed())

	// Open the live game at the cursor; it polls.
	m, _ = sendKey(t, m, "enter")
	game, ok := m.top().(gameScreen)
	if !ok {
		t.Fatalf("top = %T, want gameScreen", m.top())
	}
	if !game.ctrl.Active() {
		t.Fatal("live game should poll")
	}

	m, _ = sendKey(t, m, "esc")

	if game.ctrl.Active() {
		t.Error("popping the game should stop its refresh")
	}
	if !m.top().(scheduleScreen).ctrl.Active() {
		t.Error("the schedule underneath keeps polling")
	}
}

func TestModel_DiscardsMessagesForClosedScreens(t *testing.T) {
	// Given: standings opened and closed again
	m := startedModel(t, dashboardFeed())
	m, _ = sendKey(t, m, "s")
	closed := m.top().Session()
	m, _ = sendKey(t, m, "esc")

	// When: a late result for it arrives
	next, cmd := m.Update(standingsMsg{session: closed, teams: standingsFixture()})

	// Then: nothing happens
	if cmd != nil {
		t.Error("a message for a closed screen should produce no command")
	}
	if next.(Model).Depth() != 1 || next.(Model).top().Title() != "Schedule" {
		t.Error("stack should be unchanged")
	}
}

func TestModel_RoutesToCoveredScreen(t *testing.T) {
	// Given: standings covering the schedule
	m := startedModel(t, dashboardFeed())
	m, _ = sendKey(t, m, "s")
	root := m.stack[0].(scheduleScreen)

	// When: a schedule result arrives for the covered root
	one := []nhl.Payload{fixtureGame(900, "FUT", team("SJS", 28, 0), team("ANA", 24, 0))}
	next, _ := m.Update(scheduleMsg{session: root.Session(), date: root.date, games: one})
	m = next.(Model)

	// Then: the root took it and the top screen is untouched
	if got := m.stack[0].(scheduleScreen).games; len(got) != 1 || got[0].Int("id", 0) != 900 {
		t.Errorf("root games = %v, want the routed result", got)
	}
	if m.top().Title() != "Standings" {
		t.Errorf("top = %q, want Standings", m.top().Title())
	}
}

func TestModel_Notifications(t *testing.T) {
	m := startedModel(t, dashboardFeed())

	next, cmd := m.Update(notifyMsg{text: "first", level: noticeInfo})
	if cmd == nil {
		t.Fatal("a notification should schedule its dismissal")
	}
	next, _ = next.Update(notifyMsg{text: "second", level: noticeWarn})
	m = next.(Model)
	if !containsPlainText(m.View(), "second") {
		t.Fatal("latest notification should be shown")
	}

	// A stale dismissal leaves the newer notification up.
	next, _ = m.Update(dismissNoticeMsg{id: 1})
	m = next.(Model)
	if !containsPlainText(m.View(), "second") {
		t.Error("stale dismissal should not clear the newer notice")
	}

	next, _ = m.Update(dismissNoticeMsg{id: 2})
	m = next.(Model)
	if containsPlainText(m.View(), "second") {
		t.Error("matching dismissal should clear the notice")
	}

	// x clears it by hand.
	next, _ = m.Update(notifyMsg{text: "third"})
	m, _ = sendKey(t, next.(Model), "x")
	if containsPlainText(m.View(), "third") {
		t.Error("x should dismiss the notice")
	}
}

func TestModel_QuitTearsDownEveryScreen(t *testing.T) {
	m := startedModel(t, dashboardFeed())
	m, _ = sendKey(t, m, "enter")
	root := m.stack[0].(scheduleScreen)
	game := m.top().(gameScreen)

	next, cmd := m.Update(keyMsg("q"))

	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if root.ctrl.Active() || game.ctrl.Active() {
		t.Error("every screen's refresh should stop on quit")
	}
	if next.(Model).View() != "" {
		t.Error("view should be empty once quitting")
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := startedModel(t, dashboardFeed())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestModel_ResizeReachesBody(t *testing.T) {
	m := startedModel(t, dashboardFeed())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = next.(Model)

	s := m.top().(scheduleScreen)
	if s.width != 80 || s.height != 30-titleBarHeight-noticeHeight-helpBarHeight {
		t.Errorf("body = %dx%d, want 80x%d", s.width, s.height, 30-titleBarHeight-noticeHeight-helpBarHeight)
	}
}

// TestModel_Teatest_OpenStandings drives the program end to end via teatest.
func TestModel_Teatest_OpenStandings(t *testing.T) {
	tm := teatest.NewTestModel(t, newTestModel(dashboardFeed()), teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("TOR"))
	}, teatest.WithDuration(2*time.Second))

	tm.Send(keyMsg("s"))
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Eastern Conference"))
	}, teatest.WithDuration(2*time.Second))

	tm.Send(keyMsg("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(Model)
	if final.Depth() != 2 || final.top().Title() != "Standings" {
		t.Errorf("final depth %d top %q, want standings open", final.Depth(), final.top().Title())
	}
	if !final.quitting {
		t.Error("final model should be quitting")
	}
}
