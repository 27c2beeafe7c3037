package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/smileynet/faceoff/internal/nhl"
	"github.com/smileynet/faceoff/internal/refresh"
)

// testNow is 3 PM in New York on the day the fixtures are dated.
var testNow = time.Date(2026, 10, 18, 19, 0, 0, 0, time.UTC)

const testDay = "2026-10-18"

// stubFeed serves canned payloads by request path and records reads.
type stubFeed struct {
	mu           sync.Mutex
	payloads     map[string]nhl.Payload
	errs         map[string]error
	reads        map[string]int
	invalidation int
}

func newStubFeed() *stubFeed {
	return &stubFeed{
		payloads: make(map[string]nhl.Payload),
		errs:     make(map[string]error),
		reads:    make(map[string]int),
	}
}

func (f *stubFeed) set(req nhl.Request, p nhl.Payload) *stubFeed {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads[req.Path] = p
	delete(f.errs, req.Path)
	return f
}

func (f *stubFeed) fail(req nhl.Request, err error) *stubFeed {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[req.Path] = err
	return f
}

func (f *stubFeed) Fetch(_ context.Context, req nhl.Request) (nhl.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads[req.Path]++
	if err := f.errs[req.Path]; err != nil {
		return nil, err
	}
	if p, ok := f.payloads[req.Path]; ok {
		return p, nil
	}
	return nil, errors.New("no fixture for " + req.Path)
}

func (f *stubFeed) InvalidateAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidation++
}

func (f *stubFeed) readsOf(req nhl.Request) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[req.Path]
}

func (f *stubFeed) invalidations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invalidation
}

// instantTick fires immediately when its command runs.
func instantTick(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(testNow) }
}

// testDeps returns dependencies with a fixed clock, UTC zones and
// instant ticks.
func testDeps(feed Feed) *deps {
	return &deps{
		ctx:      context.Background(),
		feed:     feed,
		log:      zerolog.Nop(),
		interval: refresh.DefaultInterval,
		tick:     instantTick,
		now:      func() time.Time { return testNow },
		league:   time.UTC,
		local:    time.UTC,
	}
}

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

// execBatch executes a tea.Cmd, flattening nested batches, and returns all
// resulting messages. Spinner ticks are skipped to avoid infinite
// recursion.
func execBatch(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, execBatch(t, c)...)
		}
		return msgs
	}
	if _, isTick := msg.(spinner.TickMsg); isTick {
		return nil
	}
	return []tea.Msg{msg}
}

// isTickMsg reports whether msg is a refresh or countdown tick.
func isTickMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case refresh.RefreshMsg, refresh.CountdownMsg:
		return true
	}
	return false
}

// settle runs cmd and feeds every resulting data message back into s.
// Ticks and messages meant for the root model are returned instead.
func settle(t *testing.T, s Screen, cmd tea.Cmd) (Screen, []tea.Msg) {
	t.Helper()
	var rest []tea.Msg
	queue := execBatch(t, cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		switch msg.(type) {
		case pushMsg, popMsg, notifyMsg:
			rest = append(rest, msg)
			continue
		}
		if isTickMsg(msg) {
			rest = append(rest, msg)
			continue
		}
		var next tea.Cmd
		s, next = s.Update(msg)
		queue = append(queue, execBatch(t, next)...)
	}
	return s, rest
}

// openScreen initializes s, sizes it, and delivers its first load.
func openScreen(t *testing.T, s Screen, width, height int) (Screen, []tea.Msg) {
	t.Helper()
	cmd := s.Init()
	s, _ = s.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return settle(t, s, cmd)
}

// press sends a key to s and settles the result.
func press(t *testing.T, s Screen, k string) (Screen, []tea.Msg) {
	t.Helper()
	s, cmd := s.Update(keyMsg(k))
	return settle(t, s, cmd)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// findMsg returns the first message of type T in msgs.
func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// findNotice returns the first notification of the given level.
func findNotice(msgs []tea.Msg, level noticeLevel) (notifyMsg, bool) {
	for _, m := range msgs {
		if n, ok := m.(notifyMsg); ok && n.level == level {
			return n, true
		}
	}
	return notifyMsg{}, false
}

// collectKeys returns every key string bound in bindings.
func collectKeys(bindings []key.Binding) []string {
	var keys []string
	for _, b := range bindings {
		keys = append(keys, b.Keys()...)
	}
	return keys
}

func containsKey(keys []string, want string) bool {
	for _, k := range keys {
		if k == want {
			return true
		}
	}
	return false
}

// --- fixtures ---

func team(abbrev string, id, score int) nhl.Payload {
	return nhl.Payload{"id": float64(id), "abbrev": abbrev, "score": float64(score)}
}

func fixtureGame(id int, state string, away, home nhl.Payload) nhl.Payload {
	return nhl.Payload{
		"id":                float64(id),
		"gameState":         state,
		"gameScheduleState": "OK",
		"startTimeUTC":      "2026-10-18T23:00:00Z",
		"awayTeam":          away,
		"homeTeam":          home,
		"periodDescriptor":  nhl.Payload{"number": float64(2), "periodType": "REG"},
		"clock":             nhl.Payload{"timeRemaining": "12:34", "inIntermission": false},
	}
}

func schedulePayload(day string, games ...nhl.Payload) nhl.Payload {
	return nhl.Payload{"gameWeek": []nhl.Payload{
		{"date": "2026-10-17", "games": []nhl.Payload{fixtureGame(1, "OFF", team("AAA", 1, 1), team("BBB", 2, 2))}},
		{"date": day, "games": games},
	}}
}

func todaysGames() []nhl.Payload {
	postponed := fixtureGame(104, "FUT", team("PHI", 4, 0), team("NYR", 3, 0))
	postponed["gameScheduleState"] = "PPD"
	return []nhl.Payload{
		fixtureGame(101, "LIVE", team("TOR", 10, 2), team("MTL", 8, 1)),
		fixtureGame(102, "FUT", team("BOS", 6, 0), team("DAL", 25, 0)),
		fixtureGame(103, "FINAL", team("EDM", 22, 4), team("CGY", 20, 3)),
		postponed,
		fixtureGame(105, "PRE", team("VAN", 23, 0), team("SEA", 55, 0)),
	}
}
