package dashboard

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/smileynet/faceoff/internal/nhl"
)

// gameState is the feed's gameState code.
type gameState string

const (
	stateFuture   gameState = "FUT"
	statePre      gameState = "PRE"
	stateLive     gameState = "LIVE"
	stateCritical gameState = "CRIT"
	stateFinal    gameState = "FINAL"
	stateOff      gameState = "OFF"
)

func stateOf(game nhl.Payload) gameState {
	return gameState(game.Str("gameState", string(stateFuture)))
}

func (s gameState) live() bool     { return s == stateLive || s == stateCritical }
func (s gameState) final() bool    { return s == stateFinal || s == stateOff }
func (s gameState) upcoming() bool { return s == stateFuture || s == statePre }

// polls reports whether a game in this state changes often enough to poll.
func (s gameState) polls() bool { return s == statePre || s.live() }

// Schedule states that block opening a game.
const (
	schedulePostponed = "PPD"
	scheduleCancelled = "CNCL"
)

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	}
	return fmt.Sprintf("%dth", n)
}

// periodLabel renders a periodDescriptor as "2nd", "OT" or "SO".
func periodLabel(pd nhl.Payload) string {
	switch pd.Str("periodType", "REG") {
	case "OT":
		return "OT"
	case "SO":
		return "SO"
	}
	return ordinal(pd.Int("number", 0))
}

// periodHeading renders a periodDescriptor as a play-by-play section title.
func periodHeading(pd nhl.Payload) string {
	switch pd.Str("periodType", "REG") {
	case "OT":
		return "Overtime"
	case "SO":
		return "Shootout"
	}
	return ordinal(pd.Int("number", 0)) + " Period"
}

// goalPeriod renders a periodDescriptor for the scoring summary: "P2", "OT".
func goalPeriod(pd nhl.Payload) string {
	switch t := pd.Str("periodType", "REG"); t {
	case "OT", "SO":
		return t
	}
	return fmt.Sprintf("P%d", pd.Int("number", 0))
}

// statusText describes where a game stands: start time, period and clock,
// or final result.
func statusText(game nhl.Payload, local *time.Location) string {
	switch game.Str("gameScheduleState", "OK") {
	case schedulePostponed:
		return "Postponed"
	case scheduleCancelled:
		return "Cancelled"
	}

	state := stateOf(game)
	switch {
	case state == stateFuture:
		if t := localTime(game.Str("startTimeUTC", ""), local); t != "" {
			return t
		}
		return "Scheduled"
	case state == statePre:
		return "Pre-game"
	case state.live():
		period := periodLabel(game.Map("periodDescriptor"))
		clock := game.Map("clock")
		if clock.Bool("inIntermission", false) {
			return period + " INT"
		}
		if remaining := clock.Str("timeRemaining", ""); remaining != "" {
			return period + " " + remaining
		}
		return period
	case state.final():
		switch game.Map("periodDescriptor").Str("periodType", "REG") {
		case "OT":
			return "Final/OT"
		case "SO":
			return "Final/SO"
		}
		return "Final"
	}
	return string(state)
}

// localTime converts an RFC 3339 UTC start time to "07:00 PM EDT" in loc.
// Zones without an abbreviation are shown as a UTC offset.
func localTime(utc string, loc *time.Location) string {
	if utc == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, utc)
	if err != nil {
		return ""
	}
	t = t.In(loc)
	zone, _ := t.Zone()
	if zone == "" || zone[0] == '+' || zone[0] == '-' {
		zone = "UTC" + t.Format("-07:00")
	}
	return t.Format("03:04 PM") + " " + zone
}

// dayLabel renders the schedule header: "Today - October 18, 2026".
func dayLabel(day, today time.Time) string {
	var label string
	switch {
	case sameDay(day, today):
		label = "Today"
	case sameDay(day, today.AddDate(0, 0, -1)):
		label = "Yesterday"
	case sameDay(day, today.AddDate(0, 0, 1)):
		label = "Tomorrow"
	default:
		label = day.Format("Monday")
	}
	return label + " - " + day.Format("January 02, 2006")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dateOnly truncates t to midnight in its own location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// personName returns a player's display name from either a localized
// "name" field or first and last name fields.
func personName(p nhl.Payload) string {
	if name := p.Localized("name", ""); name != "" {
		return name
	}
	return strings.TrimSpace(p.Localized("firstName", "") + " " + p.Localized("lastName", ""))
}

// shortName renders "C. McDavid".
func shortName(p nhl.Payload) string {
	first := p.Localized("firstName", "")
	last := p.Localized("lastName", "")
	if first == "" {
		return last
	}
	r := []rune(first)
	return string(r[0]) + ". " + last
}

var titleCaser = cases.Title(language.English)

// titleCase turns a feed key such as "plusMinus" or "power_play" into
// "Plus Minus" or "Power Play".
func titleCase(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
		case i > 0 && unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return titleCaser.String(b.String())
}

// clockFromSeconds renders a time-on-ice value as "M:SS".
func clockFromSeconds(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func fixed(f float64, places int) string {
	return fmt.Sprintf("%.*f", places, f)
}

// pct renders a ratio as a whole percentage: 0.534 -> "53%".
func pct(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// signed renders a plus/minus value with an explicit sign.
func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

// column describes one fixed-width table column.
type column struct {
	title string
	width int
	right bool
}

// cell pads or truncates s to exactly w display columns.
func cell(s string, w int, right bool) string {
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	if right {
		return runewidth.FillLeft(s, w)
	}
	return runewidth.FillRight(s, w)
}

func tableRow(cols []column, vals []string) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		v := ""
		if i < len(vals) {
			v = vals[i]
		}
		cells[i] = cell(v, c.width, c.right)
	}
	return strings.Join(cells, " ")
}

func tableHeader(cols []column) string {
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	return headerRowStyle.Render(tableRow(cols, titles))
}

// tableWidth returns the rendered width of a row of cols.
func tableWidth(cols []column) int {
	w := len(cols) - 1
	for _, c := range cols {
		w += c.width
	}
	return max(w, 0)
}
