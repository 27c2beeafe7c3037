package dashboard

import (
	"fmt"
	"strings"

	"github.com/smileynet/faceoff/internal/nhl"
)

// teamTotals are game stats summed over a team's skaters.
type teamTotals struct {
	Shots      int
	Hits       int
	PIM        int
	Blocks     int
	Giveaways  int
	Takeaways  int
	PPGoals    int
	FaceoffPct float64
}

// aggregateTeam sums skater stats from a box score for side ("awayTeam" or
// "homeTeam"). The faceoff percentage is the mean over skaters who took
// faceoffs. Shots come from the team's own sog field.
func aggregateTeam(boxscore nhl.Payload, side string) teamTotals {
	t := teamTotals{Shots: boxscore.Map(side).Int("sog", 0)}
	skaters := boxscore.Map("playerByGameStats").Map(side)

	var foSum float64
	var foTakers int
	for _, group := range []string{"forwards", "defense"} {
		for _, p := range skaters.List(group) {
			t.Hits += p.Int("hits", 0)
			t.PIM += p.Int("pim", 0)
			t.Blocks += p.Int("blockedShots", 0)
			t.Giveaways += p.Int("giveaways", 0)
			t.Takeaways += p.Int("takeaways", 0)
			t.PPGoals += p.Int("powerPlayGoals", 0)
			if fo := p.Float("faceoffWinningPctg", 0); fo > 0 {
				foSum += fo
				foTakers++
			}
		}
	}
	if foTakers > 0 {
		t.FaceoffPct = foSum / float64(foTakers)
	}
	return t
}

// statLine is one row of the side-by-side game stats table.
type statLine struct {
	away, label, home string
}

func statLines(away, home teamTotals) []statLine {
	return []statLine{
		{fmt.Sprint(away.Shots), "Shots", fmt.Sprint(home.Shots)},
		{pct(away.FaceoffPct), "Faceoff %", pct(home.FaceoffPct)},
		{fmt.Sprint(away.PPGoals), "Power Play Goals", fmt.Sprint(home.PPGoals)},
		{fmt.Sprint(away.PIM), "PIM", fmt.Sprint(home.PIM)},
		{fmt.Sprint(away.Hits), "Hits", fmt.Sprint(home.Hits)},
		{fmt.Sprint(away.Blocks), "Blocked Shots", fmt.Sprint(home.Blocks)},
		{fmt.Sprint(away.Giveaways), "Giveaways", fmt.Sprint(home.Giveaways)},
		{fmt.Sprint(away.Takeaways), "Takeaways", fmt.Sprint(home.Takeaways)},
	}
}

// scoredGoal is a scoring summary entry with the period it was scored in.
type scoredGoal struct {
	period nhl.Payload
	goal   nhl.Payload
}

// scoringSummary flattens landing.summary.scoring into goals in order.
func scoringSummary(landing nhl.Payload) []scoredGoal {
	var out []scoredGoal
	for _, period := range landing.Map("summary").List("scoring") {
		pd := period.Map("periodDescriptor")
		for _, g := range period.List("goals") {
			out = append(out, scoredGoal{period: pd, goal: g})
		}
	}
	return out
}

// assistNames lists the named assists of a scoring summary goal.
func assistNames(goal nhl.Payload) []string {
	var names []string
	for _, a := range goal.List("assists") {
		if n := personName(a); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// rosterNames maps player ids to names from a play-by-play rosterSpots list.
func rosterNames(pbp nhl.Payload) map[int]string {
	names := make(map[int]string)
	for _, spot := range pbp.List("rosterSpots") {
		if id := spot.Int("playerId", 0); id != 0 {
			names[id] = personName(spot)
		}
	}
	return names
}

// playKind selects the style of a play-by-play line.
type playKind int

const (
	playPlain playKind = iota
	playGoal
	playPenalty
)

// skippedPlays carry no information worth a line.
var skippedPlays = map[string]bool{
	"game-end":     true,
	"period-start": true,
	"period-end":   true,
}

// describePlay renders a play's description. ok is false for event types
// that are not shown.
func describePlay(play nhl.Payload, roster map[int]string) (desc string, kind playKind, ok bool) {
	details := play.Map("details")
	name := func(keys ...string) string { return detailPlayer(details, roster, keys...) }
	with := func(label, who string) string {
		if who == "" {
			return label
		}
		return label + " - " + who
	}

	switch play.Str("typeDescKey", "") {
	case "goal":
		desc = with("GOAL", name("scoringPlayerTotal", "scoredBy", "scoringPlayerId"))
		var assists []string
		for _, k := range [][]string{{"assist1PlayerTotal", "assist1PlayerId"}, {"assist2PlayerTotal", "assist2PlayerId"}} {
			if a := name(k...); a != "" {
				assists = append(assists, a)
			}
		}
		if len(assists) > 0 {
			desc += " (" + strings.Join(assists, ", ") + ")"
		}
		return desc, playGoal, true
	case "penalty":
		minutes := details.Int("duration", 2)
		if who := name("committedByPlayer", "committedByPlayerId"); who != "" {
			return fmt.Sprintf("PENALTY - %s: %s (%d min)", who, details.Str("descKey", "penalty"), minutes), playPenalty, true
		}
		return fmt.Sprintf("PENALTY (%d min)", minutes), playPenalty, true
	case "shot-on-goal":
		if who := name("shootingPlayer", "shootingPlayerId"); who != "" {
			return "Shot - " + who, playPlain, true
		}
		return "Shot on goal", playPlain, true
	case "blocked-shot":
		return with("Blocked shot", name("blockingPlayer", "blockingPlayerId")), playPlain, true
	case "missed-shot":
		return with("Missed shot", name("shootingPlayer", "shootingPlayerId")), playPlain, true
	case "hit":
		hitter := name("hittingPlayer", "hittingPlayerId")
		hittee := name("hitteePlayer", "hitteePlayerId")
		if hitter != "" && hittee != "" {
			return "Hit - " + hitter + " on " + hittee, playPlain, true
		}
		return with("Hit", hitter), playPlain, true
	case "giveaway":
		return with("Giveaway", name("playerId")), playPlain, true
	case "takeaway":
		return with("Takeaway", name("playerId")), playPlain, true
	case "faceoff":
		if who := name("winningPlayer", "winningPlayerId"); who != "" {
			return "Faceoff won - " + who, playPlain, true
		}
		return "Faceoff", playPlain, true
	case "stoppage":
		return with("Stoppage", details.Str("reason", "")), playPlain, true
	}
	return "", playPlain, false
}

// detailPlayer resolves the first present key to a name. A key may hold a
// player object, a plain name, or a player id looked up in roster.
func detailPlayer(details nhl.Payload, roster map[int]string, keys ...string) string {
	for _, k := range keys {
		switch v := details[k].(type) {
		case map[string]any:
			return nhl.Payload(v).Localized("name", "")
		case nhl.Payload:
			return v.Localized("name", "")
		case string:
			return v
		case float64, int:
			return roster[details.Int(k, 0)]
		}
	}
	return ""
}

// periodPlays is a play-by-play section under one period heading.
type periodPlays struct {
	heading string
	lines   []playLine
}

type playLine struct {
	clock string
	team  string
	desc  string
	kind  playKind
}

// groupPlays lists plays newest first under period headings. teams maps
// team ids to abbreviations.
func groupPlays(plays []nhl.Payload, teams map[int]string, roster map[int]string) []periodPlays {
	var out []periodPlays
	for i := len(plays) - 1; i >= 0; i-- {
		play := plays[i]
		heading := periodHeading(play.Map("periodDescriptor"))
		if len(out) == 0 || out[len(out)-1].heading != heading {
			out = append(out, periodPlays{heading: heading})
		}
		if skippedPlays[play.Str("typeDescKey", "")] {
			continue
		}
		desc, kind, ok := describePlay(play, roster)
		if !ok {
			continue
		}
		cur := &out[len(out)-1]
		cur.lines = append(cur.lines, playLine{
			clock: play.Str("timeInPeriod", ""),
			team:  teams[play.Map("details").Int("eventOwnerTeamId", 0)],
			desc:  desc,
			kind:  kind,
		})
	}
	return out
}
