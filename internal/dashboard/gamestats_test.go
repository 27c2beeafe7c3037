package dashboard

import (
	"math"
	"testing"

	"github.com/smileynet/faceoff/internal/nhl"
)

func boxscoreFixture() nhl.Payload {
	return nhl.Payload{
		"gameState": "LIVE",
		"awayTeam":  nhl.Payload{"id": 10.0, "abbrev": "TOR", "score": 3.0, "sog": 31.0},
		"homeTeam":  nhl.Payload{"id": 8.0, "abbrev": "MTL", "score": 2.0, "sog": 24.0},
		"playerByGameStats": nhl.Payload{
			"awayTeam": nhl.Payload{
				"forwards": []any{
					map[string]any{"hits": 2.0, "pim": 2.0, "faceoffWinningPctg": 0.6, "powerPlayGoals": 1.0},
					map[string]any{"hits": 1.0, "faceoffWinningPctg": 0.4},
					map[string]any{"hits": 0.0, "faceoffWinningPctg": 0.0},
				},
				"defense": []any{
					map[string]any{"blockedShots": 3.0, "giveaways": 1.0, "takeaways": 2.0, "pim": 4.0},
				},
				"goalies": []any{
					map[string]any{"pim": 2.0},
				},
			},
			"homeTeam": nhl.Payload{},
		},
	}
}

func TestAggregateTeam(t *testing.T) {
	got := aggregateTeam(boxscoreFixture(), "awayTeam")

	if got.Shots != 31 || got.Hits != 3 || got.PIM != 6 || got.Blocks != 3 ||
		got.Giveaways != 1 || got.Takeaways != 2 || got.PPGoals != 1 {
		t.Errorf("aggregateTeam() = %+v", got)
	}
	// Skaters without faceoffs do not drag the average down.
	if math.Abs(got.FaceoffPct-0.5) > 1e-9 {
		t.Errorf("FaceoffPct = %v, want 0.5", got.FaceoffPct)
	}

	empty := aggregateTeam(boxscoreFixture(), "homeTeam")
	if empty.Shots != 24 || empty.FaceoffPct != 0 || empty.Hits != 0 {
		t.Errorf("aggregateTeam(home) = %+v", empty)
	}
}

func TestStatLines(t *testing.T) {
	lines := statLines(teamTotals{Shots: 31, FaceoffPct: 0.5}, teamTotals{Shots: 24, FaceoffPct: 0.5})
	if len(lines) != 8 {
		t.Fatalf("lines = %d, want 8", len(lines))
	}
	if lines[0] != (statLine{"31", "Shots", "24"}) {
		t.Errorf("shots line = %+v", lines[0])
	}
	if lines[1] != (statLine{"50%", "Faceoff %", "50%"}) {
		t.Errorf("faceoff line = %+v", lines[1])
	}
}

func TestDescribePlay(t *testing.T) {
	roster := map[int]string{8478402: "C. McDavid", 8477934: "L. Draisaitl", 8479318: "A. Matthews"}
	play := func(kind string, details nhl.Payload) nhl.Payload {
		return nhl.Payload{"typeDescKey": kind, "details": details}
	}
	tests := []struct {
		name string
		play nhl.Payload
		desc string
		kind playKind
		ok   bool
	}{
		{
			name: "goal with assists by id",
			play: play("goal", nhl.Payload{"scoringPlayerId": 8478402.0, "assist1PlayerId": 8477934.0}),
			desc: "GOAL - C. McDavid (L. Draisaitl)", kind: playGoal, ok: true,
		},
		{
			name: "goal with embedded player",
			play: play("goal", nhl.Payload{"scoredBy": map[string]any{"name": map[string]any{"default": "Z. Hyman"}}}),
			desc: "GOAL - Z. Hyman", kind: playGoal, ok: true,
		},
		{
			name: "goal without scorer",
			play: play("goal", nhl.Payload{}),
			desc: "GOAL", kind: playGoal, ok: true,
		},
		{
			name: "penalty",
			play: play("penalty", nhl.Payload{"committedByPlayerId": 8479318.0, "descKey": "tripping", "duration": 2.0}),
			desc: "PENALTY - A. Matthews: tripping (2 min)", kind: playPenalty, ok: true,
		},
		{
			name: "bench penalty",
			play: play("penalty", nhl.Payload{"duration": 5.0}),
			desc: "PENALTY (5 min)", kind: playPenalty, ok: true,
		},
		{
			name: "shot on goal",
			play: play("shot-on-goal", nhl.Payload{"shootingPlayerId": 8478402.0}),
			desc: "Shot - C. McDavid", ok: true,
		},
		{
			name: "anonymous shot",
			play: play("shot-on-goal", nhl.Payload{}),
			desc: "Shot on goal", ok: true,
		},
		{
			name: "blocked shot",
			play: play("blocked-shot", nhl.Payload{}),
			desc: "Blocked shot", ok: true,
		},
		{
			name: "missed shot",
			play: play("missed-shot", nhl.Payload{"shootingPlayerId": 8479318.0}),
			desc: "Missed shot - A. Matthews", ok: true,
		},
		{
			name: "hit",
			play: play("hit", nhl.Payload{"hittingPlayerId": 8477934.0, "hitteePlayerId": 8479318.0}),
			desc: "Hit - L. Draisaitl on A. Matthews", ok: true,
		},
		{
			name: "giveaway",
			play: play("giveaway", nhl.Payload{"playerId": 8479318.0}),
			desc: "Giveaway - A. Matthews", ok: true,
		},
		{
			name: "faceoff",
			play: play("faceoff", nhl.Payload{"winningPlayerId": 8478402.0}),
			desc: "Faceoff won - C. McDavid", ok: true,
		},
		{
			name: "stoppage",
			play: play("stoppage", nhl.Payload{"reason": "icing"}),
			desc: "Stoppage - icing", ok: true,
		},
		{
			name: "unknown event",
			play: play("delayed-penalty", nhl.Payload{}),
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, kind, ok := describePlay(tt.play, roster)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if desc != tt.desc || kind != tt.kind {
				t.Errorf("describePlay() = (%q, %d), want (%q, %d)", desc, kind, tt.desc, tt.kind)
			}
		})
	}
}

func TestGroupPlays(t *testing.T) {
	p1 := nhl.Payload{"number": 1.0, "periodType": "REG"}
	p2 := nhl.Payload{"number": 2.0, "periodType": "REG"}
	at := func(pd nhl.Payload, clock, kind string, details nhl.Payload) nhl.Payload {
		return nhl.Payload{"periodDescriptor": pd, "timeInPeriod": clock, "typeDescKey": kind, "details": details}
	}
	plays := []nhl.Payload{
		at(p1, "00:00", "period-start", nil),
		at(p1, "00:00", "faceoff", nhl.Payload{"eventOwnerTeamId": 10.0}),
		at(p1, "05:12", "goal", nhl.Payload{"eventOwnerTeamId": 8.0, "scoringPlayerId": 1.0}),
		at(p1, "20:00", "period-end", nil),
		at(p2, "00:00", "period-start", nil),
		at(p2, "03:40", "hit", nhl.Payload{"eventOwnerTeamId": 10.0}),
	}
	teams := map[int]string{10: "TOR", 8: "MTL"}

	groups := groupPlays(plays, teams, map[int]string{1: "N. Suzuki"})

	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].heading != "2nd Period" || groups[1].heading != "1st Period" {
		t.Errorf("headings = %q, %q; want newest period first", groups[0].heading, groups[1].heading)
	}
	if len(groups[0].lines) != 1 || groups[0].lines[0].desc != "Hit" || groups[0].lines[0].team != "TOR" {
		t.Errorf("2nd period lines = %+v", groups[0].lines)
	}
	first := groups[1].lines
	if len(first) != 2 {
		t.Fatalf("1st period lines = %d, want 2", len(first))
	}
	if first[0].desc != "GOAL - N. Suzuki" || first[0].kind != playGoal || first[0].clock != "05:12" || first[0].team != "MTL" {
		t.Errorf("newest 1st period play = %+v", first[0])
	}
	if first[1].desc != "Faceoff" {
		t.Errorf("oldest 1st period play = %+v", first[1])
	}
}

func TestScoringSummary(t *testing.T) {
	landing := nhl.Payload{"summary": map[string]any{"scoring": []any{
		map[string]any{
			"periodDescriptor": map[string]any{"number": 1.0, "periodType": "REG"},
			"goals": []any{
				map[string]any{
					"name":    map[string]any{"default": "W. Nylander"},
					"assists": []any{map[string]any{"name": map[string]any{"default": "M. Marner"}}, map[string]any{}},
				},
			},
		},
		map[string]any{"periodDescriptor": map[string]any{"number": 2.0}, "goals": []any{}},
		map[string]any{
			"periodDescriptor": map[string]any{"number": 4.0, "periodType": "OT"},
			"goals":            []any{map[string]any{"name": map[string]any{"default": "C. Caufield"}}},
		},
	}}}

	goals := scoringSummary(landing)

	if len(goals) != 2 {
		t.Fatalf("goals = %d, want 2", len(goals))
	}
	if goalPeriod(goals[0].period) != "P1" || goalPeriod(goals[1].period) != "OT" {
		t.Errorf("periods = %q, %q", goalPeriod(goals[0].period), goalPeriod(goals[1].period))
	}
	if got := assistNames(goals[0].goal); len(got) != 1 || got[0] != "M. Marner" {
		t.Errorf("assistNames() = %v, want [M. Marner]", got)
	}
	if got := scoringSummary(nhl.Payload{}); got != nil {
		t.Errorf("scoringSummary(empty) = %v, want nil", got)
	}
}

func TestRosterNames(t *testing.T) {
	pbp := nhl.Payload{"rosterSpots": []any{
		map[string]any{"playerId": 1.0, "firstName": map[string]any{"default": "Auston"}, "lastName": map[string]any{"default": "Matthews"}},
		map[string]any{"firstName": "No", "lastName": "Id"},
	}}
	got := rosterNames(pbp)
	if len(got) != 1 || got[1] != "Auston Matthews" {
		t.Errorf("rosterNames() = %v", got)
	}
}
