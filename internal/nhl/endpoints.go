package nhl

import (
	"fmt"
	"time"
)

// Cache lifetimes for feed responses.
const (
	DefaultTTL = 30 * time.Second
	LiveTTL    = 10 * time.Second
)

// Request identifies a read against the feed. Path (including any query)
// is the cache key. A zero TTL means the client default.
type Request struct {
	Path string
	TTL  time.Duration
}

func live(path string) Request {
	return Request{Path: path, TTL: LiveTTL}
}

// Schedule returns the league schedule for the week containing date
// (YYYY-MM-DD). An empty date means today.
func Schedule(date string) Request {
	if date == "" {
		return Request{Path: "/schedule/now"}
	}
	return Request{Path: "/schedule/" + date}
}

// Scoreboard returns the current scoreboard.
func Scoreboard() Request {
	return live("/scoreboard/now")
}

// Boxscore returns the box score for a game.
func Boxscore(gameID int) Request {
	return live(fmt.Sprintf("/gamecenter/%d/boxscore", gameID))
}

// PlayByPlay returns every recorded play for a game.
func PlayByPlay(gameID int) Request {
	return live(fmt.Sprintf("/gamecenter/%d/play-by-play", gameID))
}

// GameLanding returns the summary page for a game: scoring summary for
// played games, matchup comparisons for upcoming ones.
func GameLanding(gameID int) Request {
	return live(fmt.Sprintf("/gamecenter/%d/landing", gameID))
}

// Standings returns league standings as of date. An empty date means now.
func Standings(date string) Request {
	if date == "" {
		return Request{Path: "/standings/now"}
	}
	return Request{Path: "/standings/" + date}
}

// SkaterLeaders returns the current skater stat leaders.
func SkaterLeaders() Request {
	return Request{Path: "/skater-stats-leaders/current"}
}

// GoalieLeaders returns the current goalie stat leaders.
func GoalieLeaders() Request {
	return Request{Path: "/goalie-stats-leaders/current"}
}

// Roster returns the current roster for a team abbreviation such as "TOR".
func Roster(team string) Request {
	return Request{Path: fmt.Sprintf("/roster/%s/current", team)}
}

// TeamWeekSchedule returns a team's schedule for the current week.
func TeamWeekSchedule(team string) Request {
	return Request{Path: fmt.Sprintf("/club-schedule/%s/week/now", team)}
}

// TeamMonthSchedule returns a team's schedule for the month containing
// month, including games already played.
func TeamMonthSchedule(team string, month time.Time) Request {
	return Request{Path: fmt.Sprintf("/club-schedule/%s/month/%s", team, month.Format("2006-01"))}
}

// TeamStats returns current aggregate stats for a team's players.
func TeamStats(team string) Request {
	return Request{Path: fmt.Sprintf("/club-stats/%s/now", team)}
}

// PlayerLanding returns bio and featured stats for a player.
func PlayerLanding(playerID int) Request {
	return Request{Path: fmt.Sprintf("/player/%d/landing", playerID)}
}

// PlayerGameLog returns a player's game log for the current season.
func PlayerGameLog(playerID int) Request {
	return Request{Path: fmt.Sprintf("/player/%d/game-log/now", playerID)}
}
