package evolution

import (
	"fmt"
	"time"

	"github.com/courtside/franchise-sim/internal/domain/games"
	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/domain/teams"
	"github.com/courtside/franchise-sim/internal/logging"
	"github.com/courtside/franchise-sim/internal/rng"
	"github.com/courtside/franchise-sim/internal/timeutil"
)

// Fatigue brackets by minutes played. Short stints recover; heavy loads
// accumulate, modulated by stamina.
const (
	fatigueRestBracketMax   = 8.0
	fatigueLightBracketMax  = 20.0
	fatigueMediumBracketMax = 30.0

	fatigueRestRecovery = -10.0
	fatigueLightGain    = 8.0
	fatigueMediumGain   = 14.0
	fatigueHeavyGain    = 20.0

	// rookieWall amplifies fatigue gain mid-season of a rookie year.
	rookieWallStartGame = 50
	rookieWallEndGame   = 70
	rookieWallMult      = 1.5
)

// Morale deltas.
const (
	moraleWinDelta        = 2
	moraleLossDelta       = -2
	moraleStreakDelta     = 3
	moraleStreakGames     = 3
	moraleUnderused       = -3
	moraleOverDelivered   = 2
	hotHeadTrait          = "hot_head"
	hotHeadAmplifier      = 2
	underusedMinutesRatio = 0.5
	overusedMinutesRatio  = 1.25
)

// PostGameRequest carries one completed game into the pipeline.
type PostGameRequest struct {
	CampaignID string
	GameDate   string // YYYY-MM-DD
	Difficulty string
	IsPlayoff  bool

	HomeTeam *teams.Team
	AwayTeam *teams.Team
	Result   *games.Result
}

// PostGameResult returns updated clones plus narrative events.
type PostGameResult struct {
	// Players holds the updated copy of every processed roster player,
	// keyed by player id. Originals are never mutated.
	Players map[string]*players.Player
	Events  []Event
}

// ProcessPostGame runs the per-game evolution pass over both rosters.
func (p *Pipeline) ProcessPostGame(req PostGameRequest) (PostGameResult, error) {
	if req.Result == nil {
		return PostGameResult{}, fmt.Errorf("post-game pass needs a game result")
	}
	if req.HomeTeam == nil || req.AwayTeam == nil {
		return PostGameResult{}, fmt.Errorf("post-game pass needs both rosters")
	}

	out := PostGameResult{Players: make(map[string]*players.Player)}
	date := req.GameDate
	at := timeutil.ParseDateOrNow(date)

	homeWon := req.Result.WinnerID == req.HomeTeam.ID
	sides := []struct {
		team *teams.Team
		box  []games.BoxScoreLine
		won  bool
	}{
		{req.HomeTeam, req.Result.BoxScore.Home, homeWon},
		{req.AwayTeam, req.Result.BoxScore.Away, !homeWon},
	}

	for _, side := range sides {
		lines := make(map[string]games.BoxScoreLine, len(side.box))
		for _, l := range side.box {
			lines[l.PlayerID] = l
		}
		for _, original := range side.team.Players {
			if original == nil {
				continue
			}
			pl := original.Clone()
			line := lines[pl.ID]
			events := p.evolvePlayer(pl, side.team.ID, line, side.won, req, at)
			out.Players[pl.ID] = pl
			out.Events = append(out.Events, events...)
		}
	}

	logging.Info(p.log, "post-game evolution complete",
		logging.FieldGameID, req.Result.GameID,
		logging.FieldCount, len(out.Players),
		"events", len(out.Events),
	)
	return out, nil
}

// evolvePlayer applies the full per-game sequence to one cloned player.
func (p *Pipeline) evolvePlayer(pl *players.Player, teamID string, line games.BoxScoreLine, won bool, req PostGameRequest, at time.Time) []Event {
	var events []Event
	wasInjured := pl.IsInjured()

	if wasInjured {
		events = append(events, p.advanceInjury(pl, req.CampaignID, teamID, req.GameDate)...)
	}

	p.updateFatigue(pl, line.Minutes)

	if !wasInjured && line.Minutes > 0 {
		pl.SeasonGamesPlayed++
		pl.SeasonMinutesPlayed += line.Minutes

		if rng.Chance(p.src, InjuryProbability(pl, line.Minutes, req.IsPlayoff, at)) {
			pl.Injury = p.drawInjury()
			events = append(events, p.newEvent(req.CampaignID, pl.ID, teamID, EventInjury,
				fmt.Sprintf("%s injured", pl.Name()),
				fmt.Sprintf("%s suffered a %s (%s) and is expected to miss %d games.",
					pl.Name(), pl.Injury.Type, pl.Injury.Severity, pl.Injury.GamesRemaining),
				req.GameDate))
		}
	}

	p.updateMorale(pl, line.Minutes, won)

	if !pl.IsInjured() && line.Minutes > 0 {
		rating := performanceRating(line)
		p.developFromGame(pl, line, rating, req.Difficulty, req.GameDate)
		events = append(events, p.updateStreak(pl, teamID, rating, line.Minutes, req)...)
	}
	return events
}

// updateFatigue applies bracketed minute-based fatigue, modulated by stamina
// and the rookie wall.
func (p *Pipeline) updateFatigue(pl *players.Player, minutes float64) {
	stamina := float64(pl.Attributes.Get(players.CategoryPhysical, "stamina"))

	var delta float64
	switch {
	case minutes <= fatigueRestBracketMax:
		// Light or no duty is a recovery day; better stamina recovers faster.
		delta = fatigueRestRecovery * (stamina / 100.0)
	case minutes <= fatigueLightBracketMax:
		delta = fatigueLightGain
	case minutes <= fatigueMediumBracketMax:
		delta = fatigueMediumGain
	default:
		delta = fatigueHeavyGain
	}

	if delta > 0 {
		// High stamina dampens accumulation.
		delta *= (170.0 - stamina) / 100.0
		if pl.YearsPro == 0 &&
			pl.SeasonGamesPlayed >= rookieWallStartGame && pl.SeasonGamesPlayed <= rookieWallEndGame {
			delta *= rookieWallMult
		}
	}
	pl.Fatigue += delta
	pl.ClampFatigue()
}

// updateMorale folds the game outcome, the player's streak, and playing time
// versus expectation into morale. Hot-head personalities swing harder.
func (p *Pipeline) updateMorale(pl *players.Player, minutes float64, won bool) {
	delta := moraleLossDelta
	if won {
		delta = moraleWinDelta
	}

	if pl.StreakData != nil && pl.StreakData.Games >= moraleStreakGames {
		if pl.StreakData.Type == "hot" {
			delta += moraleStreakDelta
		} else {
			delta -= moraleStreakDelta
		}
	}

	expected := expectedMinutes(pl)
	if minutes < expected*underusedMinutesRatio {
		delta += moraleUnderused
	} else if minutes > expected*overusedMinutesRatio {
		delta += moraleOverDelivered
	}

	if pl.Personality.HasTrait(hotHeadTrait) {
		delta *= hotHeadAmplifier
	}
	pl.Personality.Morale += delta
	pl.ClampMorale()
}

// expectedMinutes maps a player's standing to the floor time they expect.
func expectedMinutes(pl *players.Player) float64 {
	switch {
	case pl.OverallRating >= 80:
		return 30
	case pl.OverallRating >= 70:
		return 18
	default:
		return 10
	}
}

// performanceRating is a PER-like per-minute rating of one box line.
func performanceRating(line games.BoxScoreLine) float64 {
	if line.Minutes <= 0 {
		return 0
	}
	missedFG := float64(line.FieldGoalsAtt - line.FieldGoalsMade)
	missedFT := float64(line.FreeThrowsAtt - line.FreeThrowsMade)
	score := float64(line.Points) +
		1.2*float64(line.Rebounds()) +
		1.5*float64(line.Assists) +
		2.0*float64(line.Steals) +
		2.0*float64(line.Blocks) -
		0.8*float64(line.Turnovers) -
		0.5*missedFG -
		0.3*missedFT
	return score / line.Minutes
}

// Per-36 stat thresholds that decide which categories a strong game favors.
const (
	per36PointsBar   = 18.0
	per36ReboundsBar = 9.0
	per36AssistsBar  = 6.0
	per36StocksBar   = 2.5 // steals + blocks
)

// developFromGame nudges attributes after an extreme game: strong outings
// favor the categories the player excelled in, weak long outings regress at
// most two categories.
func (p *Pipeline) developFromGame(pl *players.Player, line games.BoxScoreLine, rating float64, difficulty, date string) {
	tune := tuningFor(difficulty)
	minutesFactor := line.Minutes / 30.0
	if minutesFactor > 1 {
		minutesFactor = 1
	}

	if rating >= tune.DevThreshold {
		for _, category := range developmentCategories(line) {
			if !rng.Chance(p.src, minutesFactor) {
				continue
			}
			attr := p.pickAttribute(pl, category)
			applyAttributeDelta(pl, category, attr, 1, date, "development")
		}
		return
	}

	if rating <= tune.RegThreshold && line.Minutes >= tune.RegressionMinutesFloor {
		categories := regressionCategories(line)
		if len(categories) > 2 {
			categories = categories[:2]
		}
		for _, category := range categories {
			if !rng.Chance(p.src, minutesFactor) {
				continue
			}
			attr := p.pickAttribute(pl, category)
			applyAttributeDelta(pl, category, attr, -1, date, "regression")
		}
	}
}

// developmentCategories ranks the categories a strong game rewards.
func developmentCategories(line games.BoxScoreLine) []string {
	per36 := 36.0 / line.Minutes
	var out []string
	if float64(line.Points)*per36 >= per36PointsBar {
		out = append(out, players.CategoryOffense)
	}
	if float64(line.Rebounds())*per36 >= per36ReboundsBar ||
		float64(line.Steals+line.Blocks)*per36 >= per36StocksBar {
		out = append(out, players.CategoryDefense)
	}
	if float64(line.Assists)*per36 >= per36AssistsBar {
		out = append(out, players.CategoryMental)
	}
	if len(out) == 0 {
		// A high rating without a standout stat still earns a physical nudge.
		out = append(out, players.CategoryPhysical)
	}
	return out
}

// regressionCategories orders the categories a poor game punishes.
func regressionCategories(line games.BoxScoreLine) []string {
	var out []string
	if line.FieldGoalsAtt >= 8 && line.FieldGoalsMade*3 < line.FieldGoalsAtt {
		out = append(out, players.CategoryOffense)
	}
	if line.Turnovers >= 4 {
		out = append(out, players.CategoryMental)
	}
	out = append(out, players.CategoryDefense)
	return out
}

// Streak detection bounds.
const streakWindow = 3

// updateStreak appends the game to the bounded performance log and detects
// hot/cold runs of streakWindow consecutive games.
func (p *Pipeline) updateStreak(pl *players.Player, teamID string, rating, minutes float64, req PostGameRequest) []Event {
	pl.AppendPerformance(players.Performance{
		GameDate: req.GameDate,
		Rating:   rating,
		Minutes:  minutes,
	})

	tune := tuningFor(req.Difficulty)
	recent := pl.RecentPerformances
	if len(recent) < streakWindow {
		pl.StreakData = nil
		return nil
	}
	window := recent[len(recent)-streakWindow:]

	hot, cold := true, true
	for _, perf := range window {
		if perf.Rating < tune.DevThreshold {
			hot = false
		}
		if perf.Rating > tune.RegThreshold {
			cold = false
		}
	}

	switch {
	case hot:
		started := pl.StreakData == nil || pl.StreakData.Type != "hot"
		games := streakWindow
		if !started {
			games = pl.StreakData.Games + 1
		}
		pl.StreakData = &players.Streak{Type: "hot", Games: games}
		if started {
			return []Event{p.newEvent(req.CampaignID, pl.ID, teamID, EventStreak,
				fmt.Sprintf("%s is heating up", pl.Name()),
				fmt.Sprintf("%s has strung together %d strong games in a row.", pl.Name(), games),
				req.GameDate)}
		}
	case cold:
		started := pl.StreakData == nil || pl.StreakData.Type != "cold"
		games := streakWindow
		if !started {
			games = pl.StreakData.Games + 1
		}
		pl.StreakData = &players.Streak{Type: "cold", Games: games}
		if started {
			return []Event{p.newEvent(req.CampaignID, pl.ID, teamID, EventStreak,
				fmt.Sprintf("%s is in a slump", pl.Name()),
				fmt.Sprintf("%s has struggled for %d straight games.", pl.Name(), games),
				req.GameDate)}
		}
	default:
		pl.StreakData = nil
	}
	return nil
}
