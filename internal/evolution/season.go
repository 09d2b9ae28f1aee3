package evolution

import (
	"fmt"

	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/logging"
	"github.com/courtside/franchise-sim/internal/rng"
	"github.com/courtside/franchise-sim/internal/timeutil"
)

// Retirement tuning. The roll only begins past the age floor; low-rated
// veterans retire much sooner than stars.
const (
	retirementAgeFloor    = 34
	retirementPerYear     = 0.12
	retirementLowRating   = 72
	retirementRatingBonus = 0.02 // per point below the rating bar
	retirementMaxChance   = 0.90
)

// seasonalAging is applied once at season end, on top of the monthly curve.
var seasonalAging = []ageProfile{
	{maxAge: 24, offense: 1, defense: 1, physical: 0, mental: 1},
	{maxAge: 28, offense: 0, defense: 0, physical: 0, mental: 1},
	{maxAge: 32, offense: -1, defense: -1, physical: -1, mental: 0},
	{maxAge: 99, offense: -1, defense: -1, physical: -2, mental: 0},
}

func seasonalProfileFor(age int) ageProfile {
	for _, p := range seasonalAging {
		if age <= p.maxAge {
			return p
		}
	}
	return seasonalAging[len(seasonalAging)-1]
}

// TeamSeason is one team's roster for the season-end pass.
type TeamSeason struct {
	TeamID  string
	Players []*players.Player
}

// SeasonEndRequest drives the season-end pass.
type SeasonEndRequest struct {
	CampaignID  string
	CurrentDate string // YYYY-MM-DD
	Season      int
	Teams       []TeamSeason
}

// SeasonEndResult returns updated clones, the ids of players who retired,
// and retirement events.
type SeasonEndResult struct {
	Players map[string]*players.Player
	Retired []string
	Events  []Event
}

// ProcessSeasonEnd resets season counters, applies one year of aging,
// advances contracts and service time, and rolls retirements.
func (p *Pipeline) ProcessSeasonEnd(req SeasonEndRequest) (SeasonEndResult, error) {
	if len(req.Teams) == 0 {
		return SeasonEndResult{}, fmt.Errorf("season-end pass needs at least one team")
	}
	at := timeutil.ParseDateOrNow(req.CurrentDate)

	out := SeasonEndResult{Players: make(map[string]*players.Player)}
	for _, team := range req.Teams {
		for _, original := range team.Players {
			if original == nil {
				continue
			}
			pl := original.Clone()

			pl.Fatigue = 0
			pl.SeasonGamesPlayed = 0
			pl.SeasonMinutesPlayed = 0
			pl.StreakData = nil
			pl.RecentPerformances = nil

			profile := seasonalProfileFor(pl.Age(at))
			for _, category := range players.CategoryNames {
				delta := int(profile.base(category))
				step := 1
				if delta < 0 {
					step = -1
					delta = -delta
				}
				for i := 0; i < delta; i++ {
					attr := p.pickAttribute(pl, category)
					applyAttributeDelta(pl, category, attr, step, req.CurrentDate, "offseason")
				}
			}
			recomputeOverall(pl)

			pl.YearsPro++
			if pl.Contract.YearsRemaining > 0 {
				pl.Contract.YearsRemaining--
			}

			if rng.Chance(p.src, retirementChance(pl.Age(at), pl.OverallRating)) {
				out.Retired = append(out.Retired, pl.ID)
				out.Events = append(out.Events, p.newEvent(req.CampaignID, pl.ID, team.TeamID, EventRetirement,
					fmt.Sprintf("%s announces retirement", pl.Name()),
					fmt.Sprintf("After %d seasons, %s is calling it a career at age %d.",
						pl.YearsPro, pl.Name(), pl.Age(at)),
					req.CurrentDate))
			}
			out.Players[pl.ID] = pl
		}
	}

	logging.Info(p.log, "season-end pass complete",
		"season", req.Season,
		logging.FieldCount, len(out.Players),
		"retired", len(out.Retired),
	)
	return out, nil
}

// retirementChance grows with each year past the floor and with how far a
// veteran's rating has fallen.
func retirementChance(age, overall int) float64 {
	if age < retirementAgeFloor {
		return 0
	}
	chance := float64(age-retirementAgeFloor+1) * retirementPerYear
	if overall < retirementLowRating {
		chance += float64(retirementLowRating-overall) * retirementRatingBonus
	}
	if chance > retirementMaxChance {
		chance = retirementMaxChance
	}
	return chance
}
