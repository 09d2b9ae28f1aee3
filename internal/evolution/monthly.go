package evolution

import (
	"fmt"
	"time"

	"github.com/courtside/franchise-sim/internal/badges"
	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/logging"
	"github.com/courtside/franchise-sim/internal/timeutil"
)

// Monthly development modulators. Each one shifts the growth multiplier
// applied to an age bracket's baseline gains.
const (
	workEthicDivisor  = 100.0
	moraleDivisor     = 200.0
	moraleCenter      = 70.0
	heavyMinutesBonus = 0.15
	lightMinutesDrag  = 0.15
	heavyMinutesBar   = 28.0
	lightMinutesBar   = 15.0

	mentorshipBonus = 0.2
	mentorMaxAge    = 24
	mentorMinVetAge = 30
	mentorTrait     = "mentor"

	breakoutGainBar = 3
	declineLossBar  = 2
)

// ageProfile is one age bracket's baseline monthly drift per category,
// in attribute points. Positive values grow, negative values decay.
type ageProfile struct {
	maxAge   int
	offense  float64
	defense  float64
	physical float64
	mental   float64
}

var ageProfiles = []ageProfile{
	{maxAge: 24, offense: 0.8, defense: 0.7, physical: 0.5, mental: 0.9},
	{maxAge: 28, offense: 0.3, defense: 0.3, physical: 0.1, mental: 0.5},
	{maxAge: 32, offense: -0.1, defense: -0.1, physical: -0.4, mental: 0.3},
	{maxAge: 99, offense: -0.5, defense: -0.4, physical: -0.9, mental: 0.1},
}

func profileFor(age int) ageProfile {
	for _, p := range ageProfiles {
		if age <= p.maxAge {
			return p
		}
	}
	return ageProfiles[len(ageProfiles)-1]
}

func (ap ageProfile) base(category string) float64 {
	switch category {
	case players.CategoryOffense:
		return ap.offense
	case players.CategoryDefense:
		return ap.defense
	case players.CategoryPhysical:
		return ap.physical
	case players.CategoryMental:
		return ap.mental
	}
	return 0
}

// TeamMonthly is one team's roster for the monthly pass.
type TeamMonthly struct {
	TeamID  string
	Players []*players.Player
}

// MonthlyRequest drives one monthly development pass.
type MonthlyRequest struct {
	CampaignID  string
	CurrentDate string // YYYY-MM-DD
	Difficulty  string
	Month       int
	Teams       []TeamMonthly
}

// MonthlyResult returns updated clones and breakout or decline events.
type MonthlyResult struct {
	Players map[string]*players.Player
	Events  []Event
}

// ProcessMonthly runs age-curve development across every roster. Gains are
// modulated by work ethic, playing time, morale, mentorship, and badge
// synergies; losses follow the age curve directly.
func (p *Pipeline) ProcessMonthly(req MonthlyRequest) (MonthlyResult, error) {
	if len(req.Teams) == 0 {
		return MonthlyResult{}, fmt.Errorf("monthly pass needs at least one team")
	}
	at := timeutil.ParseDateOrNow(req.CurrentDate)

	out := MonthlyResult{Players: make(map[string]*players.Player)}
	for _, team := range req.Teams {
		duos := p.registry.DynamicDuos(team.Players)
		for _, original := range team.Players {
			if original == nil {
				continue
			}
			pl := original.Clone()
			net := p.developMonthly(pl, team.Players, duos, req.CurrentDate, at)
			recomputeOverall(pl)
			out.Players[pl.ID] = pl

			switch {
			case net >= breakoutGainBar:
				out.Events = append(out.Events, p.newEvent(req.CampaignID, pl.ID, team.TeamID, EventBreakout,
					fmt.Sprintf("%s is breaking out", pl.Name()),
					fmt.Sprintf("%s gained %d attribute points this month and looks like a different player.", pl.Name(), net),
					req.CurrentDate))
			case net <= -declineLossBar:
				out.Events = append(out.Events, p.newEvent(req.CampaignID, pl.ID, team.TeamID, EventDecline,
					fmt.Sprintf("%s is slowing down", pl.Name()),
					fmt.Sprintf("%s lost %d attribute points this month as age catches up.", pl.Name(), -net),
					req.CurrentDate))
			}
		}
	}

	logging.Info(p.log, "monthly development complete",
		"month", req.Month,
		logging.FieldCount, len(out.Players),
	)
	return out, nil
}

// developMonthly applies one month of drift to every category and returns
// the net applied delta.
func (p *Pipeline) developMonthly(pl *players.Player, roster []*players.Player, duos [][2]string, date string, at time.Time) int {
	profile := profileFor(pl.Age(at))
	factor := p.growthFactor(pl, roster, duos, at)

	net := 0
	for _, category := range players.CategoryNames {
		base := profile.base(category)
		if base > 0 {
			base *= factor
		}
		delta := p.probRound(base)
		step := 1
		if delta < 0 {
			step = -1
			delta = -delta
		}
		for i := 0; i < delta; i++ {
			attr := p.pickAttribute(pl, category)
			net += applyAttributeDelta(pl, category, attr, step, date, "development")
		}
	}
	return net
}

// growthFactor composes the positive-drift multiplier for one player.
func (p *Pipeline) growthFactor(pl *players.Player, roster []*players.Player, duos [][2]string, at time.Time) float64 {
	factor := 1.0

	workEthic := float64(pl.Attributes.Get(players.CategoryMental, "workEthic"))
	factor += (workEthic - float64(players.DefaultAttribute)) / workEthicDivisor

	perGame := 0.0
	if pl.SeasonGamesPlayed > 0 {
		perGame = pl.SeasonMinutesPlayed / float64(pl.SeasonGamesPlayed)
	}
	switch {
	case perGame >= heavyMinutesBar:
		factor += heavyMinutesBonus
	case perGame < lightMinutesBar:
		factor -= lightMinutesDrag
	}

	if hasMentor(pl, roster, at) {
		factor += mentorshipBonus
	}

	factor += p.registry.DevelopmentBoost(pl, roster)
	if badges.InDynamicDuo(duos, pl.ID) {
		factor += badges.DynamicDuoBoost
	}

	factor += (float64(pl.Personality.Morale) - moraleCenter) / moraleDivisor

	if factor < 0 {
		factor = 0
	}
	return factor
}

// hasMentor reports whether a young player shares the roster with a
// mentor-trait veteran.
func hasMentor(pl *players.Player, roster []*players.Player, at time.Time) bool {
	if pl.Age(at) > mentorMaxAge {
		return false
	}
	for _, vet := range roster {
		if vet == nil || vet.ID == pl.ID {
			continue
		}
		if vet.Age(at) >= mentorMinVetAge && vet.Personality.HasTrait(mentorTrait) {
			return true
		}
	}
	return false
}
