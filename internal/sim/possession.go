package sim

import (
	"fmt"
	"log/slog"

	"github.com/courtside/franchise-sim/internal/badges"
	"github.com/courtside/franchise-sim/internal/coaching"
	"github.com/courtside/franchise-sim/internal/domain/games"
	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/logging"
	"github.com/courtside/franchise-sim/internal/playbook"
	"github.com/courtside/franchise-sim/internal/rng"
	"github.com/courtside/franchise-sim/internal/rotation"
)

// Rebounding balance: the defense owns position, so its strength is scaled
// up and the offensive-rebound probability is clamped to a narrow band.
const (
	defReboundAdvantage = 2.5
	offReboundProbMin   = 0.15
	offReboundProbMax   = 0.40
)

var reboundPositionWeight = map[players.Position]float64{
	players.Center:        1.3,
	players.PowerForward:  1.2,
	players.SmallForward:  1.0,
	players.ShootingGuard: 0.8,
	players.PointGuard:    0.7,
}

// runQuarter plays one period to zero on the clock.
func (s *Simulator) runQuarter(quarter int, lengthSeconds float64) {
	s.quarter = quarter
	s.phase = games.PhaseInQuarter
	startHome, startAway := s.homeScore, s.awayScore

	remaining := lengthSeconds
	sinceSubCheck := 0.0
	for remaining > 0 {
		duration := rng.Range(s.src, possessionMinSeconds, possessionMaxSeconds)
		if duration > remaining {
			duration = remaining
		}
		s.runPossession(quarter, duration, remaining)
		remaining -= duration
		sinceSubCheck += duration
		if sinceSubCheck >= subCheckSeconds {
			sinceSubCheck -= subCheckSeconds
			s.rotationCheck(quarter, remaining)
		}
	}

	s.quarterScores = append(s.quarterScores, games.QuarterScore{
		Quarter: quarter,
		Home:    s.homeScore - startHome,
		Away:    s.awayScore - startAway,
	})
	s.phase = games.PhaseBetweenQuarters
}

func (s *Simulator) sides() (offense, defense *teamRuntime) {
	if s.homeHasBall {
		return s.home, s.away
	}
	return s.away, s.home
}

func (s *Simulator) scoreFor(rt *teamRuntime) int {
	if rt == s.home {
		return s.homeScore
	}
	return s.awayScore
}

// runPossession resolves one trip down the floor.
func (s *Simulator) runPossession(quarter int, duration, remaining float64) {
	off, def := s.sides()
	onOff := lineupPlayers(off.team, off.lineup)
	onDef := lineupPlayers(def.team, def.lineup)
	if len(onOff) == 0 || len(onDef) == 0 {
		return
	}

	offScheme := coaching.OffensiveSchemeByName(off.scheme.Offensive)
	transition := rng.Chance(s.src, offScheme.TransitionFrequency)

	play, err := s.catalog.Select(playbook.Situation{
		OnCourt:    onOff,
		Scheme:     offScheme,
		Transition: transition,
		ShotClock:  duration,
		ScoreDiff:  s.scoreFor(off) - s.scoreFor(def),
	}, s.src)
	if err != nil {
		logging.Warn(s.log, "play selection failed", slog.String(logging.FieldGameID, s.gameID), slog.String("error", err.Error()))
		s.flipPossession()
		return
	}

	mods := coaching.CalculateDefensiveModifiers(def.scheme.Defensive, play.Category, play.Tags)
	out, err := s.executor.Execute(playbook.Request{
		Play:             play,
		Offense:          onOff,
		Defense:          onDef,
		Modifiers:        mods,
		OffenseChemistry: off.chemistry,
		DefenseChemistry: def.chemistry,
		Frames:           s.opts.GenerateAnimation,
	}, s.src)
	if err != nil {
		logging.Warn(s.log, "play execution failed", slog.String(logging.FieldGameID, s.gameID), slog.String("error", err.Error()))
		s.flipPossession()
		return
	}

	s.possessions++
	s.accrueMinutes(off, def, duration)

	beforeDiff := s.homeScore - s.awayScore
	s.applyOutcome(off, def, play, out)
	s.trackClutch(off, quarter, remaining, beforeDiff, out)
	s.recordPlayByPlay(off, def, quarter, remaining, out)

	if s.opts.GenerateAnimation {
		s.animation = append(s.animation, out.Frames...)
	}
	for _, act := range out.Activations {
		s.countSynergy(act)
	}

	if out.Terminal == playbook.TerminalMissedShot && out.FreeThrowsAtt == 0 {
		if s.resolveRebound(off, def, onOff, onDef) {
			return // offensive board, same team keeps the ball
		}
	}
	s.flipPossession()
}

func (s *Simulator) flipPossession() {
	s.homeHasBall = !s.homeHasBall
}

// accrueMinutes charges the possession's clock to everyone on the floor.
func (s *Simulator) accrueMinutes(off, def *teamRuntime, durationSeconds float64) {
	minutes := durationSeconds / 60.0
	for _, rt := range []*teamRuntime{off, def} {
		for _, id := range rt.lineup {
			if l := rt.line(id); l != nil {
				l.Minutes += minutes
			}
		}
	}
}

// applyOutcome folds the executed play into score and box score state.
func (s *Simulator) applyOutcome(off, def *teamRuntime, play *playbook.Play, out playbook.Outcome) {
	if shooter := off.line(out.ShooterID); shooter != nil {
		shooter.Points += out.Points
		shooter.FreeThrowsMade += out.FreeThrowsMade
		shooter.FreeThrowsAtt += out.FreeThrowsAtt

		three := out.ShotCategory == badges.ShotThreePoint
		switch out.Terminal {
		case playbook.TerminalMadeShot:
			shooter.FieldGoalsMade++
			shooter.FieldGoalsAtt++
			if three {
				shooter.ThreePointersMade++
				shooter.ThreePointersAtt++
			}
		case playbook.TerminalMissedShot:
			// A shooting foul on a miss awards free throws instead of a
			// field-goal attempt.
			if out.FreeThrowsAtt == 0 {
				shooter.FieldGoalsAtt++
				if three {
					shooter.ThreePointersAtt++
				}
			}
		}
	}
	if l := off.line(out.AssistID); l != nil {
		l.Assists++
	}
	if l := off.line(out.TurnoverID); l != nil {
		l.Turnovers++
	}
	if l := def.line(out.StealerID); l != nil {
		l.Steals++
	}
	if l := def.line(out.BlockerID); l != nil {
		l.Blocks++
	}
	if l := def.line(out.FouledByID); l != nil {
		l.Fouls++
	}

	if out.Points > 0 {
		if off == s.home {
			s.homeScore += out.Points
		} else {
			s.awayScore += out.Points
		}
		for _, id := range off.lineup {
			if l := off.line(id); l != nil {
				l.PlusMinus += out.Points
			}
		}
		for _, id := range def.lineup {
			if l := def.line(id); l != nil {
				l.PlusMinus -= out.Points
			}
		}
	}
}

// resolveRebound decides the board on a live miss, returning true when the
// offense keeps the ball.
func (s *Simulator) resolveRebound(off, def *teamRuntime, onOff, onDef []*players.Player) bool {
	offWeights := reboundWeights(onOff)
	defWeights := reboundWeights(onDef)

	offStrength := sum(offWeights)
	defStrength := sum(defWeights) * defReboundAdvantage
	prob := offReboundProbMin
	if offStrength+defStrength > 0 {
		prob = offStrength / (offStrength + defStrength)
	}
	if prob < offReboundProbMin {
		prob = offReboundProbMin
	}
	if prob > offReboundProbMax {
		prob = offReboundProbMax
	}

	if rng.Chance(s.src, prob) {
		if idx := rng.WeightedIndex(s.src, offWeights); idx >= 0 {
			if l := off.line(onOff[idx].ID); l != nil {
				l.OffRebounds++
			}
		}
		return true
	}
	if idx := rng.WeightedIndex(s.src, defWeights); idx >= 0 {
		if l := def.line(onDef[idx].ID); l != nil {
			l.DefRebounds++
		}
	}
	return false
}

func reboundWeights(onCourt []*players.Player) []float64 {
	weights := make([]float64, len(onCourt))
	for i, p := range onCourt {
		posWeight := reboundPositionWeight[p.Position]
		if posWeight == 0 {
			posWeight = 1.0
		}
		weights[i] = float64(p.Attributes.Get(players.CategoryDefense, "rebounding")) * posWeight
	}
	return weights
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}

// trackClutch records late scoring plays that tie, flip, or keep the game
// within the clutch margin.
func (s *Simulator) trackClutch(off *teamRuntime, quarter int, remaining float64, beforeDiff int, out playbook.Outcome) {
	if quarter < regulationQuarters || remaining > clutchWindowSeconds || out.Points == 0 {
		return
	}
	afterDiff := s.homeScore - s.awayScore
	tied := afterDiff == 0
	leadChange := (beforeDiff > 0) != (afterDiff > 0) && beforeDiff != 0
	tight := abs(afterDiff) <= clutchMargin
	if !tied && !leadChange && !tight {
		return
	}

	shooter, ok := off.team.PlayerByID(out.ShooterID)
	if !ok {
		return
	}
	s.clutch = &games.ClutchPlay{
		PlayerID:   shooter.ID,
		PlayerName: shooter.Name(),
		TeamID:     off.team.ID,
		ShotType:   out.ShotCategory,
		Points:     out.Points,
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// recordPlayByPlay appends one narrative entry for the possession.
func (s *Simulator) recordPlayByPlay(off, def *teamRuntime, quarter int, remaining float64, out playbook.Outcome) {
	desc := describeOutcome(off, def, out)
	if desc == "" {
		return
	}
	s.playByPlay = append(s.playByPlay, games.PlayByPlayEntry{
		Quarter:     quarter,
		Clock:       remaining / 60.0,
		TeamID:      off.team.ID,
		Description: desc,
		HomeScore:   s.homeScore,
		AwayScore:   s.awayScore,
	})
}

func describeOutcome(off, def *teamRuntime, out playbook.Outcome) string {
	shooter := playerName(off, out.ShooterID)
	switch out.Terminal {
	case playbook.TerminalMadeShot:
		desc := fmt.Sprintf("%s %s", shooter, shotVerb(out.ShotCategory))
		if out.AssistID != "" {
			desc += fmt.Sprintf(" (%s assists)", playerName(off, out.AssistID))
		}
		if out.FreeThrowsAtt > 0 {
			desc += fmt.Sprintf(", and-one: %d of %d from the line", out.FreeThrowsMade, out.FreeThrowsAtt)
		}
		return desc
	case playbook.TerminalMissedShot:
		if out.BlockerID != "" {
			return fmt.Sprintf("%s blocks %s", playerName(def, out.BlockerID), shooter)
		}
		if out.FreeThrowsAtt > 0 {
			return fmt.Sprintf("%s is fouled shooting, hits %d of %d free throws",
				shooter, out.FreeThrowsMade, out.FreeThrowsAtt)
		}
		return fmt.Sprintf("%s misses %s", shooter, shotNoun(out.ShotCategory))
	case playbook.TerminalTurnover:
		handler := playerName(off, out.TurnoverID)
		if out.StealerID != "" {
			return fmt.Sprintf("%s steals the ball from %s", playerName(def, out.StealerID), handler)
		}
		return fmt.Sprintf("%s turns it over", handler)
	}
	return ""
}

func playerName(rt *teamRuntime, id string) string {
	if p, ok := rt.team.PlayerByID(id); ok {
		return p.Name()
	}
	return "unknown"
}

func shotVerb(category string) string {
	switch category {
	case badges.ShotThreePoint:
		return "hits a three-pointer"
	case badges.ShotPaint:
		return "scores inside"
	default:
		return "makes a mid-range jumper"
	}
}

func shotNoun(category string) string {
	switch category {
	case badges.ShotThreePoint:
		return "a three-pointer"
	case badges.ShotPaint:
		return "a shot inside"
	default:
		return "a mid-range jumper"
	}
}

// countSynergy folds one activation into the per-game synergy counters.
func (s *Simulator) countSynergy(act badges.Activation) {
	key := act.Synergy.BadgeA + "|" + act.Synergy.BadgeB + "|" + act.HolderA + "|" + act.HolderB
	if existing, ok := s.synergies[key]; ok {
		existing.Count++
		return
	}
	s.synergies[key] = &games.SynergyActivation{
		BadgeA:  act.Synergy.BadgeA,
		BadgeB:  act.Synergy.BadgeB,
		PlayerA: act.HolderA,
		PlayerB: act.HolderB,
		Effect:  act.Synergy.Effect,
		Count:   1,
	}
}

// rotationCheck runs the substitution engine for both teams.
func (s *Simulator) rotationCheck(quarter int, remainingSeconds float64) {
	for _, pair := range []struct {
		rt  *teamRuntime
		opp *teamRuntime
	}{{s.home, s.away}, {s.away, s.home}} {
		res := rotation.Evaluate(rotation.Request{
			Team:           pair.rt.team,
			OnCourt:        pair.rt.lineup,
			MinutesPlayed:  pair.rt.minutesPlayed(),
			TargetMinutes:  pair.rt.targetMinutes,
			Strategy:       pair.rt.strategy,
			Quarter:        quarter,
			TimeRemaining:  remainingSeconds / 60.0,
			ScoreDiff:      s.scoreFor(pair.rt) - s.scoreFor(pair.opp),
			UserControlled: pair.rt.userControlled,
		})
		pair.rt.lineup = res.Lineup
		s.substitutions += len(res.Changes)
	}
}
