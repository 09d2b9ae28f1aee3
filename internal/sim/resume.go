package sim

import (
	"fmt"
	"time"

	"github.com/courtside/franchise-sim/internal/domain/games"
	"github.com/courtside/franchise-sim/internal/domain/teams"
)

// SimulateQuarter advances a resumable game by one period and returns the
// period result plus the serializable state to persist. After the fourth
// quarter, tied games continue into overtime periods; otherwise the game
// finalizes.
func (s *Simulator) SimulateQuarter() (games.QuarterResult, games.State, error) {
	if s.phase == games.PhaseComplete {
		return games.QuarterResult{}, games.State{}, fmt.Errorf("game %s is already complete", s.gameID)
	}
	if s.phase == games.PhaseInit {
		if err := s.initGame(); err != nil {
			return games.QuarterResult{}, games.State{}, err
		}
	}
	if len(s.home.lineup) < teams.LineupSlots || len(s.away.lineup) < teams.LineupSlots {
		return games.QuarterResult{}, games.State{}, fmt.Errorf(
			"cannot start quarter %d: home lineup has %d players, away lineup has %d players",
			s.quarter+1, len(s.home.lineup), len(s.away.lineup))
	}

	quarter := s.quarter + 1
	length := float64(quarterSeconds)
	if quarter > regulationQuarters {
		if s.homeScore != s.awayScore {
			s.phase = games.PhaseComplete
			return games.QuarterResult{}, games.State{}, fmt.Errorf("game %s is already decided", s.gameID)
		}
		s.overtimePeriods++
		length = overtimeSeconds
	}

	startHome, startAway := s.homeScore, s.awayScore
	pbpStart := len(s.playByPlay)
	s.runQuarter(quarter, length)

	completed := quarter >= regulationQuarters && s.homeScore != s.awayScore
	if completed {
		s.phase = games.PhaseComplete
	}

	result := games.QuarterResult{
		Quarter:    quarter,
		HomePoints: s.homeScore - startHome,
		AwayPoints: s.awayScore - startAway,
		HomeScore:  s.homeScore,
		AwayScore:  s.awayScore,
		Completed:  completed,
		PlayByPlay: append([]games.PlayByPlayEntry(nil), s.playByPlay[pbpStart:]...),
	}
	return result, s.Snapshot(), nil
}

// FinalResult returns the full-game payload once the game is complete.
func (s *Simulator) FinalResult() (*games.Result, error) {
	if s.phase != games.PhaseComplete {
		return nil, fmt.Errorf("game %s is not complete (phase %s)", s.gameID, s.phase)
	}
	return s.buildResult(), nil
}

// Snapshot serializes the current game state.
func (s *Simulator) Snapshot() games.State {
	return games.State{
		Version:         games.StateVersion,
		GameID:          s.gameID,
		Phase:           s.phase,
		Quarter:         s.quarter,
		HomeScore:       s.homeScore,
		AwayScore:       s.awayScore,
		QuarterScores:   append([]games.QuarterScore(nil), s.quarterScores...),
		Home:            s.teamState(s.home),
		Away:            s.teamState(s.away),
		Possessions:     s.possessions,
		OvertimePeriods: s.overtimePeriods,
		LiveGame:        s.opts.LiveGame,
		UserTeamID:      s.opts.UserTeamID,
		LastUpdated:     time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *Simulator) teamState(rt *teamRuntime) games.TeamState {
	snapshots := make([]games.PlayerSnapshot, 0, len(rt.team.Players))
	for _, p := range rt.team.Players {
		if p == nil {
			continue
		}
		snapshots = append(snapshots, games.PlayerSnapshot{
			ID:       p.ID,
			Name:     p.Name(),
			Position: string(p.Position),
			Overall:  p.OverallRating,
			Fatigue:  p.Fatigue,
			Injured:  p.IsInjured(),
		})
	}
	return games.TeamState{
		TeamID:    rt.team.ID,
		Lineup:    append([]string(nil), rt.lineup...),
		BoxScore:  append([]games.BoxScoreLine(nil), rt.box...),
		Snapshots: snapshots,
		Scheme: games.SchemeState{
			Offensive:    rt.scheme.Offensive,
			Defensive:    rt.scheme.Defensive,
			Substitution: rt.scheme.Substitution,
		},
		Substitution: games.SubstitutionState{
			Strategy:      rt.strategy,
			TargetMinutes: rt.targetMinutes,
			StarterIDs:    append([]string(nil), rt.lineup...),
		},
	}
}

// NewFromState rebuilds a simulator from a persisted state so the caller can
// resume mid-game. Rosters are supplied fresh; the state carries the scores,
// box scores, lineups and rotation bookkeeping.
func NewFromState(st games.State, home, away *teams.Team, opts Options, deps Deps) (*Simulator, error) {
	opts.LiveGame = st.LiveGame
	if st.UserTeamID != "" {
		opts.UserTeamID = st.UserTeamID
	}

	s, err := New(home, away, opts, deps)
	if err != nil {
		return nil, err
	}
	if st.Home.TeamID != home.ID || st.Away.TeamID != away.ID {
		return nil, fmt.Errorf("state teams %s/%s do not match supplied rosters %s/%s",
			st.Home.TeamID, st.Away.TeamID, home.ID, away.ID)
	}

	s.gameID = st.GameID
	s.phase = st.Phase
	if s.phase == "" {
		s.phase = games.PhaseBetweenQuarters
	}
	s.quarter = st.Quarter
	s.homeScore = st.HomeScore
	s.awayScore = st.AwayScore
	s.quarterScores = append([]games.QuarterScore(nil), st.QuarterScores...)
	s.possessions = st.Possessions
	s.overtimePeriods = st.OvertimePeriods
	s.homeHasBall = st.Possessions%2 == 0

	if err := s.home.restore(st.Home); err != nil {
		return nil, err
	}
	if err := s.away.restore(st.Away); err != nil {
		return nil, err
	}
	return s, nil
}

// restore applies one side's serialized fields onto the runtime.
func (rt *teamRuntime) restore(st games.TeamState) error {
	rt.initBoxScore()
	for _, line := range st.BoxScore {
		if i, ok := rt.boxIndex[line.PlayerID]; ok {
			rt.box[i] = line
		}
	}

	rt.lineup = append([]string(nil), st.Lineup...)
	if len(rt.lineup) == 0 {
		rt.lineup = buildLineup(rt.team, st.Substitution.StarterIDs)
	}

	if st.Scheme.Offensive != "" {
		rt.scheme.Offensive = st.Scheme.Offensive
	}
	if st.Scheme.Defensive != "" {
		rt.scheme.Defensive = st.Scheme.Defensive
	}
	if st.Scheme.Substitution != "" {
		rt.scheme.Substitution = st.Scheme.Substitution
	}
	rt.strategy = st.Substitution.Strategy
	if rt.strategy == "" {
		rt.strategy = rt.scheme.Substitution
	}
	rt.targetMinutes = st.Substitution.TargetMinutes
	if len(rt.targetMinutes) == 0 {
		rt.targetMinutes = map[string]float64{}
	}
	return nil
}
