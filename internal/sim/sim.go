// Package sim orchestrates basketball game simulation: full games in one
// call, or quarter-by-quarter with serializable state in between.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/courtside/franchise-sim/internal/badges"
	"github.com/courtside/franchise-sim/internal/domain/games"
	"github.com/courtside/franchise-sim/internal/domain/teams"
	"github.com/courtside/franchise-sim/internal/logging"
	"github.com/courtside/franchise-sim/internal/playbook"
	"github.com/courtside/franchise-sim/internal/rng"
)

// Game clock constants, in seconds.
const (
	quarterSeconds       = 12 * 60
	overtimeSeconds      = 5 * 60
	possessionMinSeconds = 10.0
	possessionMaxSeconds = 24.0
	subCheckSeconds      = 120.0

	regulationQuarters = 4
)

// Clutch-play tracking bounds.
const (
	clutchWindowSeconds = 120.0
	clutchMargin        = 3
)

// Chemistry maps morale to a small assist/steal probability delta.
const (
	chemistryMax          = 0.03
	chemistryMoraleCenter = 80.0
	chemistryMoraleScale  = 20.0
)

// Options mirror the caller-supplied simulation knobs.
type Options struct {
	UserTeamID        string
	UserLineup        []string
	GenerateAnimation bool
	LiveGame          bool

	// TargetMinutes overrides minute budgets per team id.
	TargetMinutes map[string]map[string]float64

	// CoachingAdjustments overrides a team's saved scheme for this game.
	CoachingAdjustments map[string]teams.CoachingScheme

	Difficulty string
}

// Deps are the simulator's collaborators. Catalog and Registry are required;
// a nil Executor gets the default graph executor and a nil RNG gets a
// crypto-seeded source.
type Deps struct {
	Catalog  *playbook.Catalog
	Registry *badges.Registry
	Executor playbook.Executor
	RNG      rng.Source
	Logger   *slog.Logger
}

// teamRuntime is one side's mutable in-game state.
type teamRuntime struct {
	team   *teams.Team
	scheme teams.CoachingScheme

	lineup        []string
	targetMinutes map[string]float64
	strategy      string

	box      []games.BoxScoreLine
	boxIndex map[string]int

	chemistry      float64
	userControlled bool
}

// Simulator owns all mutable state for exactly one game. It must not be
// shared across concurrent games.
type Simulator struct {
	gameID string
	opts   Options

	home *teamRuntime
	away *teamRuntime

	catalog  *playbook.Catalog
	registry *badges.Registry
	executor playbook.Executor
	src      rng.Source
	log      *slog.Logger

	phase           games.Phase
	quarter         int
	homeScore       int
	awayScore       int
	quarterScores   []games.QuarterScore
	possessions     int
	overtimePeriods int
	substitutions   int

	homeHasBall bool

	playByPlay []games.PlayByPlayEntry
	animation  []games.AnimationFrame
	synergies  map[string]*games.SynergyActivation
	clutch     *games.ClutchPlay
}

// New builds a simulator in the Init phase.
func New(home, away *teams.Team, opts Options, deps Deps) (*Simulator, error) {
	if home == nil || away == nil {
		return nil, fmt.Errorf("simulator needs two teams")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("simulator needs a play catalog")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("simulator needs a badge registry")
	}
	if deps.RNG == nil {
		deps.RNG = rng.New()
	}
	if deps.Executor == nil {
		deps.Executor = playbook.NewGraphExecutor(deps.Registry)
	}

	s := &Simulator{
		gameID:    uuid.NewString(),
		opts:      opts,
		catalog:   deps.Catalog,
		registry:  deps.Registry,
		executor:  deps.Executor,
		src:       deps.RNG,
		log:       deps.Logger,
		phase:     games.PhaseInit,
		synergies: map[string]*games.SynergyActivation{},
	}
	s.home = s.newTeamRuntime(home)
	s.away = s.newTeamRuntime(away)
	return s, nil
}

// GameID returns the simulator's game identity.
func (s *Simulator) GameID() string {
	return s.gameID
}

// Substitutions reports how many lineup changes the rotation engine applied
// since this simulator was constructed.
func (s *Simulator) Substitutions() int {
	return s.substitutions
}

func (s *Simulator) newTeamRuntime(team *teams.Team) *teamRuntime {
	scheme := team.CoachingScheme
	if adj, ok := s.opts.CoachingAdjustments[team.ID]; ok {
		if adj.Offensive != "" {
			scheme.Offensive = adj.Offensive
		}
		if adj.Defensive != "" {
			scheme.Defensive = adj.Defensive
		}
		if adj.Substitution != "" {
			scheme.Substitution = adj.Substitution
		}
	}
	return &teamRuntime{
		team:           team,
		scheme:         scheme,
		strategy:       scheme.Substitution,
		chemistry:      chemistryModifier(team.AverageMorale()),
		userControlled: s.opts.LiveGame && s.opts.UserTeamID == team.ID,
	}
}

// chemistryModifier maps average morale to a probability delta in
// [-chemistryMax, chemistryMax], neutral at the default morale.
func chemistryModifier(avgMorale float64) float64 {
	mod := (avgMorale - chemistryMoraleCenter) / chemistryMoraleScale * chemistryMax
	if mod > chemistryMax {
		return chemistryMax
	}
	if mod < -chemistryMax {
		return -chemistryMax
	}
	return mod
}

// SimulateGame runs a complete game: four quarters plus overtimes until the
// scores differ. Full-sim games never end tied.
func (s *Simulator) SimulateGame() (*games.Result, error) {
	if err := s.initGame(); err != nil {
		return nil, err
	}
	for q := 1; q <= regulationQuarters; q++ {
		s.runQuarter(q, quarterSeconds)
	}
	for s.homeScore == s.awayScore {
		s.overtimePeriods++
		s.runQuarter(regulationQuarters+s.overtimePeriods, overtimeSeconds)
	}
	s.phase = games.PhaseComplete

	result := s.buildResult()
	logging.Info(s.log, "game simulated",
		slog.String(logging.FieldGameID, s.gameID),
		slog.Int("homeScore", s.homeScore),
		slog.Int("awayScore", s.awayScore),
		slog.Int("possessions", s.possessions),
		slog.Int("overtimes", s.overtimePeriods),
	)
	return result, nil
}

// initGame builds lineups, zeroes box scores and resolves target minutes.
func (s *Simulator) initGame() error {
	if s.phase != games.PhaseInit {
		return fmt.Errorf("game %s already started", s.gameID)
	}
	for _, rt := range []*teamRuntime{s.home, s.away} {
		var explicit []string
		if s.opts.UserTeamID == rt.team.ID {
			explicit = s.opts.UserLineup
		}
		rt.lineup = buildLineup(rt.team, explicit)
		rt.initBoxScore()
		rt.targetMinutes = s.resolveTargetMinutes(rt)
	}
	s.quarter = 0
	s.homeHasBall = true
	s.phase = games.PhaseBetweenQuarters
	return nil
}

func (rt *teamRuntime) initBoxScore() {
	rt.box = make([]games.BoxScoreLine, 0, len(rt.team.Players))
	rt.boxIndex = make(map[string]int, len(rt.team.Players))
	for _, p := range rt.team.Players {
		if p == nil {
			continue
		}
		rt.boxIndex[p.ID] = len(rt.box)
		rt.box = append(rt.box, games.BoxScoreLine{
			PlayerID:   p.ID,
			PlayerName: p.Name(),
		})
	}
}

func (rt *teamRuntime) line(playerID string) *games.BoxScoreLine {
	if i, ok := rt.boxIndex[playerID]; ok {
		return &rt.box[i]
	}
	return nil
}

func (rt *teamRuntime) minutesPlayed() map[string]float64 {
	out := make(map[string]float64, len(rt.box))
	for _, l := range rt.box {
		out[l.PlayerID] = l.Minutes
	}
	return out
}

// buildResult assembles the final payload.
func (s *Simulator) buildResult() *games.Result {
	winner := s.home.team.ID
	if s.awayScore > s.homeScore {
		winner = s.away.team.ID
	}
	result := &games.Result{
		GameID:          s.gameID,
		HomeTeamID:      s.home.team.ID,
		AwayTeamID:      s.away.team.ID,
		HomeScore:       s.homeScore,
		AwayScore:       s.awayScore,
		WinnerID:        winner,
		BoxScore:        games.TeamBoxScore{Home: s.home.box, Away: s.away.box},
		QuarterScores:   s.quarterScores,
		PlayByPlay:      s.playByPlay,
		ClutchPlay:      s.clutch,
		OvertimePeriods: s.overtimePeriods,
	}
	if s.opts.GenerateAnimation {
		result.AnimationData = s.animation
	}
	for _, act := range s.synergies {
		result.SynergiesActivated = append(result.SynergiesActivated, *act)
	}
	return result
}
