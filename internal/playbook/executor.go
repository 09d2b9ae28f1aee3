package playbook

import (
	"fmt"
	"sort"

	"github.com/courtside/franchise-sim/internal/badges"
	"github.com/courtside/franchise-sim/internal/coaching"
	"github.com/courtside/franchise-sim/internal/domain/games"
	"github.com/courtside/franchise-sim/internal/domain/players"
	"github.com/courtside/franchise-sim/internal/rng"
)

// Request carries everything the executor needs to resolve one play.
type Request struct {
	Play    *Play
	Offense []*players.Player
	Defense []*players.Player

	Modifiers coaching.DefensiveModifiers

	// OffenseChemistry adjusts assist and pass-security probabilities;
	// DefenseChemistry adjusts steal conversion. Both are small deltas
	// already clamped by the simulator.
	OffenseChemistry float64
	DefenseChemistry float64

	// Frames enables animation keyframe capture.
	Frames bool
}

// Outcome is the resolved result of one executed play.
type Outcome struct {
	Terminal     string
	Points       int
	ShotCategory string
	ShooterID    string
	AssistID     string
	BlockerID    string
	StealerID    string
	TurnoverID   string
	FouledByID   string

	FreeThrowsMade int
	FreeThrowsAtt  int

	Duration    float64
	Frames      []games.AnimationFrame
	Activations []badges.Activation
}

// IsScore reports whether the outcome put points on the board.
func (o Outcome) IsScore() bool {
	return o.Points > 0
}

// Executor resolves a selected play into an outcome. The simulator only
// depends on this contract; alternative executors (scripted, replayed) can be
// swapped in.
type Executor interface {
	Execute(req Request, src rng.Source) (Outcome, error)
}

// Outcome probability tuning.
const (
	makeProbFloor = 0.05
	makeProbCeil  = 0.95

	skillDivisor = 250.0 // attribute points per probability point on shots
	passDivisor  = 500.0 // pass security scales slower than shooting

	assistBaseProb = 0.60
	stealBaseProb  = 0.45

	foulProbPaint    = 0.08
	foulProbMidRange = 0.04
	foulProbThree    = 0.02
	andOneProb       = 0.06

	blockBasePaint    = 0.05
	blockBaseMidRange = 0.02
	blockBaseThree    = 0.01
)

// GraphExecutor walks a play's action graph node by node, adjusting the
// seeded edge probabilities with attributes, badges, synergies, defensive
// modifiers and chemistry.
type GraphExecutor struct {
	registry *badges.Registry
}

// NewGraphExecutor builds the default executor over a badge registry.
func NewGraphExecutor(registry *badges.Registry) *GraphExecutor {
	return &GraphExecutor{registry: registry}
}

// Execute resolves the play. It never loops: the catalog validator guarantees
// forward-only edges, so the walk terminates within len(Nodes) steps.
func (e *GraphExecutor) Execute(req Request, src rng.Source) (Outcome, error) {
	if req.Play == nil {
		return Outcome{}, fmt.Errorf("execute: no play supplied")
	}
	if len(req.Offense) == 0 {
		return Outcome{}, fmt.Errorf("execute: play %q has no offensive players", req.Play.ID)
	}

	cast := assignRoles(req.Play, req.Offense)

	var out Outcome
	var lastPasser *players.Player

	idx := 0
	for {
		node := &req.Play.Nodes[idx]
		actor := cast[node.Actor]
		out.Duration += node.Duration
		if req.Frames {
			out.Frames = append(out.Frames, games.AnimationFrame{
				PlayID:   req.Play.ID,
				Node:     idx,
				ActorID:  actor.ID,
				Action:   node.Action,
				Duration: node.Duration,
			})
		}

		if node.Action == "shot" {
			e.resolveShot(&out, req, node, actor, lastPasser, src)
			return out, nil
		}

		next, terminal := e.walkEdge(req, node, actor, src)
		if terminal == TerminalTurnover {
			out.Terminal = TerminalTurnover
			out.TurnoverID = actor.ID
			out.StealerID = rollSteal(req, src)
			return out, nil
		}
		if terminal != "" {
			// Non-shot nodes only terminate in turnovers, but honor
			// whatever the graph declares.
			out.Terminal = terminal
			return out, nil
		}
		if node.Action == "pass" && node.Target != "" {
			lastPasser = actor
		}
		idx = next
	}
}

// resolveShot turns a shot node into a terminal outcome, folding in the
// shooter's attributes, badge and synergy boosts, the defensive modifiers,
// blocks, and shooting fouls.
func (e *GraphExecutor) resolveShot(out *Outcome, req Request, node *Node, shooter *players.Player, lastPasser *players.Player, src rng.Source) {
	out.ShooterID = shooter.ID
	out.ShotCategory = node.ShotCategory

	makeProb := baseMakeProb(node) + skillDelta(shooter, node.Required, skillDivisor) + req.Modifiers.ShotModifier
	if e.registry != nil {
		if boost, err := e.registry.ShotBoost(shooter, node.ShotCategory); err == nil {
			makeProb += boost
		}
		boost, acts := e.registry.SynergyBoost(shooter, req.Offense)
		makeProb += boost
		out.Activations = append(out.Activations, acts...)
	}
	makeProb = clampProb(makeProb, makeProbFloor, makeProbCeil)

	if blocker := rollBlock(req, node.ShotCategory, src); blocker != "" {
		out.Terminal = TerminalMissedShot
		out.BlockerID = blocker
		return
	}

	points := 2
	if node.ShotCategory == badges.ShotThreePoint {
		points = 3
	}
	made := rng.Chance(src, makeProb)
	fouled := rng.Chance(src, foulProb(node.ShotCategory, made))

	if made {
		out.Terminal = TerminalMadeShot
		out.Points = points
		if lastPasser != nil && lastPasser.ID != shooter.ID {
			assistProb := assistBaseProb + req.OffenseChemistry +
				skillDelta(lastPasser, []AttrRef{{Category: players.CategoryOffense, Name: "passing"}}, passDivisor)
			if rng.Chance(src, clampProb(assistProb, 0, 1)) {
				out.AssistID = lastPasser.ID
			}
		}
		if fouled {
			out.FouledByID = randomDefenderID(req.Defense, src)
			shootFreeThrows(out, shooter, 1, src)
		}
		return
	}

	if fouled {
		// Shooting foul on a miss sends the shooter to the line for the
		// shot's value; no field-goal attempt is charged.
		out.Terminal = TerminalMissedShot
		out.FouledByID = randomDefenderID(req.Defense, src)
		out.ShooterID = shooter.ID
		shootFreeThrows(out, shooter, points, src)
		return
	}
	out.Terminal = TerminalMissedShot
}

// walkEdge draws one outgoing edge of a non-shot node. The turnover edge's
// weight absorbs the defensive turnover modifier, the actor's skill and the
// offense's chemistry.
func (e *GraphExecutor) walkEdge(req Request, node *Node, actor *players.Player, src rng.Source) (next int, terminal string) {
	weights := make([]float64, len(node.Edges))
	for i, edge := range node.Edges {
		w := edge.Probability
		if edge.Terminal == TerminalTurnover {
			w += req.Modifiers.TurnoverModifier - req.OffenseChemistry - skillDelta(actor, node.Required, passDivisor)
			if w < 0.01 {
				w = 0.01
			}
		}
		weights[i] = w
	}
	idx := rng.WeightedIndex(src, weights)
	if idx < 0 {
		idx = 0
	}
	edge := node.Edges[idx]
	if edge.Next == -1 {
		return 0, edge.Terminal
	}
	return edge.Next, ""
}

func shootFreeThrows(out *Outcome, shooter *players.Player, attempts int, src rng.Source) {
	ftProb := float64(shooter.Attributes.Get(players.CategoryOffense, "freeThrow")) / 100.0
	ftProb = clampProb(ftProb, 0.3, 0.95)
	for i := 0; i < attempts; i++ {
		out.FreeThrowsAtt++
		if rng.Chance(src, ftProb) {
			out.FreeThrowsMade++
			out.Points++
		}
	}
}

// rollBlock checks the rim protection of the best shot-blocking defender.
func rollBlock(req Request, shotCategory string, src rng.Source) string {
	blocker := bestDefender(req.Defense, "block")
	if blocker == nil {
		return ""
	}
	base := blockBaseMidRange
	switch shotCategory {
	case badges.ShotPaint:
		base = blockBasePaint
	case badges.ShotThreePoint:
		base = blockBaseThree
	}
	prob := base + req.Modifiers.BlockModifier +
		(float64(blocker.Attributes.Get(players.CategoryDefense, "block"))-float64(players.DefaultAttribute))/400.0
	if rng.Chance(src, clampProb(prob, 0, 0.5)) {
		return blocker.ID
	}
	return ""
}

// rollSteal decides whether a forced turnover converts into a credited steal.
func rollSteal(req Request, src rng.Source) string {
	stealer := bestDefender(req.Defense, "steal")
	if stealer == nil {
		return ""
	}
	prob := stealBaseProb + req.Modifiers.StealModifier + req.DefenseChemistry +
		(float64(stealer.Attributes.Get(players.CategoryDefense, "steal"))-float64(players.DefaultAttribute))/400.0
	if rng.Chance(src, clampProb(prob, 0, 1)) {
		return stealer.ID
	}
	return ""
}

// foulProb is the chance a shot attempt draws a whistle. Made shots use the
// flat and-one rate; misses escalate the closer to the rim the attempt was.
func foulProb(shotCategory string, made bool) float64 {
	if made {
		return andOneProb
	}
	switch shotCategory {
	case badges.ShotPaint:
		return foulProbPaint
	case badges.ShotThreePoint:
		return foulProbThree
	default:
		return foulProbMidRange
	}
}

func bestDefender(defense []*players.Player, attr string) *players.Player {
	var best *players.Player
	bestVal := -1
	for _, d := range defense {
		if d == nil {
			continue
		}
		if v := d.Attributes.Get(players.CategoryDefense, attr); v > bestVal {
			best = d
			bestVal = v
		}
	}
	return best
}

func randomDefenderID(defense []*players.Player, src rng.Source) string {
	if len(defense) == 0 {
		return ""
	}
	d := defense[src.Intn(len(defense))]
	if d == nil {
		return ""
	}
	return d.ID
}

// assignRoles casts on-court players into the play's roles: highest-rated
// eligible player first, each role a distinct player while the lineup allows
// it. Role names are sorted so casting is deterministic for a given lineup.
func assignRoles(p *Play, offense []*players.Player) map[string]*players.Player {
	roles := make([]string, 0, len(p.Roles))
	for role := range p.Roles {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	cast := make(map[string]*players.Player, len(roles))
	taken := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if pick := pickForRole(p.Roles[role], offense, taken, true); pick != nil {
			cast[role] = pick
			taken[pick.ID] = struct{}{}
			continue
		}
		if pick := pickForRole(p.Roles[role], offense, taken, false); pick != nil {
			cast[role] = pick
			taken[pick.ID] = struct{}{}
			continue
		}
		// Short lineups reuse players rather than failing the play.
		cast[role] = firstPlayer(offense)
	}
	return cast
}

func pickForRole(eligible []players.Position, offense []*players.Player, taken map[string]struct{}, requireFit bool) *players.Player {
	var best *players.Player
	for _, pl := range offense {
		if pl == nil {
			continue
		}
		if _, used := taken[pl.ID]; used {
			continue
		}
		if requireFit && !playsAny(pl, eligible) {
			continue
		}
		if best == nil || pl.OverallRating > best.OverallRating {
			best = pl
		}
	}
	return best
}

func playsAny(pl *players.Player, positions []players.Position) bool {
	for _, pos := range positions {
		if pl.PlaysPosition(pos) {
			return true
		}
	}
	return false
}

func firstPlayer(offense []*players.Player) *players.Player {
	for _, pl := range offense {
		if pl != nil {
			return pl
		}
	}
	return nil
}

func baseMakeProb(node *Node) float64 {
	for _, e := range node.Edges {
		if e.Terminal == TerminalMadeShot {
			return e.Probability
		}
	}
	return 0.45
}

// skillDelta averages the node's required attributes and converts the
// distance from the league-average baseline into a probability delta.
func skillDelta(pl *players.Player, required []AttrRef, divisor float64) float64 {
	if pl == nil || len(required) == 0 {
		return 0
	}
	total := 0.0
	for _, ref := range required {
		total += float64(pl.Attributes.Get(ref.Category, ref.Name))
	}
	avg := total / float64(len(required))
	return (avg - float64(players.DefaultAttribute)) / divisor
}

func clampProb(p, lo, hi float64) float64 {
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}
