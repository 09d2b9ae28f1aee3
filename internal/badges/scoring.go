package badges

import (
	"github.com/courtside/franchise-sim/internal/domain/games"
	"github.com/courtside/franchise-sim/internal/domain/players"
)

// Development boost tuning. The synergy bonus is gated by the lower badge
// tier of the pair and the aggregate is capped.
const (
	devBoostBronze = 0.03
	devBoostSilver = 0.05
	devBoostGold   = 0.06
	devBoostHOF    = 0.08

	// DevelopmentBoostCap bounds the aggregate synergy development boost.
	DevelopmentBoostCap = 0.15

	// DynamicDuoBoost is the flat all-attribute bonus for each duo member.
	DynamicDuoBoost = 0.02

	// dynamicDuoMinSynergies is how many gold-or-better synergies a pair needs.
	dynamicDuoMinSynergies = 2
)

// ShotBoost sums the shooter's applicable tiered badge effects for one shot
// category. Unknown badge ids are an error: a badge that silently contributes
// nothing hides seed-data corruption.
func (r *Registry) ShotBoost(shooter *players.Player, shotCategory string) (float64, error) {
	total := 0.0
	for _, b := range shooter.Badges {
		effect, err := r.Effect(b.ID)
		if err != nil {
			return 0, err
		}
		if !effect.AppliesTo(shotCategory) {
			continue
		}
		total += effect.Tiers[b.Tier]
	}
	return total, nil
}

// Activation is one synergy firing between the shooter and a teammate.
type Activation struct {
	Synergy Synergy
	HolderA string // shooter id
	HolderB string // teammate id
}

// SynergyBoost finds every synergy whose two badges are split between the
// shooter and any on-court teammate, returning the summed magnitude and the
// activations for telemetry/animation.
func (r *Registry) SynergyBoost(shooter *players.Player, teammates []*players.Player) (float64, []Activation) {
	total := 0.0
	var activations []Activation
	for _, s := range r.synergies {
		partner, ok := synergyPartner(s, shooter, teammates)
		if !ok {
			continue
		}
		total += s.Magnitude
		activations = append(activations, Activation{
			Synergy: s,
			HolderA: shooter.ID,
			HolderB: partner.ID,
		})
	}
	return total, activations
}

// ToGameActivations converts activations to the result payload shape.
func ToGameActivations(acts []Activation) []games.SynergyActivation {
	out := make([]games.SynergyActivation, 0, len(acts))
	for _, a := range acts {
		out = append(out, games.SynergyActivation{
			BadgeA:  a.Synergy.BadgeA,
			BadgeB:  a.Synergy.BadgeB,
			PlayerA: a.HolderA,
			PlayerB: a.HolderB,
			Effect:  a.Synergy.Effect,
			Count:   1,
		})
	}
	return out
}

// DevelopmentBoost sums tier-gated synergy bonuses between the player and the
// roster, capped at DevelopmentBoostCap. The bonus per synergy follows the
// lower tier of the two badges involved.
func (r *Registry) DevelopmentBoost(player *players.Player, roster []*players.Player) float64 {
	total := 0.0
	for _, s := range r.synergies {
		ownTier, partnerTier, ok := synergyTiers(s, player, roster)
		if !ok {
			continue
		}
		total += tierDevBoost(lowerTier(ownTier, partnerTier))
	}
	if total > DevelopmentBoostCap {
		total = DevelopmentBoostCap
	}
	return total
}

// DynamicDuos returns player-id pairs holding at least two gold-or-higher
// synergies together. Each member earns DynamicDuoBoost during development.
func (r *Registry) DynamicDuos(roster []*players.Player) [][2]string {
	counts := make(map[[2]string]int)
	for _, s := range r.synergies {
		// Count each synergy at most once per pair, whichever badge order matched.
		seen := make(map[[2]string]struct{})
		for i, a := range roster {
			if a == nil {
				continue
			}
			tierA, okA := badgeTier(a, s.BadgeA)
			if !okA {
				continue
			}
			for j, b := range roster {
				if i == j || b == nil {
					continue
				}
				tierB, okB := badgeTier(b, s.BadgeB)
				if !okB {
					continue
				}
				if players.TierRank(lowerTier(tierA, tierB)) < players.TierRank(players.TierGold) {
					continue
				}
				key := pairKey(a.ID, b.ID)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				counts[key]++
			}
		}
	}

	var duos [][2]string
	for key, n := range counts {
		if n >= dynamicDuoMinSynergies {
			duos = append(duos, key)
		}
	}
	return duos
}

// InDynamicDuo reports whether the player belongs to any duo in the list.
func InDynamicDuo(duos [][2]string, playerID string) bool {
	for _, d := range duos {
		if d[0] == playerID || d[1] == playerID {
			return true
		}
	}
	return false
}

// synergyPartner finds a teammate completing the synergy pair with the
// shooter, in either badge order.
func synergyPartner(s Synergy, shooter *players.Player, teammates []*players.Player) (*players.Player, bool) {
	_, holdsA := badgeTier(shooter, s.BadgeA)
	_, holdsB := badgeTier(shooter, s.BadgeB)
	for _, tm := range teammates {
		if tm == nil || tm.ID == shooter.ID {
			continue
		}
		if holdsA && holdsBadge(tm, s.BadgeB) {
			return tm, true
		}
		if holdsB && holdsBadge(tm, s.BadgeA) {
			return tm, true
		}
	}
	return nil, false
}

// synergyTiers resolves the badge tiers on each side of a completed pair.
func synergyTiers(s Synergy, player *players.Player, roster []*players.Player) (players.BadgeTier, players.BadgeTier, bool) {
	tierA, holdsA := badgeTier(player, s.BadgeA)
	tierB, holdsB := badgeTier(player, s.BadgeB)
	for _, tm := range roster {
		if tm == nil || tm.ID == player.ID {
			continue
		}
		if holdsA {
			if partnerTier, ok := badgeTier(tm, s.BadgeB); ok {
				return tierA, partnerTier, true
			}
		}
		if holdsB {
			if partnerTier, ok := badgeTier(tm, s.BadgeA); ok {
				return tierB, partnerTier, true
			}
		}
	}
	return "", "", false
}

func holdsBadge(p *players.Player, badgeID string) bool {
	_, ok := badgeTier(p, badgeID)
	return ok
}

func badgeTier(p *players.Player, badgeID string) (players.BadgeTier, bool) {
	for _, b := range p.Badges {
		if b.ID == badgeID {
			return b.Tier, true
		}
	}
	return "", false
}

func lowerTier(a, b players.BadgeTier) players.BadgeTier {
	if players.TierRank(a) <= players.TierRank(b) {
		return a
	}
	return b
}

func tierDevBoost(tier players.BadgeTier) float64 {
	switch tier {
	case players.TierBronze:
		return devBoostBronze
	case players.TierSilver:
		return devBoostSilver
	case players.TierGold:
		return devBoostGold
	case players.TierHOF:
		return devBoostHOF
	default:
		return 0
	}
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}
