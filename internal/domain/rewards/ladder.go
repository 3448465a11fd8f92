// Package rewards holds the fixed XP ladder that decides badge unlocks.
package rewards

import "sort"

// Tier is one rung of the ladder.
type Tier struct {
	Threshold int    `json:"xp_threshold"`
	Name      string `json:"badge_name"`
	Icon      string `json:"badge_icon"`
}

// Ladder is a set of tiers evaluated in ascending threshold order.
type Ladder []Tier

// DefaultLadder returns the badge ladder shipped with the service.
// Thresholds and names are stable; stored rewards reference them.
func DefaultLadder() Ladder {
	return Ladder{
		{Threshold: 500, Name: "Beginner Achiever", Icon: "🌱"},
		{Threshold: 1500, Name: "Consistency King", Icon: "👑"},
		{Threshold: 3000, Name: "Placement Warrior", Icon: "⚔️"},
		{Threshold: 5000, Name: "Elite Candidate", Icon: "🏆"},
	}
}

// New returns a copy of tiers sorted by threshold.
func New(tiers ...Tier) Ladder {
	l := make(Ladder, len(tiers))
	copy(l, tiers)
	sort.SliceStable(l, func(i, j int) bool { return l[i].Threshold < l[j].Threshold })
	return l
}

// Reached returns every tier whose threshold is <= xp, ascending.
func (l Ladder) Reached(xp int) []Tier {
	var out []Tier
	for _, t := range l {
		if t.Threshold > xp {
			break
		}
		out = append(out, t)
	}
	return out
}

// Missing returns the reached tiers whose thresholds are not in have.
func (l Ladder) Missing(xp int, have map[int]bool) []Tier {
	var out []Tier
	for _, t := range l.Reached(xp) {
		if !have[t.Threshold] {
			out = append(out, t)
		}
	}
	return out
}

// Next returns the lowest tier above xp, or false when the ladder is exhausted.
func (l Ladder) Next(xp int) (Tier, bool) {
	for _, t := range l {
		if t.Threshold > xp {
			return t, true
		}
	}
	return Tier{}, false
}
