// Package loyalty holds the point accrual and tier rules.
package loyalty

// PointsPerCurrencyUnit is how many minor units of confirmed charge buy
// one loyalty point (Rp10.000 per point).
const PointsPerCurrencyUnit = 10000

// PointsForCharge converts a confirmed charge total into a point award.
// It is pure; persisting the award (exactly once per booking) is the
// caller's job.
func PointsForCharge(chargeTotal int64) int64 {
	if chargeTotal < 0 {
		return 0
	}
	return chargeTotal / PointsPerCurrencyUnit
}

type Tier struct {
	Name           string `json:"name"`
	RequiredPoints int64  `json:"required_points"`
}

// tiers is ascending by RequiredPoints and must start at 0 so every
// balance maps to a tier.
var tiers = []Tier{
	{Name: "Bronze", RequiredPoints: 0},
	{Name: "Silver", RequiredPoints: 500},
	{Name: "Gold", RequiredPoints: 2000},
}

// TierFor resolves a point balance to the highest tier whose threshold
// it meets.
func TierFor(points int64) Tier {
	current := tiers[0]
	for _, t := range tiers[1:] {
		if points < t.RequiredPoints {
			break
		}
		current = t
	}
	return current
}

// NextTier returns the tier after the one the balance is in, or false
// when the balance is already in the top tier.
func NextTier(points int64) (Tier, bool) {
	for _, t := range tiers {
		if points < t.RequiredPoints {
			return t, true
		}
	}
	return Tier{}, false
}

// Progress reports percent progress from the current tier to the next,
// clamped to [0,100]. At the top tier there is nothing left to earn, so
// progress is 100.
func Progress(points int64) int {
	next, ok := NextTier(points)
	if !ok {
		return 100
	}
	current := TierFor(points)
	span := next.RequiredPoints - current.RequiredPoints
	p := int((points - current.RequiredPoints) * 100 / span)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
