// Package loyalty accrues points from purchases and promotes accounts
// through the membership tiers.
package loyalty

import (
	"fmt"

	"sweetspro/internal/models"
)

// DefaultPointsUnit is the spend, in currency units, that earns one point.
const DefaultPointsUnit int64 = 100

// Tier is one row of the membership table. DiscountRate is in basis points.
type Tier struct {
	Name           models.MembershipTier `json:"name"`
	RequiredPoints int64                 `json:"required_points"`
	DiscountRate   int64                 `json:"discount_rate_bps"`
}

// DefaultTiers is the membership table in descending order.
var DefaultTiers = []Tier{
	{Name: models.TierPlatinum, RequiredPoints: 10000, DiscountRate: 1500},
	{Name: models.TierGold, RequiredPoints: 5000, DiscountRate: 1000},
	{Name: models.TierSilver, RequiredPoints: 1000, DiscountRate: 500},
	{Name: models.TierRegular, RequiredPoints: 0, DiscountRate: 0},
}

// Engine applies the point and tier rules to an account. It holds no
// account state; callers own the *models.User they pass in.
type Engine struct {
	tiers      []Tier
	pointsUnit int64
}

// NewEngine returns an Engine using DefaultTiers. A non-positive pointsUnit
// falls back to DefaultPointsUnit.
func NewEngine(pointsUnit int64) *Engine {
	if pointsUnit <= 0 {
		pointsUnit = DefaultPointsUnit
	}
	return &Engine{tiers: DefaultTiers, pointsUnit: pointsUnit}
}

// Result describes the effect of a point-earning event.
type Result struct {
	PointsEarned int64                 `json:"points_earned"`
	Points       int64                 `json:"points"`
	PreviousTier models.MembershipTier `json:"previous_tier"`
	Tier         models.MembershipTier `json:"tier"`
	Promoted     bool                  `json:"promoted"`
}

// AddPoints credits points to the account and re-evaluates its tier.
func (e *Engine) AddPoints(account *models.User, points int64) (Result, error) {
	if points < 0 {
		return Result{}, fmt.Errorf("%w: %d", models.ErrInvalidPoints, points)
	}
	if !account.MembershipTier.Valid() {
		account.MembershipTier = models.TierRegular
	}

	previous := account.MembershipTier
	account.Points += points
	promoted := e.CheckMembershipUpgrade(account)

	return Result{
		PointsEarned: points,
		Points:       account.Points,
		PreviousTier: previous,
		Tier:         account.MembershipTier,
		Promoted:     promoted,
	}, nil
}

// AddPurchase records amount as spent and credits one point per full
// points unit of it. Fractions of a unit earn nothing.
func (e *Engine) AddPurchase(account *models.User, amount int64) (Result, error) {
	if amount < 0 {
		return Result{}, fmt.Errorf("%w: %d", models.ErrInvalidAmount, amount)
	}
	account.TotalSpent += amount
	return e.AddPoints(account, e.PointsFor(amount))
}

// PointsFor returns the points earned by spending amount.
func (e *Engine) PointsFor(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return amount / e.pointsUnit
}

// CheckMembershipUpgrade assigns the highest tier whose threshold the
// account's points meet. Tiers only move up; it returns true on promotion.
func (e *Engine) CheckMembershipUpgrade(account *models.User) bool {
	for _, t := range e.tiers {
		if account.Points < t.RequiredPoints {
			continue
		}
		if t.Name.Rank() > account.MembershipTier.Rank() {
			account.MembershipTier = t.Name
			return true
		}
		return false
	}
	return false
}

// Tier returns the table row for name.
func (e *Engine) Tier(name models.MembershipTier) (Tier, bool) {
	for _, t := range e.tiers {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

// Tiers returns the membership table in ascending order.
func (e *Engine) Tiers() []Tier {
	out := make([]Tier, len(e.tiers))
	for i, t := range e.tiers {
		out[len(e.tiers)-1-i] = t
	}
	return out
}

// DiscountRate returns the tier's discount rate in basis points.
func (e *Engine) DiscountRate(name models.MembershipTier) int64 {
	t, _ := e.Tier(name)
	return t.DiscountRate
}

// Progress is a read-only view of an account's standing.
type Progress struct {
	Tier             models.MembershipTier  `json:"tier"`
	Points           int64                  `json:"points"`
	TotalSpent       int64                  `json:"total_spent"`
	DiscountRate     int64                  `json:"discount_rate_bps"`
	NextTier         *models.MembershipTier `json:"next_tier,omitempty"`
	PointsToNextTier int64                  `json:"points_to_next_tier"`
}

// Progress reports the account's tier and the distance to the next one.
// NextTier is nil at the top of the table.
func (e *Engine) Progress(account *models.User) Progress {
	tier := account.MembershipTier
	if !tier.Valid() {
		tier = models.TierRegular
	}
	p := Progress{
		Tier:         tier,
		Points:       account.Points,
		TotalSpent:   account.TotalSpent,
		DiscountRate: e.DiscountRate(tier),
	}
	for _, t := range e.Tiers() {
		if t.Name.Rank() > tier.Rank() {
			next := t.Name
			p.NextTier = &next
			p.PointsToNextTier = max(0, t.RequiredPoints-account.Points)
			break
		}
	}
	return p
}
