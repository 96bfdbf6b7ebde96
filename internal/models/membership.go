package models

// MembershipTier is a loyalty level. Tiers are ordered regular < silver < gold < platinum.
type MembershipTier string

const (
	TierRegular  MembershipTier = "regular"
	TierSilver   MembershipTier = "silver"
	TierGold     MembershipTier = "gold"
	TierPlatinum MembershipTier = "platinum"
)

// Rank returns the position of the tier in the ordering, or -1 for an unknown tier.
func (t MembershipTier) Rank() int {
	switch t {
	case TierRegular:
		return 0
	case TierSilver:
		return 1
	case TierGold:
		return 2
	case TierPlatinum:
		return 3
	}
	return -1
}

// Valid reports whether t is one of the known tiers.
func (t MembershipTier) Valid() bool { return t.Rank() >= 0 }
