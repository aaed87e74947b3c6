// Package parking implements the lot domain: vehicle and space records,
// membership tiers, fee calculation, entry/exit flows and report collection.
// The records live in two B+ tree indexes, one keyed by plate and one by
// space id, and are only ever mutated in place; nothing is removed from an
// index once inserted.
package parking

import (
	"strings"
	"time"
)

// Membership is a loyalty tier earned through accumulated parking hours.
type Membership int

const (
	None Membership = iota
	Premium
	Gold
)

// Hour thresholds at which a vehicle is promoted.
const (
	PremiumHours = 100.0
	GoldHours    = 200.0
)

func (m Membership) String() string {
	switch m {
	case Premium:
		return "Premium"
	case Gold:
		return "Gold"
	default:
		return "None"
	}
}

// MembershipForHours returns the tier a vehicle with the given lifetime
// parking hours is entitled to.
func MembershipForHours(hours float64) Membership {
	switch {
	case hours >= GoldHours:
		return Gold
	case hours >= PremiumHours:
		return Premium
	default:
		return None
	}
}

// ParseMembership maps a tier name from the data file to a Membership.
// Unknown names mean no membership.
func ParseMembership(s string) Membership {
	switch {
	case strings.EqualFold(s, "gold"), strings.EqualFold(s, "golden"):
		return Gold
	case strings.EqualFold(s, "premium"):
		return Premium
	default:
		return None
	}
}

// Vehicle is one registered vehicle. Plate is its index key. SpaceID is -1
// and Arrival is zero whenever the vehicle is not currently parked.
type Vehicle struct {
	Plate         string
	Owner         string
	Arrival       time.Time
	LastDeparture time.Time
	Membership    Membership
	TotalHours    float64
	Parkings      int
	TotalPaid     float64
	SpaceID       int
}

// Parked reports whether the vehicle currently occupies a space.
func (v *Vehicle) Parked() bool {
	return v.SpaceID > 0 && !v.Arrival.IsZero()
}
