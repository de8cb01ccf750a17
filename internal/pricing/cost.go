// Package pricing converts roll counts into currency: how many orbs a
// number of rolls costs under session discounts, and which store packs
// cover an orb total most cheaply.
package pricing

// OrbCost models the per-roll currency price with the usual session
// discount: rolls inside one session get cheaper after the opener.
type OrbCost struct {
	PerRoll    int // price of a standalone roll
	SessionLen int // rolls per session; 0 disables the discount
	PerSession int // price of a full session; 0 falls back to SessionLen*PerRoll
}

// DefaultOrbCost mirrors the common 5-4-4-4-3 session layout.
func DefaultOrbCost() OrbCost {
	return OrbCost{PerRoll: 5, SessionLen: 5, PerSession: 20}
}

// ForRolls returns the orb price of n rolls, applying the session
// price to every full session and the standalone price to the
// remainder.
func (c OrbCost) ForRolls(n int) int {
	if n <= 0 {
		return 0
	}
	if c.SessionLen > 1 && c.PerSession > 0 {
		full := n / c.SessionLen
		rest := n % c.SessionLen
		return full*c.PerSession + rest*c.PerRoll
	}
	return n * c.PerRoll
}
