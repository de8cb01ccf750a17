package gacha

import "fmt"

// Color tags the four unit colors. Values are dense from 0 so they can
// index fixed-size arrays.
type Color uint8

const (
	ColorRed Color = iota
	ColorBlue
	ColorGreen
	ColorColorless

	// NumColors is the cardinality of Color; arrays indexed by Color
	// must have exactly this length.
	NumColors = 4
)

var colorNames = [NumColors]string{"red", "blue", "green", "colorless"}

// AllColors lists every color in ordinal order.
var AllColors = [NumColors]Color{ColorRed, ColorBlue, ColorGreen, ColorColorless}

// ColorFromOrdinal rejects out-of-range ordinals instead of wrapping.
func ColorFromOrdinal(v uint8) (Color, error) {
	if v >= NumColors {
		return 0, fmt.Errorf("color ordinal %d out of range", v)
	}
	return Color(v), nil
}

func (c Color) Valid() bool { return c < NumColors }

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return colorNames[c]
}

// ParseColor maps a lowercase color name back to its Color.
func ParseColor(s string) (Color, error) {
	for _, c := range AllColors {
		if colorNames[c] == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// Pool tags the rarity pool a rolled unit comes from. Focus and
// Fivestar are both top rarity; Focus is the rate-up subset.
type Pool uint8

const (
	PoolFocus Pool = iota
	PoolFivestar
	PoolFourstar
	PoolThreestar

	// NumPools is the cardinality of Pool.
	NumPools = 4
)

var poolNames = [NumPools]string{"focus", "fivestar", "fourstar", "threestar"}

// PoolFromOrdinal rejects out-of-range ordinals instead of wrapping.
func PoolFromOrdinal(v uint8) (Pool, error) {
	if v >= NumPools {
		return 0, fmt.Errorf("pool ordinal %d out of range", v)
	}
	return Pool(v), nil
}

func (p Pool) Valid() bool { return p < NumPools }

// TopRarity reports whether the pool sits in the top rarity tier.
func (p Pool) TopRarity() bool { return p == PoolFocus || p == PoolFivestar }

func (p Pool) String() string {
	if !p.Valid() {
		return fmt.Sprintf("pool(%d)", uint8(p))
	}
	return poolNames[p]
}
