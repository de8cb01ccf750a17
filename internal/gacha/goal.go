package gacha

import (
	"errors"
	"fmt"
)

// GoalKind selects how the parts of a goal combine.
type GoalKind uint8

const (
	// GoalAll requires every part to be satisfied.
	GoalAll GoalKind = iota
	// GoalAny requires at least one part to be satisfied.
	GoalAny

	numGoalKinds = 2
)

func GoalKindFromOrdinal(v uint8) (GoalKind, error) {
	if v >= numGoalKinds {
		return 0, fmt.Errorf("goal kind ordinal %d out of range", v)
	}
	return GoalKind(v), nil
}

func (k GoalKind) String() string {
	switch k {
	case GoalAll:
		return "all"
	case GoalAny:
		return "any"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// GoalPreset names a convenience goal shape that expands against a
// concrete banner.
type GoalPreset uint8

const (
	// PresetCustom leaves the part list exactly as the user built it.
	PresetCustom GoalPreset = iota
	// PresetAnyFocus is satisfied by one copy of any focus unit.
	PresetAnyFocus
	// PresetAllFocus wants one focus unit of every color the banner
	// actually offers.
	PresetAllFocus

	numGoalPresets = 3
)

func GoalPresetFromOrdinal(v uint8) (GoalPreset, error) {
	if v >= numGoalPresets {
		return 0, fmt.Errorf("goal preset ordinal %d out of range", v)
	}
	return GoalPreset(v), nil
}

func (p GoalPreset) String() string {
	switch p {
	case PresetCustom:
		return "custom"
	case PresetAnyFocus:
		return "any_focus"
	case PresetAllFocus:
		return "all_focus"
	}
	return fmt.Sprintf("preset(%d)", uint8(p))
}

// ParseGoalPreset maps a preset name back to its value.
func ParseGoalPreset(s string) (GoalPreset, error) {
	for v := GoalPreset(0); v < numGoalPresets; v++ {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown goal preset %q", s)
}

// GoalPart is "acquire at least Copies focus units of this color".
type GoalPart struct {
	Color  Color
	Copies uint8
}

// Goal is an acquisition target: a part list plus the combination
// rule. A zero-copy part is dropped rather than kept as a no-op.
type Goal struct {
	Kind   GoalKind
	Preset GoalPreset
	Parts  []GoalPart
}

// ErrGoalUnavailable reports a goal that cannot be met on the current
// banner; running it would never terminate.
var ErrGoalUnavailable = errors.New("goal is not available on this banner")

// MaxGoalParts bounds the part list so its count always fits one byte
// in the encoded form.
const MaxGoalParts = 255

// AddPart appends a part, silently discarding zero-copy entries and
// anything past the part cap.
func (g *Goal) AddPart(c Color, copies uint8) {
	if copies == 0 || !c.Valid() || len(g.Parts) >= MaxGoalParts {
		return
	}
	g.Preset = PresetCustom
	g.Parts = append(g.Parts, GoalPart{Color: c, Copies: copies})
}

// Normalize removes zero-copy parts in place and truncates to the
// part cap.
func (g *Goal) Normalize() {
	kept := g.Parts[:0]
	for _, p := range g.Parts {
		if p.Copies > 0 && p.Color.Valid() {
			kept = append(kept, p)
		}
	}
	if len(kept) > MaxGoalParts {
		kept = kept[:MaxGoalParts]
	}
	g.Parts = kept
}

// SetPreset expands the named preset against the given banner,
// re-deriving the part list. Calling it again after a banner change
// drops colors the new banner no longer offers; a Custom preset only
// prunes parts that became unreachable.
func (g *Goal) SetPreset(b Banner, preset GoalPreset) {
	g.Preset = preset
	switch preset {
	case PresetAnyFocus:
		g.Kind = GoalAny
		g.Parts = focusParts(b)
	case PresetAllFocus:
		g.Kind = GoalAll
		g.Parts = focusParts(b)
	case PresetCustom:
		g.Normalize()
	}
}

func focusParts(b Banner) []GoalPart {
	var parts []GoalPart
	for _, c := range AllColors {
		if b.HasFocus(c) {
			parts = append(parts, GoalPart{Color: c, Copies: 1})
		}
	}
	return parts
}

// IsAvailable reports whether the goal can be met on the banner: the
// part list is non-empty and every part's color has at least one focus
// slot. Callers must check this before simulating.
func (g Goal) IsAvailable(b Banner) bool {
	if len(g.Parts) == 0 {
		return false
	}
	for _, p := range g.Parts {
		if p.Copies == 0 || !b.HasFocus(p.Color) {
			return false
		}
	}
	return true
}

// IsSatisfied applies the combination rule to the per-color counts of
// focus units obtained so far.
func (g Goal) IsSatisfied(inventory *[NumColors]int) bool {
	if len(g.Parts) == 0 {
		return false
	}
	for _, p := range g.Parts {
		met := inventory[p.Color] >= int(p.Copies)
		if g.Kind == GoalAny && met {
			return true
		}
		if g.Kind == GoalAll && !met {
			return false
		}
	}
	return g.Kind == GoalAll
}

// MinRolls is the theoretical floor on rolls to satisfy the goal: one
// roll per required copy under GoalAll, the cheapest part under
// GoalAny.
func (g Goal) MinRolls() int {
	if len(g.Parts) == 0 {
		return 0
	}
	if g.Kind == GoalAny {
		min := int(g.Parts[0].Copies)
		for _, p := range g.Parts[1:] {
			if int(p.Copies) < min {
				min = int(p.Copies)
			}
		}
		return min
	}
	need := make(map[Color]int, len(g.Parts))
	for _, p := range g.Parts {
		if int(p.Copies) > need[p.Color] {
			need[p.Color] = int(p.Copies)
		}
	}
	total := 0
	for _, n := range need {
		total += n
	}
	return total
}
