// Package preset loads named rate-scheme presets from YAML files. A
// scheme carries the numeric constants of one pity curve; the engine
// itself ships none. Files in the preset directory merge over
// default.yaml, so a preset only states what it changes.
package preset

import "github.com/summonstats/summonsim/internal/pricing"

// rawScheme mirrors the YAML schema. Pointer fields distinguish
// "absent, inherit the default" from an explicit zero.
type rawScheme struct {
	Name          string    `yaml:"name"`
	Focus         *uint8    `yaml:"focus"`
	Fivestar      *uint8    `yaml:"fivestar"`
	Floor         *int      `yaml:"floor"`
	Ceiling       *int      `yaml:"ceiling"`
	Increment     *float64  `yaml:"increment"`
	FourstarShare *uint8    `yaml:"fourstar_share"`
	FocusSizes    []uint8   `yaml:"focus_sizes,omitempty"`
	Cost          *rawCost  `yaml:"cost,omitempty"`
	Packs         []rawPack `yaml:"packs,omitempty"`
	Notes         string    `yaml:"notes,omitempty"`
}

type rawCost struct {
	PerRoll    *int `yaml:"per_roll"`
	SessionLen *int `yaml:"session_len"`
	PerSession *int `yaml:"per_session"`
}

type rawPack struct {
	Name       string `yaml:"name"`
	Orbs       int    `yaml:"orbs"`
	PriceCents int    `yaml:"price_cents"`
}

// Scheme is a fully resolved preset.
type Scheme struct {
	Name          string
	Focus         uint8
	Fivestar      uint8
	Floor         int
	Ceiling       int
	Increment     float64
	FourstarShare uint8
	FocusSizes    []uint8
	Cost          pricing.OrbCost
	Packs         []pricing.Pack
	Notes         string
}

// mergeRaw lays b over a: b's set fields win, absent ones inherit.
// Slices replace wholesale when provided.
func mergeRaw(a, b rawScheme) rawScheme {
	out := a
	if b.Name != "" {
		out.Name = b.Name
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.Focus != nil {
		out.Focus = b.Focus
	}
	if b.Fivestar != nil {
		out.Fivestar = b.Fivestar
	}
	if b.Floor != nil {
		out.Floor = b.Floor
	}
	if b.Ceiling != nil {
		out.Ceiling = b.Ceiling
	}
	if b.Increment != nil {
		out.Increment = b.Increment
	}
	if b.FourstarShare != nil {
		out.FourstarShare = b.FourstarShare
	}
	if len(b.FocusSizes) > 0 {
		out.FocusSizes = append([]uint8(nil), b.FocusSizes...)
	}
	switch {
	case out.Cost == nil && b.Cost != nil:
		c := *b.Cost
		out.Cost = &c
	case out.Cost != nil && b.Cost != nil:
		c := *out.Cost // clone so the default's cost is never written through
		if b.Cost.PerRoll != nil {
			c.PerRoll = b.Cost.PerRoll
		}
		if b.Cost.SessionLen != nil {
			c.SessionLen = b.Cost.SessionLen
		}
		if b.Cost.PerSession != nil {
			c.PerSession = b.Cost.PerSession
		}
		out.Cost = &c
	}
	if len(b.Packs) > 0 {
		out.Packs = append([]rawPack(nil), b.Packs...)
	}
	return out
}

// resolve turns a merged raw scheme into a Scheme with defaults
// filled in for anything no file specified.
func resolve(r rawScheme) Scheme {
	s := Scheme{
		Name:          r.Name,
		Focus:         3,
		Fivestar:      3,
		Floor:         30,
		Ceiling:       120,
		Increment:     0.005,
		FourstarShare: 58,
		Cost:          pricing.DefaultOrbCost(),
		Notes:         r.Notes,
	}
	if r.Focus != nil {
		s.Focus = *r.Focus
	}
	if r.Fivestar != nil {
		s.Fivestar = *r.Fivestar
	}
	if r.Floor != nil {
		s.Floor = *r.Floor
	}
	if r.Ceiling != nil {
		s.Ceiling = *r.Ceiling
	}
	if r.Increment != nil {
		s.Increment = *r.Increment
	}
	if r.FourstarShare != nil {
		s.FourstarShare = *r.FourstarShare
	}
	if len(r.FocusSizes) > 0 {
		s.FocusSizes = append([]uint8(nil), r.FocusSizes...)
	}
	if r.Cost != nil {
		if r.Cost.PerRoll != nil {
			s.Cost.PerRoll = *r.Cost.PerRoll
		}
		if r.Cost.SessionLen != nil {
			s.Cost.SessionLen = *r.Cost.SessionLen
		}
		if r.Cost.PerSession != nil {
			s.Cost.PerSession = *r.Cost.PerSession
		}
	}
	for _, p := range r.Packs {
		s.Packs = append(s.Packs, pricing.Pack{Name: p.Name, Orbs: p.Orbs, PriceCents: p.PriceCents})
	}
	return s
}
