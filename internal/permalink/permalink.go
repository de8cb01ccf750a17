// Package permalink encodes banner and goal configuration as compact
// versionless binary blobs wrapped in URL-safe base64, so a whole
// session setup fits in two query parameters. Encoding and decoding
// are exact inverses for every valid value; anything malformed decodes
// to ErrMalformed and the boundary keeps its current configuration.
package permalink

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/summonstats/summonsim/internal/gacha"
)

// ErrMalformed reports a payload that is not a valid encoding:
// truncated, oversized, or carrying out-of-range values. Callers
// treat it as "no configuration change".
var ErrMalformed = errors.New("malformed permalink payload")

const bannerLen = 4 + 2 + 2 + 2 + 1 + 8

// EncodeBanner packs a banner into its fixed 19-byte layout: focus
// sizes, rates, floor, ceiling, four-star share, increment bits.
func EncodeBanner(b gacha.Banner) string {
	buf := make([]byte, bannerLen)
	copy(buf[0:4], b.FocusSizes[:])
	buf[4] = b.Rates.Focus
	buf[5] = b.Rates.Fivestar
	binary.LittleEndian.PutUint16(buf[6:8], uint16(b.Schedule.Floor))
	binary.LittleEndian.PutUint16(buf[8:10], uint16(b.Schedule.Ceiling))
	buf[10] = b.Schedule.FourstarShare
	binary.LittleEndian.PutUint64(buf[11:19], math.Float64bits(b.Schedule.Increment))
	return base64.RawURLEncoding.EncodeToString(buf)
}

// DecodeBanner is the strict inverse of EncodeBanner. The decoded
// banner passes full validation before it is returned.
func DecodeBanner(s string) (gacha.Banner, error) {
	buf, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return gacha.Banner{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(buf) != bannerLen {
		return gacha.Banner{}, fmt.Errorf("%w: banner payload is %d bytes", ErrMalformed, len(buf))
	}
	var sizes [gacha.NumColors]uint8
	copy(sizes[:], buf[0:4])
	rates := gacha.Rates{Focus: buf[4], Fivestar: buf[5]}
	sched := gacha.Schedule{
		Floor:         int(binary.LittleEndian.Uint16(buf[6:8])),
		Ceiling:       int(binary.LittleEndian.Uint16(buf[8:10])),
		FourstarShare: buf[10],
		Increment:     math.Float64frombits(binary.LittleEndian.Uint64(buf[11:19])),
	}
	b, err := gacha.NewBanner(sizes, rates, sched)
	if err != nil {
		return gacha.Banner{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return b, nil
}

// EncodeGoal packs a goal as kind, preset, part count, then one
// (color, copies) pair per part. Parts past gacha.MaxGoalParts are
// dropped; the one-byte count must never truncate.
func EncodeGoal(g gacha.Goal) string {
	parts := g.Parts
	if len(parts) > gacha.MaxGoalParts {
		parts = parts[:gacha.MaxGoalParts]
	}
	buf := make([]byte, 0, 3+2*len(parts))
	buf = append(buf, uint8(g.Kind), uint8(g.Preset), uint8(len(parts)))
	for _, p := range parts {
		buf = append(buf, uint8(p.Color), p.Copies)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// DecodeGoal is the strict inverse of EncodeGoal. Part counts must
// match the payload length exactly; ordinals are range-checked; a
// zero-copy part is rejected rather than silently kept.
func DecodeGoal(s string) (gacha.Goal, error) {
	buf, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return gacha.Goal{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(buf) < 3 {
		return gacha.Goal{}, fmt.Errorf("%w: goal payload is %d bytes", ErrMalformed, len(buf))
	}
	kind, err := gacha.GoalKindFromOrdinal(buf[0])
	if err != nil {
		return gacha.Goal{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	preset, err := gacha.GoalPresetFromOrdinal(buf[1])
	if err != nil {
		return gacha.Goal{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	n := int(buf[2])
	if len(buf) != 3+2*n {
		return gacha.Goal{}, fmt.Errorf("%w: goal payload length %d does not match %d parts", ErrMalformed, len(buf), n)
	}
	g := gacha.Goal{Kind: kind, Preset: preset}
	for i := 0; i < n; i++ {
		color, err := gacha.ColorFromOrdinal(buf[3+2*i])
		if err != nil {
			return gacha.Goal{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		copies := buf[4+2*i]
		if copies == 0 {
			return gacha.Goal{}, fmt.Errorf("%w: zero-copy goal part", ErrMalformed)
		}
		g.Parts = append(g.Parts, gacha.GoalPart{Color: color, Copies: copies})
	}
	return g, nil
}
