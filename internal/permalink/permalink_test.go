package permalink

import (
	"encoding/base64"
	"errors"
	"reflect"
	"testing"

	"github.com/summonstats/summonsim/internal/gacha"
)

func TestBannerRoundTrip(t *testing.T) {
	banners := []gacha.Banner{
		gacha.DefaultBanner(),
		mustBanner(t, [gacha.NumColors]uint8{2, 0, 1, 4}, gacha.Rates{Focus: 5, Fivestar: 2},
			gacha.Schedule{Floor: 10, Ceiling: 90, Increment: 0.0125, FourstarShare: 60}),
		mustBanner(t, [gacha.NumColors]uint8{1, 1, 1, 1}, gacha.Rates{Focus: 8, Fivestar: 0},
			gacha.Schedule{Floor: 0, Ceiling: 200, Increment: 0, FourstarShare: 58}),
	}
	for i, b := range banners {
		got, err := DecodeBanner(EncodeBanner(b))
		if err != nil {
			t.Fatalf("banner %d: %v", i, err)
		}
		if got != b {
			t.Fatalf("banner %d round trip mismatch:\n got %+v\nwant %+v", i, got, b)
		}
	}
}

func TestGoalRoundTrip(t *testing.T) {
	var custom gacha.Goal
	custom.AddPart(gacha.ColorRed, 1)
	custom.AddPart(gacha.ColorColorless, 11)

	anyKind := gacha.Goal{Kind: gacha.GoalAny, Preset: gacha.PresetAnyFocus,
		Parts: []gacha.GoalPart{{Color: gacha.ColorBlue, Copies: 2}}}

	for i, g := range []gacha.Goal{custom, anyKind} {
		got, err := DecodeGoal(EncodeGoal(g))
		if err != nil {
			t.Fatalf("goal %d: %v", i, err)
		}
		if !reflect.DeepEqual(got, g) {
			t.Fatalf("goal %d round trip mismatch:\n got %+v\nwant %+v", i, got, g)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	valid := EncodeBanner(gacha.DefaultBanner())
	cases := []string{
		"",
		"not!base64!",
		valid[:len(valid)-4],            // truncated
		valid + "AAAA",                  // oversized
		base64.RawURLEncoding.EncodeToString([]byte{1, 2, 3}), // wrong length
	}
	for _, s := range cases {
		if _, err := DecodeBanner(s); !errors.Is(err, ErrMalformed) {
			t.Fatalf("banner %q: want ErrMalformed, got %v", s, err)
		}
	}

	goalCases := [][]byte{
		{},
		{0},                     // short header
		{0, 0, 2, 0, 1},         // claims 2 parts, carries 1
		{9, 0, 0},               // bad kind ordinal
		{0, 9, 0},               // bad preset ordinal
		{0, 0, 1, 7, 1},         // bad color ordinal
		{0, 0, 1, 0, 0},         // zero-copy part
	}
	for _, raw := range goalCases {
		s := base64.RawURLEncoding.EncodeToString(raw)
		if _, err := DecodeGoal(s); !errors.Is(err, ErrMalformed) {
			t.Fatalf("goal %v: want ErrMalformed, got %v", raw, err)
		}
	}
}

func TestDecodeRejectsInvalidBanner(t *testing.T) {
	// structurally sound payload carrying a zero top-tier rate
	b := gacha.Banner{
		FocusSizes: [gacha.NumColors]uint8{1, 1, 1, 1},
		Rates:      gacha.Rates{Focus: 0, Fivestar: 0},
		Schedule:   gacha.DefaultSchedule(),
	}
	if _, err := DecodeBanner(EncodeBanner(b)); !errors.Is(err, ErrMalformed) {
		t.Fatalf("invalid banner should decode to ErrMalformed, got %v", err)
	}
}

func TestDecodeNormalizesLegendaryLayout(t *testing.T) {
	// a hand-built payload with 8/0 rates and mismatched sizes decodes
	// to the collapsed layout, so encode(decode(x)) is stable
	raw := gacha.Banner{
		FocusSizes: [gacha.NumColors]uint8{1, 0, 0, 9},
		Rates:      gacha.Rates{Focus: 8, Fivestar: 0},
		Schedule:   gacha.DefaultSchedule(),
	}
	got, err := DecodeBanner(EncodeBanner(raw))
	if err != nil {
		t.Fatal(err)
	}
	want := [gacha.NumColors]uint8{3, 3, 3, 3}
	if got.FocusSizes != want {
		t.Fatalf("decoded sizes %v, want collapsed %v", got.FocusSizes, want)
	}
}

func mustBanner(t *testing.T, sizes [gacha.NumColors]uint8, r gacha.Rates, s gacha.Schedule) gacha.Banner {
	t.Helper()
	b, err := gacha.NewBanner(sizes, r, s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestEncodeGoalClampsPartCount(t *testing.T) {
	// a goal holding more parts than the one-byte count can carry
	// still produces a decodable payload
	over := gacha.Goal{Kind: gacha.GoalAll, Parts: make([]gacha.GoalPart, gacha.MaxGoalParts+40)}
	for i := range over.Parts {
		over.Parts[i] = gacha.GoalPart{Color: gacha.ColorRed, Copies: 1}
	}
	got, err := DecodeGoal(EncodeGoal(over))
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Parts) != gacha.MaxGoalParts {
		t.Fatalf("decoded %d parts, want the clamp at %d", len(got.Parts), gacha.MaxGoalParts)
	}
}
