package preset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/summonstats/summonsim/internal/gacha"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReloadMergesOverDefault(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "default.yaml", `
focus: 3
fivestar: 3
floor: 30
ceiling: 120
increment: 0.005
cost:
  per_roll: 5
  session_len: 5
  per_session: 20
`)
	writeFile(t, dir, "legendary.yaml", `
name: legendary
focus: 8
fivestar: 0
focus_sizes: [3, 3, 3, 3]
`)

	l := NewLibrary(dir)
	if err := l.Reload(); err != nil {
		t.Fatal(err)
	}
	if names := l.Names(); len(names) != 1 || names[0] != "legendary" {
		t.Fatalf("names %v", names)
	}

	s, err := l.Get("legendary")
	if err != nil {
		t.Fatal(err)
	}
	if s.Focus != 8 || s.Fivestar != 0 {
		t.Fatalf("override not applied: %d/%d", s.Focus, s.Fivestar)
	}
	if s.Floor != 30 || s.Ceiling != 120 || s.Increment != 0.005 {
		t.Fatalf("defaults not inherited: %+v", s)
	}
	if s.Cost.PerSession != 20 {
		t.Fatalf("cost defaults not inherited: %+v", s.Cost)
	}
}

func TestReloadFailsOnInvalidScheme(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", `
name: broken
focus: 0
fivestar: 0
floor: 50
ceiling: 40
`)
	l := NewLibrary(dir)
	if err := l.Reload(); err == nil {
		t.Fatal("invalid scheme must fail the reload")
	}
}

func TestReloadMissingDirIsEmpty(t *testing.T) {
	l := NewLibrary(filepath.Join(t.TempDir(), "nope"))
	if err := l.Reload(); err != nil {
		t.Fatal(err)
	}
	if names := l.Names(); len(names) != 0 {
		t.Fatalf("missing dir should load nothing, got %v", names)
	}
	if _, err := l.Get("anything"); !errors.Is(err, ErrUnknownScheme) {
		t.Fatalf("want ErrUnknownScheme, got %v", err)
	}
}

func TestSchemeBanner(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "standard.yaml", `
name: standard
focus: 3
fivestar: 3
`)
	l := NewLibrary(dir)
	if err := l.Reload(); err != nil {
		t.Fatal(err)
	}
	s, err := l.Get("standard")
	if err != nil {
		t.Fatal(err)
	}

	b, err := s.Banner([gacha.NumColors]uint8{2, 1, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if b.FocusSizes != [gacha.NumColors]uint8{2, 1, 0, 1} {
		t.Fatalf("caller sizes should apply when the scheme pins none, got %v", b.FocusSizes)
	}
	if b.Rates != (gacha.Rates{Focus: 3, Fivestar: 3}) {
		t.Fatalf("rates %+v", b.Rates)
	}

	// a scheme with pinned sizes overrides the caller's
	writeFile(t, dir, "legendary.yaml", `
name: legendary
focus: 8
fivestar: 0
focus_sizes: [3, 3, 3, 3]
`)
	if err := l.Reload(); err != nil {
		t.Fatal(err)
	}
	leg, err := l.Get("legendary")
	if err != nil {
		t.Fatal(err)
	}
	lb, err := leg.Banner([gacha.NumColors]uint8{1, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if lb.FocusSizes != [gacha.NumColors]uint8{3, 3, 3, 3} {
		t.Fatalf("pinned sizes should win, got %v", lb.FocusSizes)
	}
}

func TestFileNameAsFallbackSchemeName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "unnamed.yaml", "focus: 4\n")
	l := NewLibrary(dir)
	if err := l.Reload(); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Get("unnamed"); err != nil {
		t.Fatalf("file stem should name the scheme: %v", err)
	}
}
