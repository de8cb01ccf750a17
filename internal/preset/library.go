package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/summonstats/summonsim/internal/gacha"
)

// defaultFile supplies values every other preset inherits.
const defaultFile = "default.yaml"

var ErrUnknownScheme = errors.New("unknown rate scheme")

// Library holds the resolved schemes from one directory of YAML
// files. It is safe for concurrent reads while Reload runs.
type Library struct {
	dir string

	mu      sync.RWMutex
	schemes map[string]Scheme
}

// NewLibrary creates an empty library rooted at dir; call Reload to
// populate it.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir, schemes: make(map[string]Scheme)}
}

// Reload reads every *.yaml in the directory, merges each over
// default.yaml, validates, and swaps the scheme map wholesale. A
// missing directory yields an empty library, not an error; a single
// bad file fails the whole reload so half-applied preset sets are
// never served.
func (l *Library) Reload() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.swap(map[string]Scheme{})
			return nil
		}
		return fmt.Errorf("read preset dir: %w", err)
	}

	def, err := readRaw(filepath.Join(l.dir, defaultFile))
	if err != nil {
		return err
	}

	schemes := make(map[string]Scheme)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") || name == defaultFile {
			continue
		}
		raw, err := readRaw(filepath.Join(l.dir, name))
		if err != nil {
			return err
		}
		merged := mergeRaw(def, raw)
		if merged.Name == "" {
			merged.Name = strings.TrimSuffix(name, ".yaml")
		}
		scheme := resolve(merged)
		if err := validate(scheme); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		schemes[merged.Name] = scheme
	}
	l.swap(schemes)
	return nil
}

func (l *Library) swap(schemes map[string]Scheme) {
	l.mu.Lock()
	l.schemes = schemes
	l.mu.Unlock()
}

// readRaw loads one YAML file. Missing files resolve to an empty raw
// scheme so default.yaml stays optional.
func readRaw(path string) (rawScheme, error) {
	var raw rawScheme
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rawScheme{}, nil
		}
		return rawScheme{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return rawScheme{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return raw, nil
}

// validate checks a resolved scheme the same way the engine will,
// collecting every problem into one message.
func validate(s Scheme) error {
	var errs []string
	if int(s.Focus)+int(s.Fivestar) == 0 {
		errs = append(errs, "focus and fivestar rates are both zero")
	}
	if int(s.Focus)+int(s.Fivestar) > 100 {
		errs = append(errs, "focus+fivestar above 100%")
	}
	if s.Floor < 0 {
		errs = append(errs, "floor must be >= 0")
	}
	if s.Ceiling <= s.Floor {
		errs = append(errs, "ceiling must exceed floor")
	}
	if s.Increment < 0 {
		errs = append(errs, "increment must be >= 0")
	}
	if s.FourstarShare > 100 {
		errs = append(errs, "fourstar_share above 100%")
	}
	if n := len(s.FocusSizes); n != 0 && n != gacha.NumColors {
		errs = append(errs, fmt.Sprintf("focus_sizes needs %d entries, has %d", gacha.NumColors, n))
	}
	if s.Cost.PerRoll < 0 || s.Cost.PerSession < 0 || s.Cost.SessionLen < 0 {
		errs = append(errs, "cost values must be >= 0")
	}
	for i, p := range s.Packs {
		if p.Orbs <= 0 || p.PriceCents < 0 {
			errs = append(errs, fmt.Sprintf("packs[%d] needs positive orbs and non-negative price", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Get returns the named scheme.
func (l *Library) Get(name string) (Scheme, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.schemes[name]
	if !ok {
		return Scheme{}, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
	return s, nil
}

// Names lists the loaded schemes in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.schemes))
	for n := range l.schemes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Banner builds a banner from a scheme, using the caller's focus
// sizes unless the scheme pins its own.
func (s Scheme) Banner(sizes [gacha.NumColors]uint8) (gacha.Banner, error) {
	if len(s.FocusSizes) == gacha.NumColors {
		copy(sizes[:], s.FocusSizes)
	}
	return gacha.NewBanner(sizes,
		gacha.Rates{Focus: s.Focus, Fivestar: s.Fivestar},
		gacha.Schedule{
			Floor:         s.Floor,
			Ceiling:       s.Ceiling,
			Increment:     s.Increment,
			FourstarShare: s.FourstarShare,
		})
}
