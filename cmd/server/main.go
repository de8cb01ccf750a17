package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/summonstats/summonsim/internal/gacha"
	"github.com/summonstats/summonsim/internal/permalink"
	"github.com/summonstats/summonsim/internal/preset"
	"github.com/summonstats/summonsim/internal/pricing"
	"github.com/summonstats/summonsim/internal/session"
)

func init() {
	pflag.StringP("addr", "a", ":8080", "listen address")
	pflag.StringP("presets", "p", "presets", "rate scheme preset directory")
	pflag.StringP("log", "l", "info", "log level")
	pflag.IntP("workers", "w", 1, "simulation worker goroutines per run")
	pflag.Uint64("seed", 0, "fixed random seed; 0 uses OS entropy")
	pflag.Duration("budget", gacha.DefaultBudget, "default wall-clock budget per run")
	_ = viper.BindPFlag("server.addr", pflag.Lookup("addr"))
	_ = viper.BindPFlag("presets.dir", pflag.Lookup("presets"))
	_ = viper.BindPFlag("log.level", pflag.Lookup("log"))
	_ = viper.BindPFlag("sim.workers", pflag.Lookup("workers"))
	_ = viper.BindPFlag("sim.seed", pflag.Lookup("seed"))
	_ = viper.BindPFlag("sim.budget", pflag.Lookup("budget"))
}

type server struct {
	sess    *session.Session
	library *preset.Library
	budget  time.Duration

	// mu guards scheme: handlers run on separate goroutines, and the
	// active scheme is swapped by banner updates while cost and plan
	// reads are in flight
	mu     sync.Mutex
	scheme preset.Scheme
}

func (s *server) setScheme(sc preset.Scheme) {
	s.mu.Lock()
	s.scheme = sc
	s.mu.Unlock()
}

func (s *server) activeScheme() preset.Scheme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheme
}

type errResp struct {
	Err string `json:"err"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
}

// bannerView is the JSON shape of the current banner configuration.
type bannerView struct {
	FocusSizes [gacha.NumColors]uint8 `json:"focus_sizes"`
	Focus      uint8                  `json:"focus_rate"`
	Fivestar   uint8                  `json:"fivestar_rate"`
	Floor      int                    `json:"floor"`
	Ceiling    int                    `json:"ceiling"`
	Increment  float64                `json:"increment"`
}

type goalView struct {
	Kind   string     `json:"kind"`
	Preset string     `json:"preset"`
	Parts  []partView `json:"parts"`
}

type partView struct {
	Color  string `json:"color"`
	Copies uint8  `json:"copies"`
}

func viewBanner(b gacha.Banner) bannerView {
	return bannerView{
		FocusSizes: b.FocusSizes,
		Focus:      b.Rates.Focus,
		Fivestar:   b.Rates.Fivestar,
		Floor:      b.Schedule.Floor,
		Ceiling:    b.Schedule.Ceiling,
		Increment:  b.Schedule.Increment,
	}
}

func viewGoal(g gacha.Goal) goalView {
	v := goalView{Kind: g.Kind.String(), Preset: g.Preset.String(), Parts: []partView{}}
	for _, p := range g.Parts {
		v.Parts = append(v.Parts, partView{Color: p.Color.String(), Copies: p.Copies})
	}
	return v
}

func (s *server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"banner":    viewBanner(s.sess.Banner()),
		"goal":      viewGoal(s.sess.Goal()),
		"available": s.sess.GoalAvailable(),
	})
}

// handleBanner replaces the banner wholesale. Accepts either a
// permalink payload (?banner=) or explicit parameters: ?scheme= names
// a preset curve, ?focus=1,1,1,1 sets the focus sizes, ?rates=3,3
// overrides the starting rates.
func (s *server) handleBanner(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if enc := q.Get("banner"); enc != "" {
		b, err := permalink.DecodeBanner(enc)
		if err != nil {
			// malformed permalinks degrade to the current config
			log.WithError(err).Debug("ignoring malformed banner payload")
			s.handleConfig(w, r)
			return
		}
		if err := s.sess.SetBanner(b); err != nil {
			badRequest(w, err.Error())
			return
		}
		s.handleConfig(w, r)
		return
	}

	cur := s.sess.Banner()
	sizes := cur.FocusSizes
	if v := q.Get("focus"); v != "" {
		parts := strings.Split(v, ",")
		if len(parts) != gacha.NumColors {
			badRequest(w, "focus needs 4 comma-separated sizes")
			return
		}
		for i, p := range parts {
			n, err := cast.ToUint8E(strings.TrimSpace(p))
			if err != nil {
				badRequest(w, "invalid focus size "+p)
				return
			}
			sizes[i] = n
		}
	}

	rates := cur.Rates
	if v := q.Get("rates"); v != "" {
		parts := strings.Split(v, ",")
		if len(parts) != 2 {
			badRequest(w, "rates needs two comma-separated percentages")
			return
		}
		f, err1 := cast.ToUint8E(strings.TrimSpace(parts[0]))
		g, err2 := cast.ToUint8E(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			badRequest(w, "invalid rates "+v)
			return
		}
		rates = gacha.Rates{Focus: f, Fivestar: g}
	}

	if name := q.Get("scheme"); name != "" {
		scheme, err := s.library.Get(name)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		b, err := scheme.Banner(sizes)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		if err := s.sess.SetBanner(b); err != nil {
			badRequest(w, err.Error())
			return
		}
		s.setScheme(scheme)
		s.handleConfig(w, r)
		return
	}

	b, err := gacha.NewBanner(sizes, rates, cur.Schedule)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.sess.SetBanner(b); err != nil {
		badRequest(w, err.Error())
		return
	}
	s.handleConfig(w, r)
}

// handleGoal replaces the goal wholesale. Accepts a permalink payload
// (?goal=), a preset name (?preset=), or explicit parts
// (?parts=red:1,blue:2&kind=all).
func (s *server) handleGoal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if enc := q.Get("goal"); enc != "" {
		g, err := permalink.DecodeGoal(enc)
		if err != nil {
			log.WithError(err).Debug("ignoring malformed goal payload")
			s.handleConfig(w, r)
			return
		}
		s.sess.SetGoal(g)
		s.handleConfig(w, r)
		return
	}

	if name := q.Get("preset"); name != "" {
		p, err := gacha.ParseGoalPreset(name)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		s.sess.ApplyPreset(p)
		s.handleConfig(w, r)
		return
	}

	var g gacha.Goal
	if q.Get("kind") == gacha.GoalAny.String() {
		g.Kind = gacha.GoalAny
	}
	for _, part := range strings.Split(q.Get("parts"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, copiesStr, found := strings.Cut(part, ":")
		copies := uint8(1)
		if found {
			n, err := cast.ToUint8E(copiesStr)
			if err != nil {
				badRequest(w, "invalid part "+part)
				return
			}
			copies = n
		}
		color, err := gacha.ParseColor(name)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		g.AddPart(color, copies)
	}
	s.sess.SetGoal(g)
	s.handleConfig(w, r)
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	budget := s.budget
	if v := r.URL.Query().Get("budget_ms"); v != "" {
		ms, err := cast.ToIntE(v)
		if err != nil || ms <= 0 {
			badRequest(w, "invalid budget_ms")
			return
		}
		budget = time.Duration(ms) * time.Millisecond
	}
	if !s.sess.GoalAvailable() {
		writeJSON(w, http.StatusConflict, errResp{Err: gacha.ErrGoalUnavailable.Error()})
		return
	}
	start := time.Now()
	if err := s.sess.Run(r.Context(), budget); err != nil {
		writeJSON(w, http.StatusConflict, errResp{Err: err.Error()})
		return
	}
	sum := s.sess.Summary()
	log.WithFields(log.Fields{
		"trials":  sum.Count,
		"elapsed": time.Since(start).Round(time.Millisecond).String(),
	}).Info("run complete")
	writeJSON(w, http.StatusOK, sum)
}

func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Summary())
}

func (s *server) handleBuckets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Buckets())
}

func (s *server) handlePermalink(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"banner": permalink.EncodeBanner(s.sess.Banner()),
		"goal":   permalink.EncodeGoal(s.sess.Goal()),
	})
}

func (s *server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.library.Names())
}

// activeCost falls back to the stock session layout when the current
// scheme never set one.
func (s *server) activeCost() pricing.OrbCost {
	c := s.activeScheme().Cost
	if c.PerRoll == 0 {
		return pricing.DefaultOrbCost()
	}
	return c
}

// handleCost prices the current results in orbs: the cost of the mean
// and of each headline percentile under the active scheme's layout.
func (s *server) handleCost(w http.ResponseWriter, r *http.Request) {
	sum := s.sess.Summary()
	if sum.Count == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"count": 0})
		return
	}
	cost := s.activeCost()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     sum.Count,
		"orbs_mean": cost.ForRolls(int(sum.Mean + 0.5)),
		"orbs_p50":  cost.ForRolls(sum.P50),
		"orbs_p90":  cost.ForRolls(sum.P90),
		"orbs_p99":  cost.ForRolls(sum.P99),
	})
}

// handlePlan returns the cheapest pack purchase covering ?orbs=N, or
// the orbs needed at ?percentile= of the current results.
func (s *server) handlePlan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orbs := 0
	if v := q.Get("orbs"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil || n < 0 {
			badRequest(w, "invalid orbs")
			return
		}
		orbs = n
	} else if v := q.Get("percentile"); v != "" {
		sum := s.sess.Summary()
		if sum.Count == 0 {
			writeJSON(w, http.StatusConflict, errResp{Err: "no results to plan against"})
			return
		}
		cost := s.activeCost()
		switch v {
		case "50":
			orbs = cost.ForRolls(sum.P50)
		case "90":
			orbs = cost.ForRolls(sum.P90)
		case "99":
			orbs = cost.ForRolls(sum.P99)
		default:
			badRequest(w, "percentile must be 50, 90 or 99")
			return
		}
	} else {
		badRequest(w, "need orbs or percentile")
		return
	}
	packs := s.activeScheme().Packs
	if len(packs) == 0 {
		writeJSON(w, http.StatusConflict, errResp{Err: "active scheme has no pack catalog"})
		return
	}
	writeJSON(w, http.StatusOK, pricing.CheapestForOrbs(packs, orbs))
}

func main() {
	pflag.Parse()
	level, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	library := preset.NewLibrary(viper.GetString("presets.dir"))
	if err := library.Reload(); err != nil {
		log.WithError(err).Fatal("load presets")
	}
	stop, err := library.Watch()
	if err != nil {
		log.WithError(err).Warn("preset hot reload unavailable")
	} else {
		defer stop()
	}

	sess := session.New()
	sess.SetWorkers(viper.GetInt("sim.workers"))
	sess.SetSeed(viper.GetUint64("sim.seed"))

	srv := &server{
		sess:    sess,
		library: library,
		budget:  viper.GetDuration("sim.budget"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /config", srv.handleConfig)
	mux.HandleFunc("POST /banner", srv.handleBanner)
	mux.HandleFunc("POST /goal", srv.handleGoal)
	mux.HandleFunc("POST /run", srv.handleRun)
	mux.HandleFunc("GET /summary", srv.handleSummary)
	mux.HandleFunc("GET /buckets", srv.handleBuckets)
	mux.HandleFunc("GET /permalink", srv.handlePermalink)
	mux.HandleFunc("GET /presets", srv.handlePresets)
	mux.HandleFunc("GET /cost", srv.handleCost)
	mux.HandleFunc("GET /plan", srv.handlePlan)

	addr := viper.GetString("server.addr")
	log.WithField("addr", addr).Info("listening")
	log.Fatal(http.ListenAndServe(addr, mux))
}
