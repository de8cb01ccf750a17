package pricing

// Pack is one purchasable orb bundle.
type Pack struct {
	Name       string `yaml:"name"`
	Orbs       int    `yaml:"orbs"`
	PriceCents int    `yaml:"price_cents"`
}

// Purchase is one line of a plan.
type Purchase struct {
	Pack Pack `json:"pack"`
	Qty  int  `json:"qty"`
}

// Plan is the cheapest pack combination found for an orb target.
type Plan struct {
	Purchases  []Purchase `json:"purchases"`
	TotalCents int        `json:"total_cents"`
	TotalOrbs  int        `json:"total_orbs"`
}

// CheapestForOrbs finds the minimum-cost multiset of packs granting at
// least target orbs, by an unbounded-knapsack sweep over orb totals.
// Overshoot is allowed when a larger pack undercuts exact change. An
// empty plan means the target was zero or no pack grants orbs.
func CheapestForOrbs(packs []Pack, target int) Plan {
	if target <= 0 {
		return Plan{}
	}
	maxOrbs := 0
	for _, p := range packs {
		if p.Orbs > maxOrbs {
			maxOrbs = p.Orbs
		}
	}
	if maxOrbs == 0 {
		return Plan{}
	}

	// cost[t] = cheapest way to hold exactly t orbs; room past the
	// target lets a big pack win on price
	limit := target + maxOrbs
	const inf = int(^uint(0) >> 1)
	cost := make([]int, limit+1)
	pick := make([]int, limit+1)
	prev := make([]int, limit+1)
	for t := 1; t <= limit; t++ {
		cost[t] = inf
		pick[t] = -1
		prev[t] = -1
	}
	for t := 0; t <= limit; t++ {
		if cost[t] == inf {
			continue
		}
		for i, p := range packs {
			if p.Orbs <= 0 || p.PriceCents < 0 {
				continue
			}
			nt := t + p.Orbs
			if nt > limit {
				nt = limit
			}
			if c := cost[t] + p.PriceCents; c < cost[nt] {
				cost[nt] = c
				pick[nt] = i
				prev[nt] = t
			}
		}
	}

	best := -1
	for t := target; t <= limit; t++ {
		if cost[t] == inf {
			continue
		}
		if best < 0 || cost[t] < cost[best] {
			best = t
		}
	}
	if best < 0 {
		return Plan{}
	}

	qty := make(map[int]int)
	for t := best; t > 0 && pick[t] >= 0; t = prev[t] {
		qty[pick[t]]++
	}

	var plan Plan
	for i, p := range packs {
		n := qty[i]
		if n == 0 {
			continue
		}
		plan.Purchases = append(plan.Purchases, Purchase{Pack: p, Qty: n})
		plan.TotalCents += p.PriceCents * n
		plan.TotalOrbs += p.Orbs * n
	}
	return plan
}
