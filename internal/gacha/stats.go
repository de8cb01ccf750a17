package gacha

// Summary condenses a Counter into the numbers the boundary renders.
// Percentiles are exact over the bucket distribution: the smallest
// roll count whose cumulative share reaches the rank.
type Summary struct {
	Count uint64  `json:"count"`
	Mean  float64 `json:"mean"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
	P25   int     `json:"p25"`
	P50   int     `json:"p50"`
	P75   int     `json:"p75"`
	P90   int     `json:"p90"`
	P99   int     `json:"p99"`
}

// Summary computes statistics on demand by a single cumulative pass
// over the buckets in increasing roll order.
func (c *Counter) Summary() Summary {
	if c.total == 0 {
		return Summary{}
	}

	s := Summary{Count: c.total, Min: -1}
	var sum float64
	var cum uint64
	quantiles := []struct {
		q   float64
		dst *int
	}{
		{0.25, &s.P25},
		{0.50, &s.P50},
		{0.75, &s.P75},
		{0.90, &s.P90},
		{0.99, &s.P99},
	}
	next := 0
	for rolls, n := range c.buckets {
		if n == 0 {
			continue
		}
		if s.Min < 0 {
			s.Min = rolls
		}
		s.Max = rolls
		sum += float64(rolls) * float64(n)
		cum += n
		for next < len(quantiles) {
			rank := quantiles[next].q * float64(c.total)
			if float64(cum) < rank {
				break
			}
			*quantiles[next].dst = rolls
			next++
		}
	}
	if s.Min < 0 {
		s.Min = 0
	}
	s.Mean = sum / float64(c.total)
	return s
}
