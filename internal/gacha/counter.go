package gacha

// Counter is a growable histogram of rolls-to-goal observations,
// array-backed and indexed by roll count. The zero value is ready to
// use. Not safe for concurrent use; parallel runners keep one Counter
// per worker and Merge at the end.
type Counter struct {
	buckets []uint64
	total   uint64
}

// Record adds one observation, growing the bucket array on demand.
func (c *Counter) Record(rolls int) {
	if rolls < 0 {
		return
	}
	if rolls >= len(c.buckets) {
		grown := make([]uint64, rolls+1)
		copy(grown, c.buckets)
		c.buckets = grown
	}
	c.buckets[rolls]++
	c.total++
}

// Clear drops every observation. Called whenever the banner or goal
// changes so results from different configurations never mix.
func (c *Counter) Clear() {
	c.buckets = nil
	c.total = 0
}

// Total is the number of recorded observations; it always equals the
// sum of all bucket counts.
func (c *Counter) Total() uint64 { return c.total }

// Merge folds another counter's observations into this one.
func (c *Counter) Merge(other *Counter) {
	if other == nil || other.total == 0 {
		return
	}
	if len(other.buckets) > len(c.buckets) {
		grown := make([]uint64, len(other.buckets))
		copy(grown, c.buckets)
		c.buckets = grown
	}
	for i, n := range other.buckets {
		c.buckets[i] += n
	}
	c.total += other.total
}

// Bucket is one non-empty histogram cell.
type Bucket struct {
	Rolls int    `json:"rolls"`
	Count uint64 `json:"count"`
}

// Buckets returns the non-empty cells in increasing roll order.
func (c *Counter) Buckets() []Bucket {
	out := make([]Bucket, 0, len(c.buckets))
	for rolls, n := range c.buckets {
		if n > 0 {
			out = append(out, Bucket{Rolls: rolls, Count: n})
		}
	}
	return out
}
