package gacha

import "testing"

func TestCounterConservation(t *testing.T) {
	var c Counter
	rng := NewSeededSource(9)
	const n = 5000
	for i := 0; i < n; i++ {
		c.Record(int(rng.Float64() * 300))
	}
	if c.Total() != n {
		t.Fatalf("total %d after %d records", c.Total(), n)
	}
	var sum uint64
	for _, b := range c.Buckets() {
		if b.Count == 0 {
			t.Fatalf("bucket %d has zero count", b.Rolls)
		}
		sum += b.Count
	}
	if sum != n {
		t.Fatalf("bucket counts sum to %d, want %d", sum, n)
	}
}

func TestCounterGrowth(t *testing.T) {
	var c Counter
	c.Record(3)
	c.Record(100000)
	c.Record(3)
	got := c.Buckets()
	if len(got) != 2 {
		t.Fatalf("want 2 non-empty buckets, got %d", len(got))
	}
	if got[0].Rolls != 3 || got[0].Count != 2 {
		t.Fatalf("bucket 3 wrong: %+v", got[0])
	}
	if got[1].Rolls != 100000 || got[1].Count != 1 {
		t.Fatalf("bucket 100000 wrong: %+v", got[1])
	}
	c.Record(-1) // ignored
	if c.Total() != 3 {
		t.Fatalf("negative rolls must not record, total %d", c.Total())
	}
}

func TestCounterClear(t *testing.T) {
	var c Counter
	c.Record(1)
	c.Record(2)
	c.Clear()
	if c.Total() != 0 || len(c.Buckets()) != 0 {
		t.Fatalf("clear left %d observations", c.Total())
	}
}

func TestCounterMerge(t *testing.T) {
	var a, b Counter
	a.Record(1)
	a.Record(5)
	b.Record(5)
	b.Record(9)
	a.Merge(&b)
	if a.Total() != 4 {
		t.Fatalf("merged total %d, want 4", a.Total())
	}
	buckets := a.Buckets()
	if len(buckets) != 3 || buckets[1].Rolls != 5 || buckets[1].Count != 2 {
		t.Fatalf("merge mishandled buckets: %+v", buckets)
	}
	a.Merge(nil) // no-op
	if a.Total() != 4 {
		t.Fatal("nil merge changed totals")
	}
}
