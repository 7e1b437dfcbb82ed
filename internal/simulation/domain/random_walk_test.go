package domain_test

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/stocktracking/internal/simulation/domain"
)

// stubRand 回放固定的随机序列
type stubRand struct {
	ints   []int
	floats []float64
	i, f   int
}

func (r *stubRand) IntN(n int) int {
	v := r.ints[r.i%len(r.ints)]
	r.i++
	return v % n
}

func (r *stubRand) Float64() float64 {
	v := r.floats[r.f%len(r.floats)]
	r.f++
	return v
}

func TestPickCountStaysWithinBounds(t *testing.T) {
	walk := domain.NewRandomWalk(rand.New(rand.NewPCG(1, 2)))

	for _, n := range []int{1, 2, 3, 4, 10, 11} {
		upper := n/2 + 1
		for i := 0; i < 200; i++ {
			k := walk.PickCount(n)
			if k < 1 || k > upper {
				t.Fatalf("PickCount(%d) = %d, want within [1, %d]", n, k, upper)
			}
		}
	}
}

func TestPickCountCoversFullRange(t *testing.T) {
	walk := domain.NewRandomWalk(rand.New(rand.NewPCG(7, 11)))

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		seen[walk.PickCount(10)] = true
	}
	if !seen[1] || !seen[6] {
		t.Errorf("500 draws over [1,6] should cover both endpoints, seen = %v", seen)
	}
}

func TestPickCountEmptyCatalog(t *testing.T) {
	walk := domain.NewRandomWalk(&stubRand{ints: []int{0}, floats: []float64{0.5}})

	if got := walk.PickCount(0); got != 0 {
		t.Errorf("PickCount(0) = %d, want 0", got)
	}
}

func TestNextPriceUnchangedAtMidpoint(t *testing.T) {
	walk := domain.NewRandomWalk(&stubRand{ints: []int{0}, floats: []float64{0.5}})

	next := walk.NextPrice(decimal.RequireFromString("100.00"))
	if !next.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("NextPrice = %s, want 100.00 at zero delta", next)
	}
}

func TestNextPriceClampsToFloor(t *testing.T) {
	// Float64 = 0 对应最大跌幅 -5%
	walk := domain.NewRandomWalk(&stubRand{ints: []int{0}, floats: []float64{0}})

	for _, current := range []string{"1.00", "1.02", "1.05"} {
		next := walk.NextPrice(decimal.RequireFromString(current))
		if !next.Equal(decimal.NewFromInt(1)) {
			t.Errorf("NextPrice(%s) = %s, want exactly 1.00 after clamping", current, next)
		}
	}
}

func TestNextPriceRoundsHalfAwayFromZero(t *testing.T) {
	// delta = +0.025：10.20 * 1.025 = 10.455，恰好一半，应入到 10.46
	up := domain.NewRandomWalk(&stubRand{ints: []int{0}, floats: []float64{0.75}})
	next := up.NextPrice(decimal.RequireFromString("10.20"))
	if got := next.StringFixed(2); got != "10.46" {
		t.Errorf("NextPrice(10.20, +2.5%%) = %s, want 10.46", got)
	}

	// delta = -0.025：10.20 * 0.975 = 9.945，恰好一半，应入到 9.95
	down := domain.NewRandomWalk(&stubRand{ints: []int{0}, floats: []float64{0.25}})
	next = down.NextPrice(decimal.RequireFromString("10.20"))
	if got := next.StringFixed(2); got != "9.95" {
		t.Errorf("NextPrice(10.20, -2.5%%) = %s, want 9.95", got)
	}
}

func TestNextPriceStaysWithinSwingBand(t *testing.T) {
	walk := domain.NewRandomWalk(rand.New(rand.NewPCG(3, 5)))
	current := decimal.RequireFromString("150.00")
	low := decimal.RequireFromString("142.49")
	high := decimal.RequireFromString("157.51")

	for i := 0; i < 1000; i++ {
		next := walk.NextPrice(current)
		if next.LessThan(low) || next.GreaterThan(high) {
			t.Fatalf("NextPrice = %s, want within [%s, %s]", next, low, high)
		}
		if !next.Equal(next.Round(2)) {
			t.Fatalf("NextPrice = %s, want at most two decimal places", next)
		}
	}
}

func TestPickIndexCoversCatalog(t *testing.T) {
	walk := domain.NewRandomWalk(rand.New(rand.NewPCG(13, 17)))

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		idx := walk.PickIndex(10)
		if idx < 0 || idx > 9 {
			t.Fatalf("PickIndex(10) = %d, out of range", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 10 {
		t.Errorf("500 draws should cover all 10 indices, covered %d", len(seen))
	}
}

func TestDefaultCatalogIsComplete(t *testing.T) {
	catalog := domain.DefaultCatalog()

	if len(catalog) != 10 {
		t.Fatalf("catalog size = %d, want 10", len(catalog))
	}
	for _, seed := range catalog {
		if seed.Symbol == "" || seed.CompanyName == "" {
			t.Errorf("seed %+v has empty fields", seed)
		}
		if !seed.Price.IsPositive() {
			t.Errorf("seed %s price = %s, want positive", seed.Symbol, seed.Price)
		}
	}
	if catalog[0].Symbol != "AAPL" || catalog[0].Price.StringFixed(2) != "150.00" {
		t.Errorf("catalog[0] = %s/%s, want AAPL/150.00", catalog[0].Symbol, catalog[0].Price)
	}
}
