package analysis

import (
	"math"
	"testing"
)

func TestPeriodogramFindsSinusoid(t *testing.T) {
	const period = 55.0
	// transit-like sampling: irregular spacing, short baseline
	times := []float64{2, 12.1, 21.9, 32, 42.2, 51.8, 62, 72.1, 81.9, 92, 102.2, 111.8, 122, 132.1, 141.9, 152}
	y := make([]float64, len(times))
	for i, ti := range times {
		y[i] = 0.005 * math.Sin(2*math.Pi*ti/period+0.7)
	}

	grid := PeriodGrid(20, 200, 500)
	best, power := BestPeriod(times, y, grid)
	if math.Abs(best-period)/period > 0.05 {
		t.Errorf("best period: got %g want ~%g", best, period)
	}
	if power < 1 {
		t.Errorf("peak power too weak: %g", power)
	}
}

func TestPeriodogramFlatSeries(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	y := []float64{1, 1, 1, 1, 1}
	for _, pw := range Periodogram(times, y, PeriodGrid(2, 10, 20)) {
		if pw != 0 {
			t.Fatalf("flat series should have zero power, got %g", pw)
		}
	}
}

func TestPeriodGrid(t *testing.T) {
	grid := PeriodGrid(10, 100, 11)
	if len(grid) != 11 {
		t.Fatalf("length: got %d", len(grid))
	}
	if math.Abs(grid[0]-10) > 1e-9 || math.Abs(grid[10]-100) > 1e-9 {
		t.Errorf("endpoints: %g %g", grid[0], grid[10])
	}
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			t.Fatal("grid should increase")
		}
	}

	if PeriodGrid(0, 10, 5) != nil || PeriodGrid(10, 5, 5) != nil || PeriodGrid(1, 2, 1) != nil {
		t.Error("bad arguments should yield nil")
	}
}

func TestPeriodogramShortSeries(t *testing.T) {
	power := Periodogram([]float64{0, 1}, []float64{0, 1}, []float64{5})
	if power[0] != 0 {
		t.Error("two points cannot constrain a period")
	}
}
