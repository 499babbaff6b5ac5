// Property-based tests for the statistics helpers using pgregory.net/rapid
package stats

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

var valueGen = rapid.Float64Range(-1e5, 1e5)

func TestPropertyConstantSequenceHasNoSpread(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		v := valueGen.Draw(t, "v")
		n := rapid.IntRange(1, 50).Draw(t, "n")
		points := make([]float64, n)
		for i := range points {
			points[i] = v
		}
		avg, stddev := AvgAndStdDev(points)
		if math.Abs(avg-v) > 1e-9*math.Max(1, math.Abs(v)) {
			t.Fatalf("avg = %v, want %v", avg, v)
		}
		if stddev > 1e-6*math.Max(1, math.Abs(v)) {
			t.Fatalf("stddev of constant %v x%d = %v, want ~0", v, n, stddev)
		}
	})
}

func TestPropertyAverageOfOne(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		x := valueGen.Draw(t, "x")
		if got := Average([]float64{x}); got != x {
			t.Fatalf("Average([%v]) = %v", x, got)
		}
	})
}

func TestPropertyAverageBetweenExtremes(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		points := rapid.SliceOfN(valueGen, 1, 100).Draw(t, "points")
		avg, maxVal := AvgAndMax(points)
		_, minVal := AvgAndMin(points)
		slack := 1e-9 * math.Max(1, math.Max(math.Abs(minVal), math.Abs(maxVal)))
		if avg < minVal-slack || avg > maxVal+slack {
			t.Fatalf("avg %v outside [%v, %v]", avg, minVal, maxVal)
		}
		if _, stddev := AvgAndStdDev(points); stddev < 0 {
			t.Fatalf("negative stddev %v", stddev)
		}
	})
}

func TestPropertyTaggedPicksExtremes(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOfN(rapid.Float64Range(0.001, 1e6), 1, 20).Draw(t, "values")
		ts := make([]Tagged, len(values))
		for i, v := range values {
			ts[i] = Tagged{Value: v, Tag: string(rune('a' + i))}
		}
		best, ok := MaxTagged(ts)
		if !ok {
			t.Fatal("MaxTagged found nothing among positive values")
		}
		worst, ok := MinTagged(ts)
		if !ok {
			t.Fatal("MinTagged found nothing")
		}
		for _, x := range ts {
			if x.Value > best.Value || x.Value < worst.Value {
				t.Fatalf("%v escapes [%v, %v]", x, worst, best)
			}
		}
	})
}
