// Tests for the statistics helpers
package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverage(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 7.0, Average([]float64{7}), 1e-12)
	assert.InDelta(t, 2.5, Average([]float64{1, 2, 3, 4}), 1e-12)
	assert.PanicsWithValue(t, "BUG: average of no points", func() { Average(nil) })
}

func TestSum(t *testing.T) {
	t.Parallel()

	assert.Zero(t, Sum(nil))
	assert.InDelta(t, 6.0, Sum([]float64{1, 2, 3}), 1e-12)
}

func TestAvgAndStdDev(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		points []float64
		avg    float64
		stddev float64
	}{
		{"single", []float64{4}, 4, 0},
		{"constant", []float64{3, 3, 3}, 3, 0},
		{"population", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 5, 2},
		{"pair", []float64{50, 150}, 100, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			avg, stddev := AvgAndStdDev(tt.points)
			assert.InDelta(t, tt.avg, avg, 1e-9)
			assert.InDelta(t, tt.stddev, stddev, 1e-9)
		})
	}
}

func TestStdDevFromMoments(t *testing.T) {
	t.Parallel()

	t.Run("slightly negative variance clamps to zero", func(t *testing.T) {
		t.Parallel()
		stddev, err := StdDevFromMoments(10, 99.95)
		require.NoError(t, err)
		assert.Zero(t, stddev)
	})

	t.Run("variance below tolerance is an error", func(t *testing.T) {
		t.Parallel()
		_, err := StdDevFromMoments(10, 99.8)
		var ie *InvariantError
		require.ErrorAs(t, err, &ie)
		assert.InDelta(t, -0.2, ie.Variance, 1e-9)
	})

	t.Run("positive variance", func(t *testing.T) {
		t.Parallel()
		stddev, err := StdDevFromMoments(3, 13)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, stddev, 1e-12)
	})

	t.Run("tolerance boundary is an error", func(t *testing.T) {
		t.Parallel()
		_, err := stddevOf(VarianceTolerance)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "below tolerance")
	})
}

func TestAvgAndExtremes(t *testing.T) {
	t.Parallel()

	avg, maxVal := AvgAndMax([]float64{50, 150})
	assert.InDelta(t, 100.0, avg, 1e-12)
	assert.InDelta(t, 150.0, maxVal, 1e-12)

	avg, minVal := AvgAndMin([]float64{-1, 5, 2})
	assert.InDelta(t, 2.0, avg, 1e-12)
	assert.InDelta(t, -1.0, minVal, 1e-12)

	avg, maxVal = AvgAndMax(nil)
	assert.Zero(t, avg)
	assert.Zero(t, maxVal)
	avg, minVal = AvgAndMin(nil)
	assert.Zero(t, avg)
	assert.Zero(t, minVal)
}

func TestTagged(t *testing.T) {
	t.Parallel()

	t.Run("max", func(t *testing.T) {
		t.Parallel()
		best, ok := MaxTagged([]Tagged{{3, "a"}, {7, "b"}, {7, "c"}, {1, "d"}})
		require.True(t, ok)
		assert.Equal(t, Tagged{7, "b"}, best)
	})

	t.Run("max of three", func(t *testing.T) {
		t.Parallel()
		best, ok := MaxTagged([]Tagged{{3, "a"}, {7, "b"}, {2, "c"}})
		require.True(t, ok)
		assert.Equal(t, Tagged{7, "b"}, best)
	})

	t.Run("max ignores non-positive values", func(t *testing.T) {
		t.Parallel()
		_, ok := MaxTagged([]Tagged{{-1, "a"}})
		assert.False(t, ok)
		_, ok = MaxTagged([]Tagged{{0, "a"}, {-5, "b"}})
		assert.False(t, ok)
		_, ok = MaxTagged(nil)
		assert.False(t, ok)
	})

	t.Run("min", func(t *testing.T) {
		t.Parallel()
		best, ok := MinTagged([]Tagged{{3, "a"}, {1, "b"}, {1, "c"}})
		require.True(t, ok)
		assert.Equal(t, Tagged{1, "b"}, best)
	})

	t.Run("min ignores huge values", func(t *testing.T) {
		t.Parallel()
		_, ok := MinTagged([]Tagged{{1e100, "a"}, {math.Inf(1), "b"}})
		assert.False(t, ok)
	})
}

func TestConversions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float64{1, 2}, Float64s([]int64{1, 2}))
	assert.Equal(t, []int{4}, Seq(4))
	assert.Empty(t, Seq[float64]())
}
