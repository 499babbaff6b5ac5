// Small statistics helpers used by the recovery report
// Means, population standard deviation, extrema, and tagged extremum selection
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Number is any numeric type a report point may have.
type Number interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// VarianceTolerance is how far below zero a computed variance may fall
// before it is treated as a bug rather than floating point noise.
const VarianceTolerance = -0.1

// InvariantError is raised when E[X^2] - E[X]^2 is more negative than
// VarianceTolerance allows.
type InvariantError struct {
	Variance float64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("computed variance %g is below tolerance %g", e.Variance, VarianceTolerance)
}

// Seq gathers one or more values into a slice, so callers with a single
// scalar and callers with a per-server series share one code path.
func Seq[T any](xs ...T) []T {
	return xs
}

// Float64s converts a slice of numbers to float64.
func Float64s[T Number](xs []T) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

// Sum adds up points. The sum of no points is 0.
func Sum(points []float64) float64 {
	if len(points) == 0 {
		return 0
	}
	return floats.Sum(points)
}

// Average returns the arithmetic mean. points must not be empty.
func Average(points []float64) float64 {
	if len(points) == 0 {
		panic("BUG: average of no points")
	}
	return stat.Mean(points, nil)
}

// AvgAndStdDev returns the mean and population standard deviation of
// points, computed as sqrt(E[X^2] - E[X]^2). Slightly negative variances
// are clamped to zero; a variance at or below VarianceTolerance panics
// with *InvariantError.
func AvgAndStdDev(points []float64) (avg, stddev float64) {
	avg, stddev, err := CheckedAvgAndStdDev(points)
	if err != nil {
		panic(err)
	}
	return avg, stddev
}

// CheckedAvgAndStdDev is AvgAndStdDev with the invariant violation
// returned as an error instead of a panic.
func CheckedAvgAndStdDev(points []float64) (avg, stddev float64, err error) {
	avg = Average(points)
	squares := make([]float64, len(points))
	for i, p := range points {
		squares[i] = p * p
	}
	stddev, err = StdDevFromMoments(avg, Average(squares))
	return avg, stddev, err
}

// AvgAndMax returns the mean and largest of points, or (0, 0) if there are none.
func AvgAndMax(points []float64) (avg, maxVal float64) {
	if len(points) == 0 {
		return 0, 0
	}
	maxVal = points[0]
	for _, p := range points {
		if p > maxVal {
			maxVal = p
		}
	}
	return Average(points), maxVal
}

// AvgAndMin returns the mean and smallest of points, or (0, 0) if there are none.
func AvgAndMin(points []float64) (avg, minVal float64) {
	if len(points) == 0 {
		return 0, 0
	}
	minVal = points[0]
	for _, p := range points {
		if p < minVal {
			minVal = p
		}
	}
	return Average(points), minVal
}

// Tagged is a value labelled with where it came from, usually a server name.
type Tagged struct {
	Value float64
	Tag   string
}

// MaxTagged returns the element with the largest Value. Only values above
// zero qualify, so an empty or all non-positive input reports false. Ties
// keep the earliest element.
func MaxTagged(ts []Tagged) (Tagged, bool) {
	var best Tagged
	found := false
	threshold := 0.0
	for _, t := range ts {
		if t.Value > threshold {
			threshold = t.Value
			best = t
			found = true
		}
	}
	return best, found
}

// MinTagged returns the element with the smallest Value, ignoring values
// of 1e100 and above. Ties keep the earliest element.
func MinTagged(ts []Tagged) (Tagged, bool) {
	var best Tagged
	found := false
	threshold := 1e100
	for _, t := range ts {
		if t.Value < threshold {
			threshold = t.Value
			best = t
			found = true
		}
	}
	return best, found
}

// stddevOf turns a variance into a standard deviation, applying the
// negative-variance tolerance.
func stddevOf(variance float64) (float64, error) {
	if variance < 0 {
		if variance <= VarianceTolerance {
			return 0, &InvariantError{Variance: variance}
		}
		return 0, nil
	}
	return math.Sqrt(variance), nil
}

// StdDevFromMoments computes a standard deviation from a mean and a mean of
// squares that were accumulated elsewhere (for example by a server that
// only reports sums), with the same tolerance as AvgAndStdDev.
func StdDevFromMoments(mean, meanOfSquares float64) (float64, error) {
	return stddevOf(meanOfSquares - mean*mean)
}
