// Line composition policies that summarise one value or a per-server series
// Each policy formats averages, spreads, sums, and percentages of a total
package report

import (
	"fmt"
	"strings"

	"github.com/SimbaWei/RAMCloud/pkg/stats"
)

// Number is any numeric point type accepted by the composition policies.
type Number = stats.Number

// Formats shared by the policies.
const (
	IntFormat    = "%6d"
	FloatFormat  = "%6.1f"
	StringFormat = "%6s"
	MsFormat     = "%6.1f ms"
)

type options struct {
	format        string
	total         float64
	hasTotal      bool
	fractionLabel string
	note          string
}

// Option customises a composed line.
type Option func(*options)

// WithFormat sets the printf format used for every point column.
// Integer points are converted when the format expects a float and vice versa.
func WithFormat(format string) Option {
	return func(o *options) { o.format = format }
}

// WithTotal adds a percentage-of-total column.
func WithTotal(total float64) Option {
	return func(o *options) {
		o.total = total
		o.hasTotal = true
	}
}

// WithFractionLabel is printed after the percentage column, e.g. "of total recovery".
func WithFractionLabel(label string) Option {
	return func(o *options) { o.fractionLabel = label }
}

// WithNote appends "(note)" to the line.
func WithNote(note string) Option {
	return func(o *options) { o.note = note }
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// AvgMinSum adds a line with the average, minimum, and sum of points. A
// single point is shown on its own. Without WithFormat the average and
// minimum use FloatFormat and the sum keeps the points' natural format.
// An empty series adds nothing.
func AvgMinSum[T Number](s *Section, label string, points []T, opts ...Option) {
	if len(points) == 0 {
		return
	}
	o := collect(opts)
	if len(points) == 1 {
		s.Line(label, []string{formatPoint(o.format, points[0])}, o.note)
		return
	}

	avgFormat, sumFormat := o.format, o.format
	if o.format == "" {
		avgFormat = FloatFormat
		sumFormat = DefaultFormat(points[0])
	}
	var sum T
	for _, p := range points {
		sum += p
	}
	avg, minVal := stats.AvgAndMin(stats.Float64s(points))
	s.Line(label, []string{
		sprintf(avgFormat, avg) + " avg",
		"min " + sprintf(avgFormat, minVal),
		sprintf(sumFormat, sum) + " total",
	}, o.note)
}

// AvgStdFrac adds a line with the average and standard deviation of points
// and, given WithTotal, the average as a percentage of the total. A single
// point is shown on its own, with its own percentage.
func AvgStdFrac[T Number](s *Section, label string, points []T, opts ...Option) {
	spreadLine(s, label, points, collect(opts), "stddev", stats.AvgAndStdDev)
}

// AvgStd is AvgStdFrac without a percentage column: any WithTotal option is ignored.
func AvgStd[T Number](s *Section, label string, points []T, opts ...Option) {
	o := collect(opts)
	o.hasTotal = false
	spreadLine(s, label, points, o, "stddev", stats.AvgAndStdDev)
}

// AvgMaxFrac is AvgStdFrac showing the largest point instead of the standard deviation.
func AvgMaxFrac[T Number](s *Section, label string, points []T, opts ...Option) {
	spreadLine(s, label, points, collect(opts), "max", stats.AvgAndMax)
}

// AvgMinFrac is AvgStdFrac showing the smallest point instead of the standard deviation.
func AvgMinFrac[T Number](s *Section, label string, points []T, opts ...Option) {
	spreadLine(s, label, points, collect(opts), "min", stats.AvgAndMin)
}

// Ms is AvgMaxFrac for durations given in seconds and shown in milliseconds.
// Points and any total are scaled by 1000; the format is always MsFormat.
func Ms[T Number](s *Section, label string, points []T, opts ...Option) {
	o := collect(opts)
	o.format = MsFormat
	o.total *= 1000
	ms := make([]float64, len(points))
	for i, p := range points {
		ms[i] = float64(p) * 1000
	}
	spreadLine(s, label, ms, o, "max", stats.AvgAndMax)
}

func spreadLine[T Number](s *Section, label string, points []T, o options, spreadName string, spread func([]float64) (float64, float64)) {
	if len(points) == 0 {
		return
	}
	fractionLabel := ""
	if o.fractionLabel != "" {
		fractionLabel = " " + o.fractionLabel
	}
	withPercent := o.hasTotal && o.total != 0

	var columns []string
	if len(points) == 1 {
		p := points[0]
		columns = append(columns, formatPoint(o.format, p))
		if withPercent {
			columns = append(columns, Percent(float64(p)/o.total)+fractionLabel)
		}
	} else {
		format := o.format
		if format == "" {
			format = FloatFormat
		}
		avg, x := spread(stats.Float64s(points))
		columns = append(columns,
			sprintf(format, avg)+" avg",
			spreadName+" "+sprintf(format, x),
		)
		if withPercent {
			columns = append(columns, Percent(avg/o.total)+" avg"+fractionLabel)
		}
	}
	s.Line(label, columns, o.note)
}

// Percent renders a ratio as a percentage with two decimals, right-aligned
// to six characters including the percent sign: 0.5 becomes "50.00%".
func Percent(ratio float64) string {
	return fmt.Sprintf("%6s", fmt.Sprintf("%.2f%%", ratio*100))
}

// DefaultFormat picks a format for a value: IntFormat for integers,
// FloatFormat for floats, StringFormat for anything else.
func DefaultFormat(x any) string {
	switch x.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return IntFormat
	case float32, float64:
		return FloatFormat
	default:
		return StringFormat
	}
}

func formatPoint(format string, v any) string {
	if format == "" {
		format = DefaultFormat(v)
	}
	return sprintf(format, v)
}

// sprintf formats a single value, converting between integer and float
// representations to suit the format's verb.
func sprintf(format string, v any) string {
	switch verb(format) {
	case 'e', 'E', 'f', 'F', 'g', 'G':
		if f, ok := toFloat(v); ok {
			v = f
		}
	case 'd':
		if f, ok := v.(float64); ok {
			v = int64(f)
		} else if f, ok := v.(float32); ok {
			v = int64(f)
		}
	case 's':
		if _, ok := v.(string); !ok {
			v = fmt.Sprint(v)
		}
	}
	return fmt.Sprintf(format, v)
}

// verb returns the conversion character of the first directive in format.
func verb(format string) byte {
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		j := i + 1
		if j < len(format) && format[j] == '%' {
			i = j
			continue
		}
		for j < len(format) && strings.IndexByte("+-# 0123456789.", format[j]) >= 0 {
			j++
		}
		if j < len(format) {
			return format[j]
		}
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
