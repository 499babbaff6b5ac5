// Per-server derived quantities that may be absent
// A quantity is absent when a counter is missing or a denominator is zero
package analysis

import (
	"math"

	"github.com/SimbaWei/RAMCloud/pkg/metrics"
	"github.com/SimbaWei/RAMCloud/pkg/stats"
)

// quantity derives one number from a server's metrics.
type quantity func(s *metrics.Server) (float64, bool)

// field reads a numeric leaf as-is.
func field(path metrics.Path) quantity {
	return func(s *metrics.Server) (float64, bool) {
		return s.Record.Float(path)
	}
}

// seconds converts a tick counter to seconds with the server's clock frequency.
func seconds(path metrics.Path) quantity {
	return func(s *metrics.Server) (float64, bool) {
		return s.Seconds(path)
	}
}

// residual is the time in total not accounted for by parts, in seconds.
func residual(total metrics.Path, parts ...metrics.Path) quantity {
	return func(s *metrics.Server) (float64, bool) {
		ticks, ok := s.Record.Float(total)
		if !ok {
			return 0, false
		}
		for _, part := range parts {
			v, ok := s.Record.Float(part)
			if !ok {
				return 0, false
			}
			ticks -= v
		}
		hz, ok := s.ClockFrequency()
		if !ok {
			return 0, false
		}
		return ticks / hz, true
	}
}

// sum adds quantities together.
func sum(qs ...quantity) quantity {
	return func(s *metrics.Server) (float64, bool) {
		total := 0.0
		for _, q := range qs {
			v, ok := q(s)
			if !ok {
				return 0, false
			}
			total += v
		}
		return total, true
	}
}

// ratio divides num by den, absent when den is zero.
func ratio(num, den quantity) quantity {
	return func(s *metrics.Server) (float64, bool) {
		n, ok := num(s)
		if !ok {
			return 0, false
		}
		d, ok := den(s)
		if !ok || d == 0 {
			return 0, false
		}
		return n / d, true
	}
}

// scale multiplies a quantity by a constant.
func scale(q quantity, k float64) quantity {
	return func(s *metrics.Server) (float64, bool) {
		v, ok := q(s)
		return v * k, ok
	}
}

// ceil rounds a quantity up to the next integer.
func ceil(q quantity) quantity {
	return func(s *metrics.Server) (float64, bool) {
		v, ok := q(s)
		return math.Ceil(v), ok
	}
}

// each evaluates q on every server. The result is absent if q is absent
// for any of them.
func each(servers []*metrics.Server, q quantity) ([]float64, bool) {
	out := make([]float64, 0, len(servers))
	for _, s := range servers {
		v, ok := q(s)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// present evaluates q on every server and keeps only the values that exist.
func present(servers []*metrics.Server, q quantity) []float64 {
	var out []float64
	for _, s := range servers {
		if v, ok := q(s); ok {
			out = append(out, v)
		}
	}
	return out
}

// counts reads an integer counter from every server, absent if any lacks it.
func counts(servers []*metrics.Server, path metrics.Path) ([]int64, bool) {
	out := make([]int64, 0, len(servers))
	for _, s := range servers {
		v, ok := s.Record.Int(path)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// total adds q over every server, absent if q is absent for any of them.
func total(servers []*metrics.Server, q quantity) (float64, bool) {
	vs, ok := each(servers, q)
	if !ok {
		return 0, false
	}
	return stats.Sum(vs), true
}

// totalCount adds an integer counter over every server.
func totalCount(servers []*metrics.Server, path metrics.Path) (int64, bool) {
	cs, ok := counts(servers, path)
	if !ok {
		return 0, false
	}
	var t int64
	for _, c := range cs {
		t += c
	}
	return t, true
}
