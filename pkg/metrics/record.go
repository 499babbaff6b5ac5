// Hierarchical per-server metrics records built from "path value" log lines
// Supports auto-vivifying reads, strict reads, and typed leaf accessors
package metrics

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotFound is returned by strict reads of a path that holds no value.
var ErrNotFound = errors.New("metric not found")

// Record is a string-keyed tree of metrics. Interior nodes are Records;
// leaves are int64, uint64 (counters past math.MaxInt64), float64, or string.
//
// Get creates missing nodes as it reads, so a misspelled path silently
// yields an empty Record. Analysis code should prefer Lookup, Int, Float,
// or GetRequired, which never modify the tree.
type Record map[string]any

// Get returns the value at p, creating an empty Record for every missing
// segment along the way (including the last one). If p runs through a
// leaf, a detached empty Record is returned and the tree is left alone.
// An empty path returns r itself.
func (r Record) Get(p Path) any {
	node := r
	for i, seg := range p {
		v, ok := node[seg]
		if !ok {
			child := Record{}
			node[seg] = child
			v = child
		}
		if i == len(p)-1 {
			return v
		}
		child, ok := v.(Record)
		if !ok {
			return Record{}
		}
		node = child
	}
	return node
}

// Lookup returns the value at p without modifying the tree.
func (r Record) Lookup(p Path) (any, bool) {
	if len(p) == 0 {
		return r, true
	}
	node := r
	for _, seg := range p[:len(p)-1] {
		child, ok := node[seg].(Record)
		if !ok {
			return nil, false
		}
		node = child
	}
	v, ok := node[p[len(p)-1]]
	return v, ok
}

// GetRequired is the strict form of Get: a missing path is an error
// wrapping ErrNotFound.
func (r Record) GetRequired(p Path) (any, error) {
	v, ok := r.Lookup(p)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return v, nil
}

// Assign stores value at p, creating intermediate Records as needed.
// An intermediate segment that currently holds a leaf is replaced.
func (r Record) Assign(p Path, value any) {
	if len(p) == 0 {
		panic("BUG: assign to empty metric path")
	}
	node := r
	for _, seg := range p[:len(p)-1] {
		child, ok := node[seg].(Record)
		if !ok {
			child = Record{}
			node[seg] = child
		}
		node = child
	}
	node[p[len(p)-1]] = value
}

// Int returns the integer leaf at p. An unsigned leaf too large for an
// int64 is reported as absent.
func (r Record) Int(p Path) (int64, bool) {
	v, ok := r.Lookup(p)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

// Float returns the numeric leaf at p as a float64. Integer leaves are converted.
func (r Record) Float(p Path) (float64, bool) {
	v, ok := r.Lookup(p)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Num returns the numeric leaf at p, or 0 when it is absent or not a number.
func (r Record) Num(p Path) float64 {
	f, _ := r.Float(p)
	return f
}

// Leaves calls fn for every leaf in the tree in unspecified order.
func (r Record) Leaves(fn func(p Path, value any)) {
	r.walk(nil, fn)
}

func (r Record) walk(prefix Path, fn func(p Path, value any)) {
	for k, v := range r {
		p := prefix.Child(k)
		if child, ok := v.(Record); ok {
			child.walk(p, fn)
			continue
		}
		fn(p, v)
	}
}
