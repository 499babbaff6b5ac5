// Dotted metric addresses such as "master.recoveryTicks"
// A Path is parsed once and reused instead of splitting strings at every lookup
package metrics

import (
	"fmt"
	"strings"
)

// Path is the address of a value inside a Record, one element per nesting level.
type Path []string

// ParsePath splits a dotted path into its segments.
// Empty paths and empty segments ("a..b", ".a") are rejected.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("empty metric path")
	}
	segs := strings.Split(s, ".")
	for _, seg := range segs {
		if seg == "" {
			return nil, fmt.Errorf("metric path %q has an empty segment", s)
		}
	}
	return Path(segs), nil
}

// MustPath is ParsePath for compile-time constant paths. It panics on a malformed path.
func MustPath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(fmt.Sprintf("BUG: %v", err))
	}
	return p
}

// Child returns a new path with name appended. The receiver is not modified.
func (p Path) Child(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

func (p Path) String() string {
	return strings.Join(p, ".")
}
