// Log scanner that turns "Metrics:" lines into per-server records
// Each "begin server" marker opens a record; "path value" lines fill the latest one
package metrics

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	metricsLineRe  = regexp.MustCompile(`^.* Metrics: (.*)$`)
	beginServerRe  = regexp.MustCompile(`^begin server (.*)`)
	hostRe         = regexp.MustCompile(`host=([^,]*)`)
	recoveryTimeRe = regexp.MustCompile(`\bRecovery completed in (\d+) ns\b`)
)

// maxLineSize bounds a single log line. Server info lines can be long.
const maxLineSize = 1 << 20

// Parse scans a log containing metrics for several servers and returns one
// Server per "begin server" marker, in log order. name identifies the
// source in error messages.
func Parse(r io.Reader, name string) ([]*Server, error) {
	var servers []*Server

	sc := newLineScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		m := metricsLineRe.FindStringSubmatch(strings.TrimRight(sc.Text(), "\r"))
		if m == nil {
			continue
		}
		info := m[1]

		if start := beginServerRe.FindStringSubmatch(info); start != nil {
			servers = append(servers, NewServer(serverName(start[1])))
			continue
		}
		if len(servers) == 0 {
			return nil, &ParseError{File: name, Line: lineNo, Kind: ErrStructural}
		}

		p, value, err := parseAssignment(info)
		if err != nil {
			return nil, &ParseError{File: name, Line: lineNo, Kind: ErrMalformedLine, Err: err}
		}
		servers[len(servers)-1].Record.Assign(p, value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	if len(servers) == 0 {
		return nil, &ParseError{File: name, Kind: ErrEmptyLog}
	}
	return servers, nil
}

// serverName picks a short human-readable name: the host= token if present,
// otherwise the whole info string.
func serverName(info string) string {
	if m := hostRe.FindStringSubmatch(info); m != nil {
		return m[1]
	}
	return info
}

// parseAssignment splits "a.b.c 123" into its path and integer value.
// Counters past math.MaxInt64 are kept as uint64.
func parseAssignment(info string) (Path, any, error) {
	fields := strings.Split(info, " ")
	if len(fields) != 2 {
		return nil, 0, fmt.Errorf("expected \"<path> <value>\", got %q", info)
	}
	p, err := ParsePath(fields[0])
	if err != nil {
		return nil, 0, err
	}
	v, err := strconv.ParseInt(fields[1], 10, 64)
	if err == nil {
		return p, v, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		if u, uerr := strconv.ParseUint(fields[1], 10, 64); uerr == nil {
			return p, u, nil
		}
	}
	return nil, 0, fmt.Errorf("metric %s: invalid value %q", p, fields[1])
}

// ScanRecoveryNs returns the duration reported by the first
// "Recovery completed in <N> ns" line.
func ScanRecoveryNs(r io.Reader) (int64, bool, error) {
	sc := newLineScanner(r)
	for sc.Scan() {
		m := recoveryTimeRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		ns, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("recovery time %q: %w", m[1], err)
		}
		return ns, true, nil
	}
	if err := sc.Err(); err != nil {
		return 0, false, err
	}
	return 0, false, nil
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}
