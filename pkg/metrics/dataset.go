// Recovery dataset: parsed servers plus their derived role classification
// Built once from a completed parse and treated as read-only afterwards
package metrics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultLogGlob selects the client log that collects every server's metrics.
const DefaultLogGlob = "client.*.log"

var recoveryNsPath = Path{"recoveryNs"}

// Dataset is everything known about one recovery run.
type Dataset struct {
	LogDir      string    `yaml:"log_dir"`
	LogFile     string    `yaml:"log_file"`
	Servers     []*Server `yaml:"servers"`
	Masters     []*Server `yaml:"-"`
	Backups     []*Server `yaml:"-"`
	Coordinator *Server   `yaml:"-"`
	TotalNodes  int       `yaml:"total_nodes"`
	Client      Record    `yaml:"client"`
}

// RecoveryNs is the wall-clock recovery duration reported by the client.
func (d *Dataset) RecoveryNs() (int64, bool) {
	return d.Client.Int(recoveryNsPath)
}

// Classification is the role split of a list of servers.
type Classification struct {
	Masters     []*Server
	Backups     []*Server
	Coordinator *Server
	// TotalNodes counts distinct server names, minus one for the coordinator.
	TotalNodes int
}

// Classify sorts servers into roles, preserving their order. A server can
// be both master and backup. If several servers claim to be coordinator the
// last one wins (see Coordinators).
func Classify(servers []*Server) Classification {
	var c Classification
	names := make(map[string]struct{}, len(servers))
	for _, s := range servers {
		if s.IsBackup() {
			c.Backups = append(c.Backups, s)
		}
		if s.IsMaster() {
			c.Masters = append(c.Masters, s)
		}
		if s.IsCoordinator() {
			c.Coordinator = s
		}
		names[s.Name] = struct{}{}
	}
	c.TotalNodes = len(names) - 1
	return c
}

// Coordinators counts the servers that claim the coordinator role.
func Coordinators(servers []*Server) int {
	n := 0
	for _, s := range servers {
		if s.IsCoordinator() {
			n++
		}
	}
	return n
}

// NewDataset parses a log and classifies its servers. The log is read
// twice, so it must be seekable back to the start.
func NewDataset(f io.ReadSeeker, name string) (*Dataset, error) {
	servers, err := Parse(f, name)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding %s: %w", name, err)
	}
	ns, found, err := ScanRecoveryNs(f)
	if err != nil {
		return nil, fmt.Errorf("scanning %s for recovery time: %w", name, err)
	}

	c := Classify(servers)
	ds := &Dataset{
		LogFile:     name,
		Servers:     servers,
		Masters:     c.Masters,
		Backups:     c.Backups,
		Coordinator: c.Coordinator,
		TotalNodes:  c.TotalNodes,
		Client:      Record{},
	}
	if found {
		ds.Client.Assign(recoveryNsPath, ns)
	}
	return ds, nil
}

// LoadOptions controls how a recovery directory is read.
type LoadOptions struct {
	// LogGlob selects the log file inside the directory (default DefaultLogGlob).
	LogGlob string
	// Warnings receives non-fatal diagnostics; nil discards them.
	Warnings io.Writer
}

// LoadRecovery reads the first log matching opts.LogGlob in dir.
func LoadRecovery(dir string, opts LoadOptions) (*Dataset, error) {
	logDir, err := resolveDir(dir)
	if err != nil {
		return nil, err
	}

	pattern := opts.LogGlob
	if pattern == "" {
		pattern = DefaultLogGlob
	}
	matches, err := filepath.Glob(filepath.Join(logDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid log pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no log matching %q in %s", pattern, logDir)
	}
	sort.Strings(matches)
	logFile := matches[0]

	f, err := os.Open(logFile) //nolint:gosec // user-supplied recovery directory is expected
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	defer f.Close() //nolint:errcheck // best-effort close on read-only file

	ds, err := NewDataset(f, logFile)
	if err != nil {
		return nil, err
	}
	ds.LogDir = logDir

	if opts.Warnings != nil {
		if n := Coordinators(ds.Servers); n > 1 {
			_, _ = fmt.Fprintf(opts.Warnings, "Warning: %d servers report coordinator metrics, using %s\n", n, ds.Coordinator.Name)
		}
		if _, ok := ds.RecoveryNs(); !ok {
			_, _ = fmt.Fprintf(opts.Warnings, "Warning: no \"Recovery completed\" line in %s\n", logFile)
		}
	}
	return ds, nil
}

// resolveDir expands a leading ~ and resolves symlinks, so "recovery/latest"
// is reported as the concrete run directory.
func resolveDir(dir string) (string, error) {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("finding home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	return resolved, nil
}
