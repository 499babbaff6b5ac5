// Per-server metrics and role classification
// A server's role is derived from its recoveryCount counters, never stored
package metrics

var (
	clockFrequencyPath     = Path{"clockFrequency"}
	backupRecoveryCount    = Path{"backup", "recoveryCount"}
	masterRecoveryCount    = Path{"master", "recoveryCount"}
	coordinatorRecoveryCnt = Path{"coordinator", "recoveryCount"}
)

// Server holds the metrics logged by one server between its "begin server"
// marker and the next one.
type Server struct {
	Name   string `yaml:"server"`
	Record Record `yaml:"metrics"`
}

// NewServer creates a server with an empty record.
func NewServer(name string) *Server {
	return &Server{Name: name, Record: Record{}}
}

// IsBackup reports whether the server took part in recovery as a backup.
func (s *Server) IsBackup() bool { return s.Record.Num(backupRecoveryCount) > 0 }

// IsMaster reports whether the server took part in recovery as a master.
func (s *Server) IsMaster() bool { return s.Record.Num(masterRecoveryCount) > 0 }

// IsCoordinator reports whether the server coordinated the recovery.
func (s *Server) IsCoordinator() bool { return s.Record.Num(coordinatorRecoveryCnt) > 0 }

// Role names the server's role for labelling: "coordinator", "master",
// "backup", "master+backup", or "none".
func (s *Server) Role() string {
	switch {
	case s.IsCoordinator():
		return "coordinator"
	case s.IsMaster() && s.IsBackup():
		return "master+backup"
	case s.IsMaster():
		return "master"
	case s.IsBackup():
		return "backup"
	default:
		return "none"
	}
}

// ClockFrequency returns the server's cycle counter frequency in Hz.
func (s *Server) ClockFrequency() (float64, bool) {
	f, ok := s.Record.Float(clockFrequencyPath)
	if !ok || f == 0 {
		return 0, false
	}
	return f, true
}

// Seconds converts the tick counter at p into seconds using the server's
// own clock frequency. It is absent when the counter or frequency is missing.
func (s *Server) Seconds(p Path) (float64, bool) {
	ticks, ok := s.Record.Float(p)
	if !ok {
		return 0, false
	}
	hz, ok := s.ClockFrequency()
	if !ok {
		return 0, false
	}
	return ticks / hz, true
}
