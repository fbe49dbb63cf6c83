package resolve

import "log/slog"

// Stats counts what one resolution pass did. It is a summary for logs and
// display, not a success flag: failures are reported as diagnostics.
type Stats struct {
	// Fields is the number of bound fields visited.
	Fields int
	// Instances is the number of (field, component) pairs visited.
	Instances int
	// Outcomes counts pairs per outcome.
	Outcomes map[Outcome]int
	// Failed counts pairs whose creation or assignment failed in the scene.
	Failed int
}

func newStats() Stats {
	return Stats{Outcomes: make(map[Outcome]int, len(Outcomes))}
}

// Count returns the number of pairs that ended in o.
func (s Stats) Count(o Outcome) int {
	return s.Outcomes[o]
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("fields", s.Fields),
		slog.Int("instances", s.Instances),
	}

	for _, o := range Outcomes {
		if n := s.Outcomes[o]; n > 0 {
			attrs = append(attrs, slog.Int(o.String(), n))
		}
	}

	if s.Failed > 0 {
		attrs = append(attrs, slog.Int("failed", s.Failed))
	}

	return slog.GroupValue(attrs...)
}
