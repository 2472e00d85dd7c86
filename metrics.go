package otf

import (
	"time"

	"go.uber.org/atomic"
)

// Metrics tracks per-device exchange statistics.
type Metrics struct {
	CommandsSent   atomic.Int64 // commands written to the device
	CommandErrors  atomic.Int64 // exchanges that failed
	BytesWritten   atomic.Int64 // total bytes written
	BytesRead      atomic.Int64 // total bytes read
	RepliesDropped atomic.Int64 // oversized reply frames discarded
	LastExchange   atomic.Int64 // unix nanoseconds of the last completed exchange
}

// MetricsSnapshot is a point-in-time copy of a device's counters.
type MetricsSnapshot struct {
	CommandsSent   int64
	CommandErrors  int64
	BytesWritten   int64
	BytesRead      int64
	RepliesDropped int64
	LastExchange   time.Time
}

func (m *Metrics) snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		CommandsSent:   m.CommandsSent.Load(),
		CommandErrors:  m.CommandErrors.Load(),
		BytesWritten:   m.BytesWritten.Load(),
		BytesRead:      m.BytesRead.Load(),
		RepliesDropped: m.RepliesDropped.Load(),
	}
	if ns := m.LastExchange.Load(); ns > 0 {
		s.LastExchange = time.Unix(0, ns)
	}
	return s
}

// CommandSuccessRate returns the share of exchanges that completed, in
// percent. A device with no traffic reports 100.
func (s MetricsSnapshot) CommandSuccessRate() float64 {
	total := s.CommandsSent + s.CommandErrors
	if total == 0 {
		return 100.0
	}
	return float64(s.CommandsSent) / float64(total) * 100
}

// Metrics returns a snapshot of the device's exchange counters.
func (d *Device) Metrics() MetricsSnapshot {
	return d.metrics.snapshot()
}
