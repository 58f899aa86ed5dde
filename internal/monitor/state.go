package monitor

import (
	"time"

	"github.com/kanhucharan/controllermon/internal/domain"
)

// observe folds one probe reading into the record and reports the resulting
// transition, or nil when the reading confirms the current state. The first
// reading for a host always transitions out of StateUnknown so history gets
// an initial row per host.
//
// Alerted is reset when entering StateOffline (a fresh outage is unalerted).
// Entering StateOnline leaves Alerted untouched: the alert policy must still
// see it to emit the recovery notice for the outage that just ended, and it
// clears the flag in the same cycle.
func observe(rec *domain.ControllerRecord, online bool, now time.Time) *domain.Transition {
	next := domain.StateOffline
	if online {
		next = domain.StateOnline
	}
	if rec.State == next {
		return nil
	}

	rec.State = next
	rec.LastChange = now
	if next == domain.StateOffline {
		rec.Alerted = false
	}
	return &domain.Transition{Host: rec.Host, To: next, At: now}
}
