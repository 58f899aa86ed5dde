package monitor

import (
	"time"

	"github.com/kanhucharan/controllermon/internal/domain"
)

type action int

const (
	actionNone action = iota
	actionRaise
	actionClear
)

// evaluate decides whether the current record calls for a notification.
//
// An alert is raised once an outage has lasted at least threshold of
// wall-clock time and no alert has been delivered for it yet. The caller
// marks the record Alerted only after a successful send, so a failed send
// re-fires here on the next cycle.
//
// A recovery notice is due when the host is back online while the outage it
// ended was alerted. The caller clears Alerted whether or not the notice
// goes through; a lost recovery email is not retried.
func evaluate(rec *domain.ControllerRecord, now time.Time, threshold time.Duration) action {
	switch {
	case rec.State == domain.StateOffline && !rec.Alerted && now.Sub(rec.LastChange) >= threshold:
		return actionRaise
	case rec.State == domain.StateOnline && rec.Alerted:
		return actionClear
	default:
		return actionNone
	}
}
