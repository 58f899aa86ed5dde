package domain

import "time"

// State is the availability state of a controller.
type State string

const (
	// StateUnknown means no probe has completed yet for the host.
	StateUnknown State = "unknown"
	StateOnline  State = "online"
	StateOffline State = "offline"
)

func (s State) String() string { return string(s) }

// ControllerRecord is the live, mutable per-host record. It is owned by the
// monitor loop; nothing else writes to it. The read side sees only copies
// published to the status table.
type ControllerRecord struct {
	Host       string
	State      State
	LastChange time.Time // when the current State was entered
	Alerted    bool      // true only while State == StateOffline and an alert was delivered
}

// NewControllerRecord returns a record in StateUnknown with a zero LastChange.
func NewControllerRecord(host string) *ControllerRecord {
	return &ControllerRecord{Host: host, State: StateUnknown}
}

// Transition is an immutable event describing a state change. It is the
// payload handed to history storage and used to build notifications, so the
// live record never aliases into either.
type Transition struct {
	Host string    `json:"host"`
	To   State     `json:"to"`
	At   time.Time `json:"at"`
}

// StatusEntry is the read-only view of one host exposed by the status table
// and the HTTP API.
type StatusEntry struct {
	Host       string    `json:"host"`
	State      State     `json:"state"`
	LastChange time.Time `json:"last_change"`
}
