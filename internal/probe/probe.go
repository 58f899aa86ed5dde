package probe

import "context"

// Prober answers the single question the monitor loop asks: is this host
// reachable right now. Implementations must return within the deadline on
// the context; an expired deadline reads as unreachable.
type Prober interface {
	Probe(ctx context.Context, host string) bool
}
