package probe

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Pinger probes reachability with a single ICMP echo request via the system
// ping binary. Raw ICMP sockets need elevated privileges; shelling out keeps
// the daemon unprivileged, same trade-off the setuid ping makes for us.
type Pinger struct{}

func NewPinger() *Pinger {
	return &Pinger{}
}

// Probe returns true when the host answers one echo request before the
// context deadline. Every failure mode (timeout, resolution error, non-zero
// exit) collapses to false; the caller treats unreachable and unprobeable
// the same way.
func (p *Pinger) Probe(ctx context.Context, host string) bool {
	timeout := 3 * time.Second
	if d, ok := ctx.Deadline(); ok {
		if remaining := time.Until(d); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return false
	}

	waitSec := fmt.Sprintf("%.0f", timeout.Seconds())
	if waitSec == "0" {
		waitSec = "1"
	}
	cmd := exec.CommandContext(ctx, "ping", "-c", "1", "-W", waitSec, host)
	return cmd.Run() == nil
}
