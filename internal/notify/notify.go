package notify

import "context"

// Notifier delivers one alert or recovery notice. A nil error means the
// message was accepted by the transport; the alert policy relies on that
// distinction to decide whether to retry on the next cycle.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}
