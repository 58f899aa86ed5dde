package history

import (
	"context"

	"github.com/kanhucharan/controllermon/internal/domain"
)

// Recorder appends one immutable row per genuine state transition. Append
// failures never block monitoring; the loop logs and carries on.
type Recorder interface {
	Record(ctx context.Context, tr domain.Transition) error
}
