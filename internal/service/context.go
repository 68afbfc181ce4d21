package service

import (
	"context"
	"time"
)

// detach returns a context for database work that survives the caller's
// cancellation but is bounded by timeout. Values such as the request logger
// are kept.
func detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
