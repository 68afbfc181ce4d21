package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/tasks-api/internal/store"
)

// SessionJanitor periodically deletes expired sessions.
type SessionJanitor struct {
	mu       sync.Mutex
	sessions store.SessionStore
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSessionJanitor creates a janitor that purges every interval. Each purge
// is bounded by timeout.
func NewSessionJanitor(sessions store.SessionStore, interval, timeout time.Duration, logger *slog.Logger) *SessionJanitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionJanitor{
		sessions: sessions,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With(slog.String("component", "session_janitor")),
	}
}

// Start begins the purge loop. A non-positive interval disables it.
func (j *SessionJanitor) Start(ctx context.Context) {
	if j.interval <= 0 {
		j.logger.Info("session janitor disabled")
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancel != nil {
		return
	}
	ctx, j.cancel = context.WithCancel(ctx)
	j.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = j.Purge(ctx)
			}
		}
	}(j.done)

	j.logger.Info("session janitor started", slog.Duration("interval", j.interval))
}

// Stop ends the purge loop and waits for an in-flight purge to finish.
func (j *SessionJanitor) Stop() {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel, j.done = nil, nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Purge deletes expired sessions once and returns how many were removed.
func (j *SessionJanitor) Purge(ctx context.Context) (int64, error) {
	ctx, cancel := detach(ctx, j.timeout)
	defer cancel()

	n, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("failed to purge expired sessions", slog.String("error", err.Error()))
		return 0, err
	}
	if n > 0 {
		j.logger.Info("purged expired sessions", slog.Int64("count", n))
	}
	return n, nil
}
