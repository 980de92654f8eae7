package library

import (
	"context"
	"log/slog"
	"time"

	"Gin_postgres_redis_library/models"
)

// Notifier records a notification for a user. Implementations may fail; the
// workflow only logs those failures.
type Notifier interface {
	CreateOne(ctx context.Context, n models.Notification) error
}

// emit sends a notification after commit, bounded by timeout and detached
// from the caller's cancellation.
func emit(ctx context.Context, log *slog.Logger, n Notifier, timeout time.Duration, msg models.Notification) {
	if n == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := n.CreateOne(ctx, msg); err != nil {
		log.Warn("notification dropped", "user", msg.UserID, "title", msg.Title, "err", err)
	}
}
