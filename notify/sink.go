package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"Gin_postgres_redis_library/db"
	"Gin_postgres_redis_library/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Sink stores notifications and fans them out over Redis pub/sub so that
// connected clients can be pushed without polling.
type Sink struct {
	repo *db.Repo
	rdb  *redis.Client
}

// NewSink accepts a nil rdb, in which case notifications are only stored.
func NewSink(repo *db.Repo, rdb *redis.Client) *Sink { return &Sink{repo: repo, rdb: rdb} }

func UserChannel(userID string) string { return fmt.Sprintf("notify:user:%s", userID) }

const GeneralChannel = "notify:general"

// CreateOne persists n and then publishes it. A publish failure is returned
// but the stored row stays; readers can still list it.
func (s *Sink) CreateOne(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Type == "" {
		n.Type = models.NotificationGeneral
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.CreateNotification(ctx, &n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	if s.rdb == nil {
		return nil
	}
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	ch := GeneralChannel
	if n.Type == models.NotificationIndividual && n.UserID != "" {
		ch = UserChannel(n.UserID)
	}
	if err := s.rdb.Publish(ctx, ch, b).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// List returns the newest notifications addressed to userID or to everyone.
func (s *Sink) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	return s.repo.ListNotifications(ctx, userID, limit)
}
