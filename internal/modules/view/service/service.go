package view

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"anoa.com/skillnest/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	pendingKey    = "pending:resource_views"
	viewerWindow  = time.Hour
	viewKeyPrefix = "resource:views:"
)

// ViewStore persists view counts.
type ViewStore interface {
	IncrementViews(ctx context.Context, id uuid.UUID, n int) error
}

type ViewService interface {
	// IncrementView counts a view once per viewer per hour; viewerKey is a user id or client address.
	IncrementView(ctx context.Context, resourceID uuid.UUID, viewerKey string) error
	// SyncViews flushes buffered counters to the store and returns how many resources were updated.
	SyncViews(ctx context.Context) (int, error)
}

type viewService struct {
	redisClient *redis.Client
	store       ViewStore
	log         *logger.Logger
}

// NewViewService buffers views in Redis when a client is given and writes straight to the store otherwise.
func NewViewService(redisClient *redis.Client, store ViewStore, log *logger.Logger) ViewService {
	return &viewService{
		redisClient: redisClient,
		store:       store,
		log:         log,
	}
}

func viewKey(resourceID string) string {
	return viewKeyPrefix + resourceID
}

func (s *viewService) IncrementView(ctx context.Context, resourceID uuid.UUID, viewerKey string) error {
	if s.redisClient == nil {
		return s.store.IncrementViews(ctx, resourceID, 1)
	}

	userViewKey := fmt.Sprintf("resource:viewer:%s:%s", resourceID, viewerKey)

	// SetNX both checks and marks the viewer for the window.
	fresh, err := s.redisClient.SetNX(ctx, userViewKey, "viewed", viewerWindow).Result()
	if err != nil {
		return fmt.Errorf("failed to check viewer: %w", err)
	}
	if !fresh {
		return nil
	}

	pipe := s.redisClient.TxPipeline()
	pipe.Incr(ctx, viewKey(resourceID.String()))
	pipe.SAdd(ctx, pendingKey, resourceID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment view: %w", err)
	}

	return nil
}

func (s *viewService) SyncViews(ctx context.Context) (int, error) {
	if s.redisClient == nil {
		return 0, nil
	}

	resourceIDs, err := s.redisClient.SMembers(ctx, pendingKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get pending resource views: %w", err)
	}

	synced := 0
	for _, idStr := range resourceIDs {
		resourceID, err := uuid.Parse(idStr)
		if err != nil {
			s.log.Warn("invalid resource id in pending views", "resource_id", idStr)
			s.redisClient.SRem(ctx, pendingKey, idStr)
			continue
		}

		// Leave the pending set before taking the counter, so a view landing in between re-adds it.
		s.redisClient.SRem(ctx, pendingKey, idStr)

		countStr, err := s.redisClient.GetDel(ctx, viewKey(idStr)).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			s.log.Warn("failed to read view counter", "resource_id", idStr, "error", err)
			s.redisClient.SAdd(ctx, pendingKey, idStr)
			continue
		}

		count, _ := strconv.Atoi(countStr)
		if count <= 0 {
			continue
		}
		if err := s.store.IncrementViews(ctx, resourceID, count); err != nil {
			s.log.Error("failed to persist resource views", "resource_id", idStr, "error", err)
			s.redisClient.IncrBy(ctx, viewKey(idStr), int64(count))
			s.redisClient.SAdd(ctx, pendingKey, idStr)
			continue
		}
		synced++
	}

	if synced > 0 {
		s.log.Debug("synced resource views", "resources", synced)
	}
	return synced, nil
}
