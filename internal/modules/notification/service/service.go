package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/internal/modules/notification/dto"
	notifRepo "anoa.com/skillnest/internal/modules/notification/repository"
	resourceDto "anoa.com/skillnest/internal/modules/resource/dto"
	"anoa.com/skillnest/pkg/apperror"
	"anoa.com/skillnest/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const listLimit = 20

// Channel is the Redis pub/sub channel a user's notifications are published on.
func Channel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *entity.Notification) error
	GetNotifications(ctx context.Context, userID uuid.UUID) ([]dto.NotificationResponse, error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	redisClient *redis.Client
	log         *logger.Logger
}

func NewNotificationService(repo notifRepo.NotificationRepository, redisClient *redis.Client, log *logger.Logger) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
		log:         log,
	}
}

func toResponse(n *entity.Notification) dto.NotificationResponse {
	res := dto.NotificationResponse{
		ID:         n.ID,
		Type:       n.Type,
		Message:    n.Message,
		ResourceID: n.ResourceID,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
	if n.Actor != nil {
		actor := resourceDto.ToAuthor(n.Actor)
		res.Actor = &actor
	}
	return res
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *entity.Notification) error {
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	if s.redisClient != nil {
		payload, err := json.Marshal(toResponse(notification))
		if err != nil {
			return err
		}
		if err := s.redisClient.Publish(ctx, Channel(notification.UserID), payload).Err(); err != nil {
			s.log.Warn("failed to publish notification", "user_id", notification.UserID, "error", err)
		}
	}

	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID) ([]dto.NotificationResponse, error) {
	notifications, err := s.repo.GetByUserID(ctx, userID, listLimit)
	if err != nil {
		return nil, err
	}

	res := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		res = append(res, toResponse(&notifications[i]))
	}
	return res, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.MarkAsRead(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("notification not found: %w", apperror.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
