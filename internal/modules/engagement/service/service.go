package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/internal/modules/engagement/dto"
	"anoa.com/skillnest/internal/modules/engagement/repository"
	notifService "anoa.com/skillnest/internal/modules/notification/service"
	resourceDto "anoa.com/skillnest/internal/modules/resource/dto"
	resourceRepo "anoa.com/skillnest/internal/modules/resource/repository"
	"anoa.com/skillnest/pkg/apperror"
	commonDto "anoa.com/skillnest/pkg/dto"
	"anoa.com/skillnest/pkg/logger"
	"anoa.com/skillnest/pkg/ratelimiter"
	"anoa.com/skillnest/pkg/sanitize"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const maxCommentLength = 2000

type EngagementService interface {
	ToggleLike(ctx context.Context, userID, resourceID uuid.UUID) (*dto.LikeResponse, error)
	ToggleBookmark(ctx context.Context, userID, resourceID uuid.UUID) (*dto.BookmarkResponse, error)
	ListBookmarks(ctx context.Context, userID uuid.UUID) ([]commonDto.ResourceResponse, error)
	HasLiked(ctx context.Context, userID, resourceID uuid.UUID) (bool, error)
	HasBookmarked(ctx context.Context, userID, resourceID uuid.UUID) (bool, error)

	AddComment(ctx context.Context, userID, resourceID uuid.UUID, req dto.CreateCommentRequest) (*commonDto.CommentResponse, error)
	ListComments(ctx context.Context, resourceID uuid.UUID) ([]commonDto.CommentResponse, error)
	DeleteComment(ctx context.Context, userID uuid.UUID, isAdmin bool, commentID uuid.UUID) error
}

type engagementService struct {
	repo          repository.EngagementRepository
	resources     resourceRepo.ResourceRepository
	notifications notifService.NotificationService
	redisClient   *redis.Client
	commentLimit  time.Duration
	log           *logger.Logger
}

// NewEngagementService wires likes, bookmarks and comments. notifications and redisClient may be nil.
func NewEngagementService(
	repo repository.EngagementRepository,
	resources resourceRepo.ResourceRepository,
	notifications notifService.NotificationService,
	redisClient *redis.Client,
	commentLimit time.Duration,
	log *logger.Logger,
) EngagementService {
	return &engagementService{
		repo:          repo,
		resources:     resources,
		notifications: notifications,
		redisClient:   redisClient,
		commentLimit:  commentLimit,
		log:           log,
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("resource not found: %w", apperror.ErrNotFound)
	}
	return err
}

func (s *engagementService) ToggleLike(ctx context.Context, userID, resourceID uuid.UUID) (*dto.LikeResponse, error) {
	liked, count, err := s.repo.ToggleLike(ctx, userID, resourceID)
	if err != nil {
		return nil, notFound(err)
	}

	if liked {
		s.notifyOwner(userID, resourceID, entity.NotificationTypeLike)
	}
	return &dto.LikeResponse{Liked: liked, LikeCount: count}, nil
}

func (s *engagementService) ToggleBookmark(ctx context.Context, userID, resourceID uuid.UUID) (*dto.BookmarkResponse, error) {
	bookmarked, count, err := s.repo.ToggleBookmark(ctx, userID, resourceID)
	if err != nil {
		return nil, notFound(err)
	}
	return &dto.BookmarkResponse{Bookmarked: bookmarked, BookmarkCount: count}, nil
}

func (s *engagementService) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]commonDto.ResourceResponse, error) {
	resources, err := s.repo.ListBookmarkedResources(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resourceDto.ToResourceResponses(resources), nil
}

func (s *engagementService) HasLiked(ctx context.Context, userID, resourceID uuid.UUID) (bool, error) {
	return s.repo.HasLiked(ctx, userID, resourceID)
}

func (s *engagementService) HasBookmarked(ctx context.Context, userID, resourceID uuid.UUID) (bool, error) {
	return s.repo.HasBookmarked(ctx, userID, resourceID)
}

func (s *engagementService) AddComment(ctx context.Context, userID, resourceID uuid.UUID, req dto.CreateCommentRequest) (*commonDto.CommentResponse, error) {
	content := sanitize.PlainText(req.Content)
	if content == "" {
		return nil, fmt.Errorf("comment cannot be empty: %w", apperror.ErrBadRequest)
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, fmt.Errorf("comment must be at most %d characters: %w", maxCommentLength, apperror.ErrBadRequest)
	}

	release, err := ratelimiter.Guard(ctx, s.redisClient, userID, ratelimiter.ScopeComment, s.commentLimit)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		ResourceID: resourceID,
		UserID:     userID,
		Content:    content,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		release()
		return nil, notFound(err)
	}

	created, err := s.repo.FindComment(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	s.notifyOwner(userID, resourceID, entity.NotificationTypeComment)

	res := resourceDto.ToCommentResponse(created)
	return &res, nil
}

func (s *engagementService) ListComments(ctx context.Context, resourceID uuid.UUID) ([]commonDto.CommentResponse, error) {
	comments, err := s.repo.ListComments(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	res := make([]commonDto.CommentResponse, 0, len(comments))
	for i := range comments {
		res = append(res, resourceDto.ToCommentResponse(&comments[i]))
	}
	return res, nil
}

func (s *engagementService) DeleteComment(ctx context.Context, userID uuid.UUID, isAdmin bool, commentID uuid.UUID) error {
	comment, err := s.repo.FindComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("comment not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	if comment.UserID != userID && !isAdmin {
		return fmt.Errorf("you can only delete your own comments: %w", apperror.ErrForbidden)
	}

	return s.repo.DeleteComment(ctx, comment)
}

// notifyOwner tells the resource owner about a like or comment. It runs detached from the request.
func (s *engagementService) notifyOwner(actorID, resourceID uuid.UUID, kind string) {
	if s.notifications == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		resource, err := s.resources.FindByID(ctx, resourceID)
		if err != nil {
			s.log.Warn("failed to load resource for notification", "resource_id", resourceID, "error", err)
			return
		}
		if resource.UserID == actorID {
			return
		}

		title := resource.Title
		if utf8.RuneCountInString(title) > 40 {
			title = string([]rune(title)[:40]) + "..."
		}

		verb := "liked"
		if kind == entity.NotificationTypeComment {
			verb = "commented on"
		}

		n := &entity.Notification{
			UserID:     resource.UserID,
			ActorID:    actorID,
			ResourceID: resourceID,
			Type:       kind,
			Message:    fmt.Sprintf("Someone %s your resource: %s", verb, title),
		}
		if err := s.notifications.CreateNotification(ctx, n); err != nil {
			s.log.Error("failed to create notification", "resource_id", resourceID, "type", kind, "error", err)
		}
	}()
}
