package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/internal/modules/resource/dto"
	"anoa.com/skillnest/internal/modules/resource/repository"
	searchService "anoa.com/skillnest/internal/modules/search/service"
	skillDto "anoa.com/skillnest/internal/modules/skill/dto"
	skillRepo "anoa.com/skillnest/internal/modules/skill/repository"
	view "anoa.com/skillnest/internal/modules/view/service"
	"anoa.com/skillnest/pkg/apperror"
	commonDto "anoa.com/skillnest/pkg/dto"
	"anoa.com/skillnest/pkg/logger"
	"anoa.com/skillnest/pkg/ratelimiter"
	"anoa.com/skillnest/pkg/sanitize"
	"anoa.com/skillnest/pkg/scraper"
	"anoa.com/skillnest/pkg/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const thumbnailFolder = "thumbnails"

// SkillSuggester creates pending skills submitted alongside a resource.
type SkillSuggester interface {
	SuggestSkill(ctx context.Context, userID uuid.UUID, req skillDto.SuggestSkillRequest) (*skillDto.SkillResponse, error)
}

// EngagementReader provides the viewer-specific parts of a resource detail.
type EngagementReader interface {
	HasLiked(ctx context.Context, userID, resourceID uuid.UUID) (bool, error)
	HasBookmarked(ctx context.Context, userID, resourceID uuid.UUID) (bool, error)
	ListComments(ctx context.Context, resourceID uuid.UUID) ([]commonDto.CommentResponse, error)
}

type ResourceService interface {
	ListBySkill(ctx context.Context, skillSlug string) (*dto.ResourceListResponse, error)
	GetResource(ctx context.Context, id uuid.UUID, viewer dto.Viewer) (*dto.ResourceDetailResponse, error)
	CreateResource(ctx context.Context, userID uuid.UUID, req dto.CreateResourceRequest, thumbnail *commonDto.UploadFile) (*commonDto.ResourceResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]commonDto.ResourceResponse, error)
	DashboardStats(ctx context.Context, userID uuid.UUID) (*dto.DashboardStatsResponse, error)
	DeleteResource(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error
	FetchMetadata(ctx context.Context, rawURL string) (*scraper.Metadata, error)

	ListAll(ctx context.Context, filter dto.AdminResourceFilter) ([]commonDto.ResourceResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Deps groups the collaborators of the resource service. Indexer, ImageStorage and Redis may be nil.
type Deps struct {
	Repo          repository.ResourceRepository
	Skills        skillRepo.SkillRepository
	Suggester     SkillSuggester
	Engagement    EngagementReader
	Views         view.ViewService
	Indexer       searchService.Indexer
	ImageStorage  storage.ImageStorage
	Scraper       scraper.MetadataFetcher
	Redis         *redis.Client
	ResourceLimit time.Duration
	Log           *logger.Logger
}

type resourceService struct {
	Deps
}

func NewResourceService(deps Deps) ResourceService {
	return &resourceService{Deps: deps}
}

func resourceNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("resource not found: %w", apperror.ErrNotFound)
	}
	return err
}

func (s *resourceService) ListBySkill(ctx context.Context, skillSlug string) (*dto.ResourceListResponse, error) {
	skill, err := s.Skills.FindBySlug(ctx, skillSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("skill not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if skill.Status != entity.SkillStatusApproved {
		return nil, fmt.Errorf("skill not found: %w", apperror.ErrNotFound)
	}

	resources, err := s.Repo.ListPublishedBySkill(ctx, skill.ID)
	if err != nil {
		return nil, err
	}

	return &dto.ResourceListResponse{
		Skill:     *dto.ToSkillSummary(skill),
		Resources: dto.ToResourceResponses(resources),
	}, nil
}

func (s *resourceService) GetResource(ctx context.Context, id uuid.UUID, viewer dto.Viewer) (*dto.ResourceDetailResponse, error) {
	resource, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, resourceNotFound(err)
	}

	isOwner := viewer.UserID != nil && *viewer.UserID == resource.UserID
	if resource.Status != entity.ResourceStatusPublished && !isOwner && !viewer.IsAdmin {
		return nil, fmt.Errorf("resource not found: %w", apperror.ErrNotFound)
	}

	if viewer.Key != "" {
		if err := s.Views.IncrementView(ctx, id, viewer.Key); err != nil {
			s.Log.Warn("failed to count view", "resource_id", id, "error", err)
		}
	}

	comments, err := s.Engagement.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &dto.ResourceDetailResponse{
		ResourceResponse: dto.ToResourceResponse(resource),
		Content:          resource.Content,
		LearningPoints:   append([]string{}, resource.LearningPoints...),
		Comments:         comments,
	}

	if viewer.UserID != nil {
		if res.Liked, err = s.Engagement.HasLiked(ctx, *viewer.UserID, id); err != nil {
			return nil, err
		}
		if res.Bookmarked, err = s.Engagement.HasBookmarked(ctx, *viewer.UserID, id); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func validateURL(raw string) (string, error) {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("url must start with http:// or https://: %w", apperror.ErrBadRequest)
	}
	return u.String(), nil
}

func cleanLearningPoints(points []string) []string {
	cleaned := make([]string, 0, len(points))
	for _, p := range points {
		p = sanitize.PlainText(p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}

// resolveSkill returns the skill the resource attaches to, suggesting a new one when asked.
// resolveSkill returns the skill the resource belongs to and whether it was suggested by this call.
func (s *resourceService) resolveSkill(ctx context.Context, userID uuid.UUID, req dto.CreateResourceRequest) (uuid.UUID, bool, error) {
	if req.SkillID != nil && *req.SkillID != "" {
		skillID, err := uuid.Parse(*req.SkillID)
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("invalid skill id: %w", apperror.ErrBadRequest)
		}
		skill, err := s.Skills.FindByID(ctx, skillID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, false, fmt.Errorf("skill not found: %w", apperror.ErrBadRequest)
			}
			return uuid.Nil, false, err
		}
		if skill.Status == entity.SkillStatusRejected {
			return uuid.Nil, false, fmt.Errorf("skill %s is not accepting resources: %w", skill.Name, apperror.ErrBadRequest)
		}
		return skill.ID, false, nil
	}

	if req.NewSkill != nil && strings.TrimSpace(req.NewSkill.Name) != "" {
		suggested, err := s.Suggester.SuggestSkill(ctx, userID, skillDto.SuggestSkillRequest{
			Name:       req.NewSkill.Name,
			CategoryID: req.NewSkill.CategoryID,
		})
		if err != nil {
			return uuid.Nil, false, err
		}
		return suggested.ID, true, nil
	}

	return uuid.Nil, false, fmt.Errorf("choose a skill or suggest a new one: %w", apperror.ErrBadRequest)
}

// discardDraft undoes the side effects of a resource that was never stored.
func (s *resourceService) discardDraft(ctx context.Context, thumbURL string, suggested uuid.UUID) {
	if thumbURL != "" {
		if err := s.ImageStorage.DeleteImage(ctx, thumbURL); err != nil {
			s.Log.Warn("failed to delete orphaned thumbnail", "url", thumbURL, "error", err)
		}
	}
	if suggested != uuid.Nil {
		if _, err := s.Skills.Delete(ctx, suggested); err != nil {
			s.Log.Warn("failed to delete orphaned skill suggestion", "skill_id", suggested, "error", err)
		}
	}
}

func (s *resourceService) CreateResource(ctx context.Context, userID uuid.UUID, req dto.CreateResourceRequest, thumbnail *commonDto.UploadFile) (*commonDto.ResourceResponse, error) {
	title := sanitize.PlainText(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperror.ErrBadRequest)
	}

	link, err := validateURL(req.URL)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(entity.ResourceTypes, req.Type) {
		return nil, fmt.Errorf("type must be one of %s: %w", strings.Join(entity.ResourceTypes, ", "), apperror.ErrBadRequest)
	}
	if !slices.Contains(entity.ResourceLevels, req.Level) {
		return nil, fmt.Errorf("level must be one of %s: %w", strings.Join(entity.ResourceLevels, ", "), apperror.ErrBadRequest)
	}
	if thumbnail != nil && s.ImageStorage == nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrNotConfigured, apperror.ErrBadRequest)
	}

	release, err := ratelimiter.Guard(ctx, s.Redis, userID, ratelimiter.ScopeResource, s.ResourceLimit)
	if err != nil {
		return nil, err
	}
	var (
		created   bool
		thumbURL  string
		suggested uuid.UUID
	)
	defer func() {
		if !created {
			release()
			s.discardDraft(context.WithoutCancel(ctx), thumbURL, suggested)
		}
	}()

	// Upload before a skill is suggested so a failed upload leaves nothing behind.
	if thumbnail != nil {
		thumbURL, err = s.ImageStorage.UploadImage(ctx, thumbnail.Reader, thumbnailFolder, thumbnail.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
		}
	}

	skillID, isNew, err := s.resolveSkill(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if isNew {
		suggested = skillID
	}

	resource := &entity.Resource{
		SkillID:        skillID,
		UserID:         userID,
		Title:          title,
		Description:    strings.TrimSpace(sanitize.HTML(req.Description)),
		Content:        sanitize.HTML(req.Content),
		URL:            link,
		Type:           req.Type,
		Level:          req.Level,
		LearningPoints: cleanLearningPoints(req.LearningPoints),
		Status:         entity.ResourceStatusPublished,
	}
	if req.Duration != nil {
		if d := strings.TrimSpace(*req.Duration); d != "" {
			resource.Duration = &d
		}
	}

	if thumbURL != "" {
		resource.ThumbnailURL = &thumbURL
	}

	if err := s.Repo.Create(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	created = true

	saved, err := s.Repo.FindByID(ctx, resource.ID)
	if err != nil {
		return nil, err
	}
	s.index(saved)

	s.Log.Info("resource created", "resource_id", saved.ID, "user_id", userID, "skill_id", skillID)
	res := dto.ToResourceResponse(saved)
	return &res, nil
}

func (s *resourceService) ListMine(ctx context.Context, userID uuid.UUID) ([]commonDto.ResourceResponse, error) {
	resources, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToResourceResponses(resources), nil
}

func (s *resourceService) DashboardStats(ctx context.Context, userID uuid.UUID) (*dto.DashboardStatsResponse, error) {
	stats, err := s.Repo.StatsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardStatsResponse{
		Posts:          stats.Posts,
		TotalViews:     stats.TotalViews,
		LikesReceived:  stats.LikesReceived,
		BookmarksSaved: stats.BookmarksSaved,
	}, nil
}

func (s *resourceService) DeleteResource(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	resource, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return resourceNotFound(err)
	}
	if resource.UserID != userID && !isAdmin {
		return fmt.Errorf("you can only delete your own resources: %w", apperror.ErrForbidden)
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.unindex(id)

	if resource.ThumbnailURL != nil && s.ImageStorage != nil {
		if err := s.ImageStorage.DeleteImage(ctx, *resource.ThumbnailURL); err != nil {
			s.Log.Warn("failed to delete thumbnail", "resource_id", id, "error", err)
		}
	}
	return nil
}

func (s *resourceService) FetchMetadata(ctx context.Context, rawURL string) (*scraper.Metadata, error) {
	link, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	meta, err := s.Scraper.Fetch(ctx, link)
	if err != nil {
		s.Log.Debug("metadata fetch failed", "url", link, "error", err)
		return nil, fmt.Errorf("could not read metadata from %s: %w", link, apperror.ErrBadRequest)
	}
	return meta, nil
}

func (s *resourceService) ListAll(ctx context.Context, filter dto.AdminResourceFilter) ([]commonDto.ResourceResponse, error) {
	resources, err := s.Repo.ListAll(ctx, repository.ResourceFilter{Status: filter.Status, Search: filter.Search})
	if err != nil {
		return nil, err
	}
	return dto.ToResourceResponses(resources), nil
}

func (s *resourceService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	switch status {
	case entity.ResourceStatusPublished, entity.ResourceStatusPending, entity.ResourceStatusHidden:
	default:
		return fmt.Errorf("invalid resource status: %w", apperror.ErrBadRequest)
	}

	if err := s.Repo.UpdateStatus(ctx, id, status); err != nil {
		return resourceNotFound(err)
	}

	if status != entity.ResourceStatusPublished {
		s.unindex(id)
		return nil
	}

	resource, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return resourceNotFound(err)
	}
	s.index(resource)
	return nil
}

func (s *resourceService) index(resource *entity.Resource) {
	if s.Indexer == nil || resource.Status != entity.ResourceStatusPublished {
		return
	}
	if err := s.Indexer.IndexResource(resource); err != nil {
		s.Log.Warn("failed to index resource", "resource_id", resource.ID, "error", err)
	}
}

func (s *resourceService) unindex(id uuid.UUID) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.DeleteResource(id.String()); err != nil {
		s.Log.Warn("failed to remove resource from index", "resource_id", id, "error", err)
	}
}
