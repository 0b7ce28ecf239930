package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/skillnest/internal/entity"
	searchService "anoa.com/skillnest/internal/modules/search/service"
	"anoa.com/skillnest/internal/modules/skill/dto"
	"anoa.com/skillnest/internal/modules/skill/repository"
	"anoa.com/skillnest/pkg/apperror"
	"anoa.com/skillnest/pkg/logger"
	"anoa.com/skillnest/pkg/sanitize"
	"anoa.com/skillnest/pkg/slug"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SkillService interface {
	ListSkills(ctx context.Context, filter dto.SkillFilter) ([]dto.SkillResponse, error)
	// GetSkillBySlug hides non-approved skills unless includeUnapproved is set.
	GetSkillBySlug(ctx context.Context, slug string, includeUnapproved bool) (*dto.SkillResponse, error)
	SuggestSkill(ctx context.Context, userID uuid.UUID, req dto.SuggestSkillRequest) (*dto.SkillResponse, error)

	CreateSkill(ctx context.Context, req dto.CreateSkillRequest) (*dto.SkillResponse, error)
	ListByStatus(ctx context.Context, filter dto.AdminSkillFilter) ([]dto.SkillResponse, error)
	ApproveSkill(ctx context.Context, id uuid.UUID) error
	RejectSkill(ctx context.Context, id uuid.UUID) error
	DeleteSkill(ctx context.Context, id uuid.UUID) error
}

type skillService struct {
	repo    repository.SkillRepository
	indexer searchService.Indexer
	log     *logger.Logger
}

// NewSkillService builds the skill service. indexer may be nil.
func NewSkillService(repo repository.SkillRepository, indexer searchService.Indexer, log *logger.Logger) SkillService {
	return &skillService{
		repo:    repo,
		indexer: indexer,
		log:     log,
	}
}

func ToResponse(skill *entity.Skill) dto.SkillResponse {
	res := dto.SkillResponse{
		ID:          skill.ID,
		Name:        skill.Name,
		Slug:        skill.Slug,
		Description: skill.Description,
		Icon:        skill.Icon,
		Status:      skill.Status,
		CategoryID:  skill.CategoryID,
		SuggestedBy: skill.SuggestedBy,
		CreatedAt:   skill.CreatedAt,
	}
	if skill.Category != nil {
		res.CategoryName = skill.Category.Name
	}
	return res
}

func toResponses(skills []entity.Skill) []dto.SkillResponse {
	res := make([]dto.SkillResponse, 0, len(skills))
	for i := range skills {
		res = append(res, ToResponse(&skills[i]))
	}
	return res
}

func (s *skillService) ListSkills(ctx context.Context, filter dto.SkillFilter) ([]dto.SkillResponse, error) {
	skills, err := s.repo.ListApproved(ctx, filter.Category, filter.Search)
	if err != nil {
		return nil, err
	}
	return toResponses(skills), nil
}

func (s *skillService) GetSkillBySlug(ctx context.Context, skillSlug string, includeUnapproved bool) (*dto.SkillResponse, error) {
	skill, err := s.repo.FindBySlug(ctx, skillSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("skill not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if skill.Status != entity.SkillStatusApproved && !includeUnapproved {
		return nil, fmt.Errorf("skill not found: %w", apperror.ErrNotFound)
	}

	res := ToResponse(skill)
	return &res, nil
}

// uniqueSlug derives a slug from name, adding a random suffix when it is taken.
func (s *skillService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		return "", fmt.Errorf("skill name must contain letters or digits: %w", apperror.ErrBadRequest)
	}

	exists, err := s.repo.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}
	return slug.WithSuffix(base), nil
}

func parseCategoryID(raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", apperror.ErrBadRequest)
	}
	return &id, nil
}

func (s *skillService) newSkill(ctx context.Context, name string, categoryID *string, description string) (*entity.Skill, error) {
	name = sanitize.PlainText(name)
	if name == "" {
		return nil, fmt.Errorf("skill name is required: %w", apperror.ErrBadRequest)
	}

	catID, err := parseCategoryID(categoryID)
	if err != nil {
		return nil, err
	}

	skillSlug, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return nil, err
	}

	return &entity.Skill{
		CategoryID:  catID,
		Name:        name,
		Slug:        skillSlug,
		Description: sanitize.PlainText(description),
	}, nil
}

func (s *skillService) SuggestSkill(ctx context.Context, userID uuid.UUID, req dto.SuggestSkillRequest) (*dto.SkillResponse, error) {
	skill, err := s.newSkill(ctx, req.Name, req.CategoryID, req.Description)
	if err != nil {
		return nil, err
	}
	skill.Status = entity.SkillStatusPending
	skill.SuggestedBy = &userID

	if err := s.repo.Create(ctx, skill); err != nil {
		return nil, fmt.Errorf("failed to suggest skill: %w", err)
	}

	s.log.Info("skill suggested", "skill_id", skill.ID, "slug", skill.Slug, "user_id", userID)
	res := ToResponse(skill)
	return &res, nil
}

func (s *skillService) CreateSkill(ctx context.Context, req dto.CreateSkillRequest) (*dto.SkillResponse, error) {
	skill, err := s.newSkill(ctx, req.Name, req.CategoryID, req.Description)
	if err != nil {
		return nil, err
	}
	skill.Status = entity.SkillStatusApproved
	skill.Icon = req.Icon

	if err := s.repo.Create(ctx, skill); err != nil {
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}

	created, err := s.repo.FindByID(ctx, skill.ID)
	if err != nil {
		return nil, err
	}
	s.index(created)

	res := ToResponse(created)
	return &res, nil
}

func (s *skillService) ListByStatus(ctx context.Context, filter dto.AdminSkillFilter) ([]dto.SkillResponse, error) {
	skills, err := s.repo.ListByStatus(ctx, filter.Status)
	if err != nil {
		return nil, err
	}
	return toResponses(skills), nil
}

func (s *skillService) setStatus(ctx context.Context, id uuid.UUID, status string) (*entity.Skill, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("skill not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *skillService) ApproveSkill(ctx context.Context, id uuid.UUID) error {
	skill, err := s.setStatus(ctx, id, entity.SkillStatusApproved)
	if err != nil {
		return err
	}
	s.index(skill)
	return nil
}

func (s *skillService) RejectSkill(ctx context.Context, id uuid.UUID) error {
	if _, err := s.setStatus(ctx, id, entity.SkillStatusRejected); err != nil {
		return err
	}
	resourceIDs, err := s.repo.ResourceIDs(ctx, id)
	if err != nil {
		s.log.Warn("failed to list resources of rejected skill", "skill_id", id, "error", err)
	}
	s.unindex(id, resourceIDs)
	return nil
}

func (s *skillService) DeleteSkill(ctx context.Context, id uuid.UUID) error {
	resourceIDs, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("skill not found: %w", apperror.ErrNotFound)
		}
		return err
	}
	s.unindex(id, resourceIDs)
	return nil
}

// Search indexing failures are logged and never fail the request; the nightly reindex repairs drift.
func (s *skillService) index(skill *entity.Skill) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexSkill(skill); err != nil {
		s.log.Warn("failed to index skill", "skill_id", skill.ID, "error", err)
	}
}

// unindex drops the skill document and the documents of its resources.
func (s *skillService) unindex(id uuid.UUID, resourceIDs []uuid.UUID) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.DeleteSkill(id.String()); err != nil {
		s.log.Warn("failed to remove skill from index", "skill_id", id, "error", err)
	}
	if len(resourceIDs) == 0 {
		return
	}
	ids := make([]string, len(resourceIDs))
	for i, rid := range resourceIDs {
		ids[i] = rid.String()
	}
	if err := s.indexer.DeleteResources(ids); err != nil {
		s.log.Warn("failed to remove skill resources from index", "skill_id", id, "count", len(ids), "error", err)
	}
}
