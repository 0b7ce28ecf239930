package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"anoa.com/skillnest/internal/entity"
	resourceRepo "anoa.com/skillnest/internal/modules/resource/repository"
	"anoa.com/skillnest/internal/modules/roadmap/dto"
	"anoa.com/skillnest/internal/modules/roadmap/repository"
	skillRepo "anoa.com/skillnest/internal/modules/skill/repository"
	"anoa.com/skillnest/pkg/apperror"
	commonDto "anoa.com/skillnest/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoadmapService interface {
	GetPublishedRoadmap(ctx context.Context, skillSlug string) (*dto.SkillRoadmapResponse, error)

	ListRoadmaps(ctx context.Context) ([]dto.RoadmapListItem, error)
	GetFullRoadmap(ctx context.Context, skillSlug string) (*dto.SkillRoadmapResponse, error)
	CreateRoadmap(ctx context.Context, req dto.CreateRoadmapRequest) (*dto.RoadmapResponse, error)
	UpdateRoadmap(ctx context.Context, id uuid.UUID, req dto.UpdateRoadmapRequest) error
	AddStep(ctx context.Context, roadmapID uuid.UUID, req dto.AddStepRequest) (*dto.StepResponse, error)
	MoveStep(ctx context.Context, stepID uuid.UUID, direction string) error
	DeleteStep(ctx context.Context, stepID uuid.UUID) error
	AddItem(ctx context.Context, stepID uuid.UUID, req dto.AddItemRequest) (*dto.ItemResponse, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

type roadmapService struct {
	repo      repository.RoadmapRepository
	skills    skillRepo.SkillRepository
	resources resourceRepo.ResourceRepository
}

func NewRoadmapService(repo repository.RoadmapRepository, skills skillRepo.SkillRepository, resources resourceRepo.ResourceRepository) RoadmapService {
	return &roadmapService{
		repo:      repo,
		skills:    skills,
		resources: resources,
	}
}

func skillSummary(skill *entity.Skill) commonDto.SkillSummary {
	s := commonDto.SkillSummary{ID: skill.ID, Name: skill.Name, Slug: skill.Slug}
	if skill.Category != nil {
		s.CategoryName = skill.Category.Name
	}
	return s
}

func toItemResponse(item *entity.RoadmapItem) dto.ItemResponse {
	res := dto.ItemResponse{
		ID:         item.ID,
		Title:      item.Title,
		URL:        item.URL,
		ResourceID: item.ResourceID,
		OrderIndex: item.OrderIndex,
	}
	if item.Resource != nil {
		res.Type = item.Resource.Type
		if res.URL == nil {
			u := item.Resource.URL
			res.URL = &u
		}
	}
	return res
}

func toStepResponse(step *entity.RoadmapStep) dto.StepResponse {
	items := make([]dto.ItemResponse, 0, len(step.Items))
	for i := range step.Items {
		items = append(items, toItemResponse(&step.Items[i]))
	}
	return dto.StepResponse{
		ID:          step.ID,
		Title:       step.Title,
		Description: step.Description,
		OrderIndex:  step.OrderIndex,
		Items:       items,
	}
}

func toRoadmapResponse(roadmap *entity.Roadmap) *dto.RoadmapResponse {
	steps := make([]dto.StepResponse, 0, len(roadmap.Steps))
	for i := range roadmap.Steps {
		steps = append(steps, toStepResponse(&roadmap.Steps[i]))
	}
	return &dto.RoadmapResponse{
		ID:          roadmap.ID,
		SkillID:     roadmap.SkillID,
		Title:       roadmap.Title,
		Description: roadmap.Description,
		Status:      roadmap.Status,
		Steps:       steps,
		UpdatedAt:   roadmap.UpdatedAt,
	}
}

func (s *roadmapService) findSkill(ctx context.Context, skillSlug string) (*entity.Skill, error) {
	skill, err := s.skills.FindBySlug(ctx, skillSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("skill not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return skill, nil
}

func (s *roadmapService) GetPublishedRoadmap(ctx context.Context, skillSlug string) (*dto.SkillRoadmapResponse, error) {
	skill, err := s.findSkill(ctx, skillSlug)
	if err != nil {
		return nil, err
	}
	if skill.Status != entity.SkillStatusApproved {
		return nil, fmt.Errorf("skill not found: %w", apperror.ErrNotFound)
	}

	roadmap, err := s.repo.FindBySkillID(ctx, skill.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("roadmap not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if roadmap.Status != entity.RoadmapStatusPublished {
		return nil, fmt.Errorf("roadmap not found: %w", apperror.ErrNotFound)
	}

	return &dto.SkillRoadmapResponse{Skill: skillSummary(skill), Roadmap: toRoadmapResponse(roadmap)}, nil
}

func (s *roadmapService) ListRoadmaps(ctx context.Context) ([]dto.RoadmapListItem, error) {
	skills, err := s.skills.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	roadmaps, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	bySkill := make(map[uuid.UUID]*entity.Roadmap, len(roadmaps))
	for i := range roadmaps {
		bySkill[roadmaps[i].SkillID] = &roadmaps[i]
	}

	res := make([]dto.RoadmapListItem, 0, len(skills))
	for i := range skills {
		item := dto.RoadmapListItem{Skill: skillSummary(&skills[i])}
		if rm, ok := bySkill[skills[i].ID]; ok {
			item.Roadmap = &dto.RoadmapSummary{
				ID:        rm.ID,
				Title:     rm.Title,
				Status:    rm.Status,
				UpdatedAt: rm.UpdatedAt,
			}
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *roadmapService) GetFullRoadmap(ctx context.Context, skillSlug string) (*dto.SkillRoadmapResponse, error) {
	skill, err := s.findSkill(ctx, skillSlug)
	if err != nil {
		return nil, err
	}

	res := &dto.SkillRoadmapResponse{Skill: skillSummary(skill)}
	roadmap, err := s.repo.FindBySkillID(ctx, skill.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if roadmap != nil {
		res.Roadmap = toRoadmapResponse(roadmap)
	}
	return res, nil
}

func (s *roadmapService) CreateRoadmap(ctx context.Context, req dto.CreateRoadmapRequest) (*dto.RoadmapResponse, error) {
	skillID, err := uuid.Parse(req.SkillID)
	if err != nil {
		return nil, fmt.Errorf("invalid skill id: %w", apperror.ErrBadRequest)
	}
	if _, err := s.skills.FindByID(ctx, skillID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("skill not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if _, err := s.repo.FindBySkillID(ctx, skillID); err == nil {
		return nil, fmt.Errorf("skill already has a roadmap: %w", apperror.ErrBadRequest)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperror.ErrBadRequest)
	}

	roadmap := &entity.Roadmap{
		SkillID:     skillID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      entity.RoadmapStatusDraft,
	}
	if err := s.repo.Create(ctx, roadmap); err != nil {
		return nil, fmt.Errorf("failed to create roadmap: %w", err)
	}

	return toRoadmapResponse(roadmap), nil
}

func (s *roadmapService) UpdateRoadmap(ctx context.Context, id uuid.UUID, req dto.UpdateRoadmapRequest) error {
	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return fmt.Errorf("title cannot be empty: %w", apperror.ErrBadRequest)
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		switch *req.Status {
		case entity.RoadmapStatusDraft, entity.RoadmapStatusPublished:
			updates["status"] = *req.Status
		default:
			return fmt.Errorf("invalid roadmap status: %w", apperror.ErrBadRequest)
		}
	}
	if len(updates) == 0 {
		return fmt.Errorf("nothing to update: %w", apperror.ErrBadRequest)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("roadmap not found: %w", apperror.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *roadmapService) AddStep(ctx context.Context, roadmapID uuid.UUID, req dto.AddStepRequest) (*dto.StepResponse, error) {
	if _, err := s.repo.FindByID(ctx, roadmapID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("roadmap not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperror.ErrBadRequest)
	}

	count, err := s.repo.CountSteps(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	step := &entity.RoadmapStep{
		RoadmapID:   roadmapID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		OrderIndex:  int(count),
	}
	if err := s.repo.CreateStep(ctx, step); err != nil {
		return nil, fmt.Errorf("failed to add step: %w", err)
	}

	res := toStepResponse(step)
	return &res, nil
}

func (s *roadmapService) findStep(ctx context.Context, stepID uuid.UUID) (*entity.RoadmapStep, error) {
	step, err := s.repo.FindStep(ctx, stepID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("step not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return step, nil
}

func (s *roadmapService) MoveStep(ctx context.Context, stepID uuid.UUID, direction string) error {
	var up bool
	switch direction {
	case "up":
		up = true
	case "down":
	default:
		return fmt.Errorf("direction must be up or down: %w", apperror.ErrBadRequest)
	}

	step, err := s.findStep(ctx, stepID)
	if err != nil {
		return err
	}
	return s.repo.MoveStep(ctx, step, up)
}

func (s *roadmapService) DeleteStep(ctx context.Context, stepID uuid.UUID) error {
	step, err := s.findStep(ctx, stepID)
	if err != nil {
		return err
	}
	return s.repo.DeleteStep(ctx, step)
}

func (s *roadmapService) AddItem(ctx context.Context, stepID uuid.UUID, req dto.AddItemRequest) (*dto.ItemResponse, error) {
	if _, err := s.findStep(ctx, stepID); err != nil {
		return nil, err
	}

	item := &entity.RoadmapItem{StepID: stepID, Title: strings.TrimSpace(req.Title)}

	if req.ResourceID != nil && *req.ResourceID != "" {
		resourceID, err := uuid.Parse(*req.ResourceID)
		if err != nil {
			return nil, fmt.Errorf("invalid resource id: %w", apperror.ErrBadRequest)
		}
		resource, err := s.resources.FindByID(ctx, resourceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("resource not found: %w", apperror.ErrNotFound)
			}
			return nil, err
		}
		item.ResourceID = &resource.ID
		item.Resource = resource
		if item.Title == "" {
			item.Title = resource.Title
		}
	} else {
		if item.Title == "" || req.URL == nil {
			return nil, fmt.Errorf("either resource_id or title and url are required: %w", apperror.ErrBadRequest)
		}
		u, err := url.ParseRequestURI(strings.TrimSpace(*req.URL))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, fmt.Errorf("url must start with http:// or https://: %w", apperror.ErrBadRequest)
		}
		link := u.String()
		item.URL = &link
	}

	count, err := s.repo.CountItems(ctx, stepID)
	if err != nil {
		return nil, err
	}
	item.OrderIndex = int(count)

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	res := toItemResponse(item)
	return &res, nil
}

func (s *roadmapService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("item not found: %w", apperror.ErrNotFound)
		}
		return err
	}
	return nil
}
