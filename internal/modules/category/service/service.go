package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/internal/modules/category/dto"
	"anoa.com/skillnest/internal/modules/category/repository"
	"anoa.com/skillnest/pkg/apperror"
	"anoa.com/skillnest/pkg/slug"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetAllCategories(ctx context.Context, filter dto.CategoryFilter) ([]dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func toResponse(cat *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          cat.ID,
		Name:        cat.Name,
		Slug:        cat.Slug,
		Icon:        cat.Icon,
		Description: cat.Description,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	categorySlug := slug.Make(name)
	if categorySlug == "" {
		return nil, fmt.Errorf("category name must contain letters or digits: %w", apperror.ErrBadRequest)
	}

	existing, err := s.repo.FindBySlug(ctx, categorySlug)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("category with name %s already exists: %w", name, apperror.ErrBadRequest)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &entity.Category{
		Name:        name,
		Slug:        categorySlug,
		Icon:        req.Icon,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	res := toResponse(category)
	return &res, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context, filter dto.CategoryFilter) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx, filter.Search)
	if err != nil {
		return nil, err
	}

	res := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		res = append(res, toResponse(cat))
	}
	return res, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("category not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	return s.repo.Delete(ctx, id)
}
