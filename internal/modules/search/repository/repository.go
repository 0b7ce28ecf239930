package repository

import (
	"context"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/pkg/database"
	"gorm.io/gorm"
)

// SearchRepository is the database fallback used when no search engine is configured.
type SearchRepository interface {
	SearchSkills(ctx context.Context, q string, limit int) ([]entity.Skill, error)
	SearchResources(ctx context.Context, q string, limit int) ([]entity.Resource, error)
	ApprovedSkills(ctx context.Context) ([]entity.Skill, error)
	PublishedResources(ctx context.Context) ([]entity.Resource, error)
}

type searchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{db: db}
}

// visibleResources limits a query to published resources whose skill was not rejected.
func (r *searchRepository) visibleResources(ctx context.Context) *gorm.DB {
	rejected := r.db.Model(&entity.Skill{}).Select("id").Where("status = ?", entity.SkillStatusRejected)
	return r.db.WithContext(ctx).
		Where("status = ?", entity.ResourceStatusPublished).
		Where("skill_id NOT IN (?)", rejected)
}

func (r *searchRepository) SearchSkills(ctx context.Context, q string, limit int) ([]entity.Skill, error) {
	pattern := database.ContainsPattern(q)

	var skills []entity.Skill
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("status = ?", entity.SkillStatusApproved).
		Where("LOWER(name) LIKE ?"+database.LikeEscape+" OR LOWER(description) LIKE ?"+database.LikeEscape, pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&skills).Error
	return skills, err
}

func (r *searchRepository) SearchResources(ctx context.Context, q string, limit int) ([]entity.Resource, error) {
	pattern := database.ContainsPattern(q)

	var resources []entity.Resource
	err := r.visibleResources(ctx).
		Preload("Skill").
		Where("LOWER(title) LIKE ?"+database.LikeEscape+" OR LOWER(description) LIKE ?"+database.LikeEscape, pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&resources).Error
	return resources, err
}

func (r *searchRepository) ApprovedSkills(ctx context.Context) ([]entity.Skill, error) {
	var skills []entity.Skill
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("status = ?", entity.SkillStatusApproved).
		Find(&skills).Error
	return skills, err
}

func (r *searchRepository) PublishedResources(ctx context.Context) ([]entity.Resource, error) {
	var resources []entity.Resource
	err := r.visibleResources(ctx).
		Preload("Skill").
		Preload("User.Profile").
		Find(&resources).Error
	return resources, err
}
