package repository

import (
	"context"

	"anoa.com/skillnest/internal/entity"
	"gorm.io/gorm"
)

// StatsRepository counts rows for the admin overview.
type StatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountSkills(ctx context.Context, status string) (int64, error)
	CountResources(ctx context.Context) (int64, error)
	CountRoadmaps(ctx context.Context) (int64, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) count(ctx context.Context, model interface{}, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Scopes(scopes...).Count(&count).Error
	return count, err
}

func (r *statsRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, &entity.User{})
}

// CountSkills counts skills in status, or all skills when status is empty.
func (r *statsRepository) CountSkills(ctx context.Context, status string) (int64, error) {
	if status == "" {
		return r.count(ctx, &entity.Skill{})
	}
	return r.count(ctx, &entity.Skill{}, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	})
}

func (r *statsRepository) CountResources(ctx context.Context) (int64, error) {
	return r.count(ctx, &entity.Resource{})
}

func (r *statsRepository) CountRoadmaps(ctx context.Context) (int64, error) {
	return r.count(ctx, &entity.Roadmap{})
}
