package repository

import (
	"context"
	"strings"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceFilter struct {
	Status string
	Search string
}

type UserStats struct {
	Posts          int64
	TotalViews     int64
	LikesReceived  int64
	BookmarksSaved int64
}

type ResourceRepository interface {
	Create(ctx context.Context, resource *entity.Resource) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Resource, error)
	ListPublishedBySkill(ctx context.Context, skillID uuid.UUID) ([]entity.Resource, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Resource, error)
	ListAll(ctx context.Context, filter ResourceFilter) ([]entity.Resource, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	IncrementViews(ctx context.Context, id uuid.UUID, n int) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountPublishedByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	StatsForUser(ctx context.Context, userID uuid.UUID) (*UserStats, error)
}

type resourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, resource *entity.Resource) error {
	return r.db.WithContext(ctx).Omit("Skill", "User").Create(resource).Error
}

func (r *resourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Resource, error) {
	var resource entity.Resource
	if err := r.db.WithContext(ctx).
		Preload("Skill.Category").
		Preload("User.Profile").
		First(&resource, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *resourceRepository) ListPublishedBySkill(ctx context.Context, skillID uuid.UUID) ([]entity.Resource, error) {
	var resources []entity.Resource
	err := r.db.WithContext(ctx).
		Preload("User.Profile").
		Where("skill_id = ? AND status = ?", skillID, entity.ResourceStatusPublished).
		Order("created_at DESC").
		Find(&resources).Error
	return resources, err
}

func (r *resourceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Resource, error) {
	var resources []entity.Resource
	err := r.db.WithContext(ctx).
		Preload("Skill").
		Preload("User.Profile").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&resources).Error
	return resources, err
}

func (r *resourceRepository) ListAll(ctx context.Context, filter ResourceFilter) ([]entity.Resource, error) {
	query := r.db.WithContext(ctx).
		Preload("Skill").
		Preload("User.Profile")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		query = query.Where("LOWER(title) LIKE ?"+database.LikeEscape, database.ContainsPattern(q))
	}

	var resources []entity.Resource
	err := query.Order("created_at DESC").Find(&resources).Error
	return resources, err
}

func (r *resourceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&entity.Resource{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *resourceRepository) IncrementViews(ctx context.Context, id uuid.UUID, n int) error {
	return r.db.WithContext(ctx).
		Model(&entity.Resource{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", n)).Error
}

func (r *resourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return DeleteResourcesTx(tx, []uuid.UUID{id})
	})
}

// DeleteResourcesTx removes resources together with their likes, bookmarks, comments,
// notifications and roadmap items. It must run inside a transaction.
func DeleteResourcesTx(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	dependents := []interface{}{
		&entity.Like{},
		&entity.Bookmark{},
		&entity.Comment{},
		&entity.Notification{},
		&entity.RoadmapItem{},
	}
	for _, model := range dependents {
		if err := tx.Where("resource_id IN ?", ids).Delete(model).Error; err != nil {
			return err
		}
	}

	return tx.Where("id IN ?", ids).Delete(&entity.Resource{}).Error
}

func (r *resourceRepository) CountPublishedByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Resource{}).
		Where("user_id = ? AND status = ?", userID, entity.ResourceStatusPublished).
		Count(&count).Error
	return count, err
}

func (r *resourceRepository) StatsForUser(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	var agg struct {
		Posts         int64
		TotalViews    int64
		LikesReceived int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entity.Resource{}).
		Select("COUNT(*) AS posts, COALESCE(SUM(views), 0) AS total_views, COALESCE(SUM(like_count), 0) AS likes_received").
		Where("user_id = ?", userID).
		Scan(&agg).Error; err != nil {
		return nil, err
	}

	var bookmarks int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Bookmark{}).
		Where("user_id = ?", userID).
		Count(&bookmarks).Error; err != nil {
		return nil, err
	}

	return &UserStats{
		Posts:          agg.Posts,
		TotalViews:     agg.TotalViews,
		LikesReceived:  agg.LikesReceived,
		BookmarksSaved: bookmarks,
	}, nil
}
