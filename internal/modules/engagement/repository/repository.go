package repository

import (
	"context"

	"anoa.com/skillnest/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EngagementRepository interface {
	// ToggleLike adds or removes the user's like and returns the new state with the resource's like count.
	ToggleLike(ctx context.Context, userID, resourceID uuid.UUID) (bool, int, error)
	ToggleBookmark(ctx context.Context, userID, resourceID uuid.UUID) (bool, int, error)
	HasLiked(ctx context.Context, userID, resourceID uuid.UUID) (bool, error)
	HasBookmarked(ctx context.Context, userID, resourceID uuid.UUID) (bool, error)
	ListBookmarkedResources(ctx context.Context, userID uuid.UUID) ([]entity.Resource, error)

	CreateComment(ctx context.Context, comment *entity.Comment) error
	FindComment(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	ListComments(ctx context.Context, resourceID uuid.UUID) ([]entity.Comment, error)
	DeleteComment(ctx context.Context, comment *entity.Comment) error
}

type engagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func decrement(column string) interface{} {
	return gorm.Expr("CASE WHEN " + column + " > 0 THEN " + column + " - 1 ELSE 0 END")
}

func increment(column string) interface{} {
	return gorm.Expr(column + " + 1")
}

// toggle flips a (resource_id, user_id) join row and moves counterColumn with it in one transaction.
func (r *engagementRepository) toggle(ctx context.Context, model interface{}, newRow func() interface{}, counterColumn string, userID, resourceID uuid.UUID) (bool, int, error) {
	var (
		active bool
		count  int
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resource entity.Resource
		if err := tx.Select("id").First(&resource, "id = ?", resourceID).Error; err != nil {
			return err
		}

		res := tx.Where("resource_id = ? AND user_id = ?", resourceID, userID).Delete(model)
		if res.Error != nil {
			return res.Error
		}

		delta := increment(counterColumn)
		if res.RowsAffected > 0 {
			delta = decrement(counterColumn)
		} else {
			if err := tx.Create(newRow()).Error; err != nil {
				return err
			}
			active = true
		}

		if err := tx.Model(&entity.Resource{}).Where("id = ?", resourceID).
			UpdateColumn(counterColumn, delta).Error; err != nil {
			return err
		}

		return tx.Model(&entity.Resource{}).Select(counterColumn).Where("id = ?", resourceID).Scan(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return active, count, nil
}

func (r *engagementRepository) ToggleLike(ctx context.Context, userID, resourceID uuid.UUID) (bool, int, error) {
	return r.toggle(ctx, &entity.Like{}, func() interface{} {
		return &entity.Like{ResourceID: resourceID, UserID: userID}
	}, "like_count", userID, resourceID)
}

func (r *engagementRepository) ToggleBookmark(ctx context.Context, userID, resourceID uuid.UUID) (bool, int, error) {
	return r.toggle(ctx, &entity.Bookmark{}, func() interface{} {
		return &entity.Bookmark{ResourceID: resourceID, UserID: userID}
	}, "bookmark_count", userID, resourceID)
}

func (r *engagementRepository) exists(ctx context.Context, model interface{}, userID, resourceID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).
		Where("resource_id = ? AND user_id = ?", resourceID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *engagementRepository) HasLiked(ctx context.Context, userID, resourceID uuid.UUID) (bool, error) {
	return r.exists(ctx, &entity.Like{}, userID, resourceID)
}

func (r *engagementRepository) HasBookmarked(ctx context.Context, userID, resourceID uuid.UUID) (bool, error) {
	return r.exists(ctx, &entity.Bookmark{}, userID, resourceID)
}

func (r *engagementRepository) ListBookmarkedResources(ctx context.Context, userID uuid.UUID) ([]entity.Resource, error) {
	var bookmarks []entity.Bookmark
	err := r.db.WithContext(ctx).
		Preload("Resource.Skill").
		Preload("Resource.User.Profile").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}

	resources := make([]entity.Resource, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b.Resource != nil {
			resources = append(resources, *b.Resource)
		}
	}
	return resources, nil
}

func (r *engagementRepository) CreateComment(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resource entity.Resource
		if err := tx.Select("id").First(&resource, "id = ?", comment.ResourceID).Error; err != nil {
			return err
		}
		if err := tx.Omit("User").Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Resource{}).Where("id = ?", comment.ResourceID).
			UpdateColumn("comment_count", increment("comment_count")).Error
	})
}

func (r *engagementRepository) FindComment(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	var comment entity.Comment
	if err := r.db.WithContext(ctx).Preload("User.Profile").First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *engagementRepository) ListComments(ctx context.Context, resourceID uuid.UUID) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.db.WithContext(ctx).
		Preload("User.Profile").
		Where("resource_id = ?", resourceID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *engagementRepository) DeleteComment(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", comment.ID).Delete(&entity.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&entity.Resource{}).Where("id = ?", comment.ResourceID).
			UpdateColumn("comment_count", decrement("comment_count")).Error
	})
}
