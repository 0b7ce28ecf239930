package repository

import (
	"context"
	"strings"

	"anoa.com/skillnest/internal/entity"
	resourceRepo "anoa.com/skillnest/internal/modules/resource/repository"
	roadmapRepo "anoa.com/skillnest/internal/modules/roadmap/repository"
	"anoa.com/skillnest/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllCategories is the category filter value that disables filtering.
const AllCategories = "All"

type SkillRepository interface {
	Create(ctx context.Context, skill *entity.Skill) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Skill, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Skill, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListApproved(ctx context.Context, categoryName, q string) ([]entity.Skill, error)
	ListByStatus(ctx context.Context, status string) ([]entity.Skill, error)
	ListAll(ctx context.Context) ([]entity.Skill, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ResourceIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

type skillRepository struct {
	db *gorm.DB
}

func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) Create(ctx context.Context, skill *entity.Skill) error {
	return r.db.WithContext(ctx).Omit("Category").Create(skill).Error
}

func (r *skillRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Skill, error) {
	var skill entity.Skill
	if err := r.db.WithContext(ctx).Preload("Category").First(&skill, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepository) FindBySlug(ctx context.Context, slug string) (*entity.Skill, error) {
	var skill entity.Skill
	if err := r.db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&skill).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Skill{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *skillRepository) ListApproved(ctx context.Context, categoryName, q string) ([]entity.Skill, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("skills.status = ?", entity.SkillStatusApproved)

	if categoryName != "" && categoryName != AllCategories {
		query = query.
			Joins("JOIN categories ON categories.id = skills.category_id").
			Where("categories.name = ?", categoryName)
	}
	if q = strings.TrimSpace(q); q != "" {
		query = query.Where("LOWER(skills.name) LIKE ?"+database.LikeEscape, database.ContainsPattern(q))
	}

	var skills []entity.Skill
	err := query.Order("skills.name ASC").Find(&skills).Error
	return skills, err
}

func (r *skillRepository) ListByStatus(ctx context.Context, status string) ([]entity.Skill, error) {
	query := r.db.WithContext(ctx).Preload("Category")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var skills []entity.Skill
	err := query.Order("created_at DESC").Find(&skills).Error
	return skills, err
}

func (r *skillRepository) ListAll(ctx context.Context) ([]entity.Skill, error) {
	var skills []entity.Skill
	err := r.db.WithContext(ctx).Preload("Category").Order("name ASC").Find(&skills).Error
	return skills, err
}

func (r *skillRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&entity.Skill{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *skillRepository) ResourceIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&entity.Resource{}).Where("skill_id = ?", id).Pluck("id", &ids).Error
	return ids, err
}

// Delete removes the skill with its resources and roadmap and returns the IDs of the removed resources.
func (r *skillRepository) Delete(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var resourceIDs []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Resource{}).Where("skill_id = ?", id).Pluck("id", &resourceIDs).Error; err != nil {
			return err
		}
		if err := resourceRepo.DeleteResourcesTx(tx, resourceIDs); err != nil {
			return err
		}
		if err := roadmapRepo.DeleteBySkillTx(tx, id); err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&entity.Skill{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resourceIDs, nil
}
