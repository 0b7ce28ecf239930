package repository

import (
	"context"
	"time"

	"anoa.com/skillnest/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoadmapRepository interface {
	Create(ctx context.Context, roadmap *entity.Roadmap) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Roadmap, error)
	// FindBySkillID loads the roadmap with its steps and items in order.
	FindBySkillID(ctx context.Context, skillID uuid.UUID) (*entity.Roadmap, error)
	ListAll(ctx context.Context) ([]entity.Roadmap, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Count(ctx context.Context) (int64, error)

	CreateStep(ctx context.Context, step *entity.RoadmapStep) error
	FindStep(ctx context.Context, id uuid.UUID) (*entity.RoadmapStep, error)
	CountSteps(ctx context.Context, roadmapID uuid.UUID) (int64, error)
	MoveStep(ctx context.Context, step *entity.RoadmapStep, up bool) error
	DeleteStep(ctx context.Context, step *entity.RoadmapStep) error

	CreateItem(ctx context.Context, item *entity.RoadmapItem) error
	CountItems(ctx context.Context, stepID uuid.UUID) (int64, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type roadmapRepository struct {
	db *gorm.DB
}

func NewRoadmapRepository(db *gorm.DB) RoadmapRepository {
	return &roadmapRepository{db: db}
}

func (r *roadmapRepository) Create(ctx context.Context, roadmap *entity.Roadmap) error {
	return r.db.WithContext(ctx).Omit("Skill", "Steps").Create(roadmap).Error
}

func (r *roadmapRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Roadmap, error) {
	var roadmap entity.Roadmap
	if err := r.db.WithContext(ctx).First(&roadmap, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (r *roadmapRepository) FindBySkillID(ctx context.Context, skillID uuid.UUID) (*entity.Roadmap, error) {
	var roadmap entity.Roadmap
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Steps.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Steps.Items.Resource").
		Where("skill_id = ?", skillID).
		First(&roadmap).Error
	if err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (r *roadmapRepository) ListAll(ctx context.Context) ([]entity.Roadmap, error) {
	var roadmaps []entity.Roadmap
	err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&roadmaps).Error
	return roadmaps, err
}

func (r *roadmapRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&entity.Roadmap{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *roadmapRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Roadmap{}).Count(&count).Error
	return count, err
}

func (r *roadmapRepository) CreateStep(ctx context.Context, step *entity.RoadmapStep) error {
	return r.db.WithContext(ctx).Omit("Items").Create(step).Error
}

func (r *roadmapRepository) FindStep(ctx context.Context, id uuid.UUID) (*entity.RoadmapStep, error) {
	var step entity.RoadmapStep
	if err := r.db.WithContext(ctx).First(&step, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *roadmapRepository) CountSteps(ctx context.Context, roadmapID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.RoadmapStep{}).Where("roadmap_id = ?", roadmapID).Count(&count).Error
	return count, err
}

// MoveStep swaps the step with its neighbour. Moving past either end does nothing.
func (r *roadmapRepository) MoveStep(ctx context.Context, step *entity.RoadmapStep, up bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("roadmap_id = ?", step.RoadmapID)
		if up {
			query = query.Where("order_index < ?", step.OrderIndex).Order("order_index DESC")
		} else {
			query = query.Where("order_index > ?", step.OrderIndex).Order("order_index ASC")
		}

		var neighbour entity.RoadmapStep
		err := query.Limit(1).Find(&neighbour).Error
		if err != nil {
			return err
		}
		if neighbour.ID == uuid.Nil {
			return nil
		}

		if err := tx.Model(&entity.RoadmapStep{}).Where("id = ?", step.ID).
			Update("order_index", neighbour.OrderIndex).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.RoadmapStep{}).Where("id = ?", neighbour.ID).
			Update("order_index", step.OrderIndex).Error; err != nil {
			return err
		}
		return touchRoadmap(tx, step.RoadmapID)
	})
}

// DeleteStep removes the step and its items, then renumbers the remaining steps from zero.
func (r *roadmapRepository) DeleteStep(ctx context.Context, step *entity.RoadmapStep) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("step_id = ?", step.ID).Delete(&entity.RoadmapItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", step.ID).Delete(&entity.RoadmapStep{}).Error; err != nil {
			return err
		}

		var remaining []entity.RoadmapStep
		if err := tx.Where("roadmap_id = ?", step.RoadmapID).Order("order_index ASC").Find(&remaining).Error; err != nil {
			return err
		}
		for i, s := range remaining {
			if s.OrderIndex == i {
				continue
			}
			if err := tx.Model(&entity.RoadmapStep{}).Where("id = ?", s.ID).Update("order_index", i).Error; err != nil {
				return err
			}
		}
		return touchRoadmap(tx, step.RoadmapID)
	})
}

func (r *roadmapRepository) CreateItem(ctx context.Context, item *entity.RoadmapItem) error {
	return r.db.WithContext(ctx).Omit("Resource").Create(item).Error
}

func (r *roadmapRepository) CountItems(ctx context.Context, stepID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.RoadmapItem{}).Where("step_id = ?", stepID).Count(&count).Error
	return count, err
}

func (r *roadmapRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.RoadmapItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func touchRoadmap(tx *gorm.DB, roadmapID uuid.UUID) error {
	return tx.Model(&entity.Roadmap{}).Where("id = ?", roadmapID).Update("updated_at", time.Now()).Error
}

// DeleteBySkillTx removes a skill's roadmap with all steps and items. It must run inside a transaction.
func DeleteBySkillTx(tx *gorm.DB, skillID uuid.UUID) error {
	var roadmapIDs []uuid.UUID
	if err := tx.Model(&entity.Roadmap{}).Where("skill_id = ?", skillID).Pluck("id", &roadmapIDs).Error; err != nil {
		return err
	}
	if len(roadmapIDs) == 0 {
		return nil
	}

	stepIDs := tx.Model(&entity.RoadmapStep{}).Select("id").Where("roadmap_id IN ?", roadmapIDs)
	if err := tx.Where("step_id IN (?)", stepIDs).Delete(&entity.RoadmapItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("roadmap_id IN ?", roadmapIDs).Delete(&entity.RoadmapStep{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", roadmapIDs).Delete(&entity.Roadmap{}).Error
}
