package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoadmapStatusDraft     = "draft"
	RoadmapStatusPublished = "published"
)

type Roadmap struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SkillID     uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"skill_id"`
	Skill       *Skill        `gorm:"constraint:OnDelete:CASCADE" json:"skill,omitempty"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Status      string        `gorm:"size:20;not null;default:draft" json:"status"`
	Steps       []RoadmapStep `gorm:"constraint:OnDelete:CASCADE" json:"steps,omitempty"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Roadmap) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	if r.Status == "" {
		r.Status = RoadmapStatusDraft
	}
	return
}

type RoadmapStep struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	RoadmapID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"roadmap_id"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	OrderIndex  int           `gorm:"not null" json:"order_index"`
	Items       []RoadmapItem `gorm:"foreignKey:StepID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (s *RoadmapStep) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}

type RoadmapItem struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StepID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"step_id"`
	ResourceID *uuid.UUID `gorm:"type:uuid;index" json:"resource_id,omitempty"`
	Resource   *Resource  `gorm:"constraint:OnDelete:CASCADE" json:"resource,omitempty"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	URL        *string    `gorm:"type:text" json:"url,omitempty"`
	OrderIndex int        `gorm:"not null" json:"order_index"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (i *RoadmapItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID, err = uuid.NewV7()
	}
	return
}
