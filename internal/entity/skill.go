package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SkillStatusPending  = "pending"
	SkillStatusApproved = "approved"
	SkillStatusRejected = "rejected"
)

type Skill struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category  `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Slug        string     `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	Icon        *string    `gorm:"size:100" json:"icon,omitempty"`
	Status      string     `gorm:"size:20;not null;default:pending;index" json:"status"`
	SuggestedBy *uuid.UUID `gorm:"type:uuid" json:"suggested_by,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	if s.Status == "" {
		s.Status = SkillStatusPending
	}
	return
}
