package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ResourceStatusPublished = "published"
	ResourceStatusPending   = "pending"
	ResourceStatusHidden    = "hidden"
)

// Resource types accepted on submission.
var ResourceTypes = []string{"video", "article", "course", "pdf", "documentation", "tool"}

// Resource levels accepted on submission.
var ResourceLevels = []string{"beginner", "intermediate", "advanced"}

type Resource struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	SkillID        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"skill_id"`
	Skill          *Skill                      `gorm:"constraint:OnDelete:CASCADE" json:"skill,omitempty"`
	UserID         uuid.UUID                   `gorm:"type:uuid;not null;index" json:"user_id"`
	User           *User                       `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Title          string                      `gorm:"size:255;not null" json:"title"`
	Description    string                      `gorm:"type:text" json:"description"`
	Content        string                      `gorm:"type:text" json:"content"`
	URL            string                      `gorm:"type:text;not null" json:"url"`
	Type           string                      `gorm:"size:30;not null" json:"type"`
	Level          string                      `gorm:"size:30;not null" json:"level"`
	Duration       *string                     `gorm:"size:50" json:"duration,omitempty"`
	ThumbnailURL   *string                     `gorm:"type:text" json:"thumbnail_url,omitempty"`
	LearningPoints datatypes.JSONSlice[string] `json:"learning_points"`
	Status         string                      `gorm:"size:20;not null;default:published;index" json:"status"`
	Views          int                         `gorm:"not null;default:0" json:"views"`
	LikeCount      int                         `gorm:"not null;default:0" json:"like_count"`
	BookmarkCount  int                         `gorm:"not null;default:0" json:"bookmark_count"`
	CommentCount   int                         `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt      time.Time                   `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	if r.Status == "" {
		r.Status = ResourceStatusPublished
	}
	return
}
