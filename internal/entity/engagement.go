package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Like struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResourceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_resource_user,priority:1" json:"resource_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_resource_user,priority:2;index" json:"user_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID, err = uuid.NewV7()
	}
	return
}

type Bookmark struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResourceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_resource_user,priority:1" json:"resource_id"`
	Resource   *Resource `gorm:"constraint:OnDelete:CASCADE" json:"resource,omitempty"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_resource_user,priority:2;index" json:"user_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID, err = uuid.NewV7()
	}
	return
}

type Comment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResourceID uuid.UUID `gorm:"type:uuid;not null;index" json:"resource_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
