package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"` // recipient
	ActorID    uuid.UUID `gorm:"type:uuid;not null" json:"actor_id"`
	ResourceID uuid.UUID `gorm:"type:uuid;not null" json:"resource_id"`
	Type       string    `gorm:"size:20;not null" json:"type"`
	Message    string    `gorm:"type:text" json:"message"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
