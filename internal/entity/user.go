package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:user;index" json:"role"`
	GoogleID     *string   `gorm:"size:100;uniqueIndex" json:"google_id,omitempty"`
	GithubID     *string   `gorm:"size:100;uniqueIndex" json:"github_id,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	Profile      *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Profile struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Username   string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	FullName   string    `gorm:"size:100;not null" json:"full_name"`
	AvatarURL  *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	Bio        *string   `gorm:"type:text" json:"bio,omitempty"`
	Profession *string   `gorm:"size:100" json:"profession,omitempty"`
	SkillLevel *string   `gorm:"size:20" json:"skill_level,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
