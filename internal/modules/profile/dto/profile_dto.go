package dto

import (
	"time"

	"anoa.com/skillnest/internal/entity"
	"github.com/google/uuid"
)

// UpdateProfileInput accepts JSON or multipart form fields; nil means unchanged.
type UpdateProfileInput struct {
	FullName   *string `json:"full_name" form:"full_name" binding:"omitempty,max=100"`
	Username   *string `json:"username" form:"username"`
	Bio        *string `json:"bio" form:"bio" binding:"omitempty,max=500"`
	AvatarURL  *string `json:"avatar_url" form:"avatar_url"`
	Profession *string `json:"profession" form:"profession" binding:"omitempty,max=100"`
	SkillLevel *string `json:"skill_level" form:"skill_level"`
	Password   *string `json:"password" form:"password"`
}

type ProfileResponse struct {
	User    *entity.User    `json:"user"`
	Profile *entity.Profile `json:"profile"`
}

type PublicProfileResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	Username      string    `json:"username"`
	FullName      string    `json:"full_name"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	Bio           *string   `json:"bio,omitempty"`
	Profession    *string   `json:"profession,omitempty"`
	Role          string    `json:"role"`
	JoinedAt      time.Time `json:"joined_at"`
	ResourceCount int64     `json:"resource_count"`
}
