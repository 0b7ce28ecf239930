package dto

import (
	"anoa.com/skillnest/internal/entity"
)

type RegisterInput struct {
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
	FullName   string  `json:"full_name" binding:"required,max=100"`
	Profession *string `json:"profession" binding:"omitempty,max=100"`
	SkillLevel *string `json:"skill_level" binding:"omitempty,oneof=beginner intermediate advanced"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
	User        *entity.User    `json:"user"`
	Profile     *entity.Profile `json:"profile"`
	SearchToken string          `json:"search_token,omitempty"`
}

type OAuthURLResponse struct {
	URL string `json:"url"`
}
