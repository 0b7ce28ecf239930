package dto

import (
	"time"

	"github.com/google/uuid"
)

type SkillFilter struct {
	Category string `form:"category"`
	Search   string `form:"q"`
}

type AdminSkillFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

type SuggestSkillRequest struct {
	Name        string  `json:"name" form:"name" binding:"required,max=100"`
	CategoryID  *string `json:"category_id" form:"category_id" binding:"omitempty,uuid"`
	Description string  `json:"description" form:"description" binding:"max=1000"`
}

type CreateSkillRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
	Description string  `json:"description" binding:"max=1000"`
	Icon        *string `json:"icon" binding:"omitempty,max=100"`
}

type SkillResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description"`
	Icon         *string    `json:"icon,omitempty"`
	Status       string     `json:"status"`
	CategoryID   *uuid.UUID `json:"category_id"`
	CategoryName string     `json:"category_name,omitempty"`
	SuggestedBy  *uuid.UUID `json:"suggested_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
