package dto

import "github.com/google/uuid"

type CategoryFilter struct {
	Search string `form:"search"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description"`
	Icon        *string `json:"icon" binding:"omitempty,max=100"`
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Icon        *string   `json:"icon,omitempty"`
	Description string    `json:"description"`
}
