package dto

import (
	"time"

	commonDto "anoa.com/skillnest/pkg/dto"
	"github.com/google/uuid"
)

type CreateRoadmapRequest struct {
	SkillID     string `json:"skill_id" binding:"required,uuid"`
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
}

type UpdateRoadmapRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=draft published"`
}

type AddStepRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
}

type MoveStepRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// AddItemRequest links either an existing resource or a bare title and URL.
type AddItemRequest struct {
	ResourceID *string `json:"resource_id" binding:"omitempty,uuid"`
	Title      string  `json:"title" binding:"max=255"`
	URL        *string `json:"url" binding:"omitempty,url"`
}

type ItemResponse struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	URL        *string    `json:"url,omitempty"`
	ResourceID *uuid.UUID `json:"resource_id,omitempty"`
	Type       string     `json:"type,omitempty"`
	OrderIndex int        `json:"order_index"`
}

type StepResponse struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	OrderIndex  int            `json:"order_index"`
	Items       []ItemResponse `json:"items"`
}

type RoadmapResponse struct {
	ID          uuid.UUID      `json:"id"`
	SkillID     uuid.UUID      `json:"skill_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Steps       []StepResponse `json:"steps"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type RoadmapSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SkillRoadmapResponse struct {
	Skill   commonDto.SkillSummary `json:"skill"`
	Roadmap *RoadmapResponse       `json:"roadmap"`
}

type RoadmapListItem struct {
	Skill   commonDto.SkillSummary `json:"skill"`
	Roadmap *RoadmapSummary        `json:"roadmap"`
}
