package dto

import (
	"time"

	commonDto "anoa.com/skillnest/pkg/dto"
	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID         uuid.UUID                 `json:"id"`
	Type       string                    `json:"type"`
	Message    string                    `json:"message"`
	ResourceID uuid.UUID                 `json:"resource_id"`
	IsRead     bool                      `json:"is_read"`
	Actor      *commonDto.AuthorResponse `json:"actor,omitempty"`
	CreatedAt  time.Time                 `json:"created_at"`
}
