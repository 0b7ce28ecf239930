package dto

import (
	"time"

	"github.com/google/uuid"
)

type StatsResponse struct {
	UserCount     int64 `json:"user_count"`
	PendingSkills int64 `json:"pending_skills"`
	TotalPosts    int64 `json:"total_posts"`
	TotalSkills   int64 `json:"total_skills"`
	TotalRoadmaps int64 `json:"total_roadmaps"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

type AdminUserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}
