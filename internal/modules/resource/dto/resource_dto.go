package dto

import (
	commonDto "anoa.com/skillnest/pkg/dto"
	"github.com/google/uuid"
)

// Viewer identifies who is reading a resource. UserID is nil for anonymous visitors.
type Viewer struct {
	UserID  *uuid.UUID
	IsAdmin bool
	// Key deduplicates views: the user id when signed in, the client address otherwise.
	Key string
}

type NewSkillInput struct {
	Name       string  `json:"name" form:"new_skill_name"`
	CategoryID *string `json:"category_id" form:"new_skill_category_id" binding:"omitempty,uuid"`
}

type CreateResourceRequest struct {
	Title          string         `json:"title" form:"title" binding:"max=255"`
	URL            string         `json:"url" form:"url" binding:"required"`
	Type           string         `json:"type" form:"type" binding:"required"`
	Level          string         `json:"level" form:"level" binding:"required"`
	Description    string         `json:"description" form:"description" binding:"max=5000"`
	Content        string         `json:"content" form:"content"`
	Duration       *string        `json:"duration" form:"duration" binding:"omitempty,max=50"`
	LearningPoints []string       `json:"learning_points" form:"learning_points" binding:"max=20"`
	SkillID        *string        `json:"skill_id" form:"skill_id" binding:"omitempty,uuid"`
	NewSkill       *NewSkillInput `json:"new_skill"`
}

type AdminResourceFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=published pending hidden"`
	Search string `form:"q"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=published pending hidden"`
}

type MetadataRequest struct {
	URL string `form:"url" json:"url" binding:"required,url"`
}

type ResourceDetailResponse struct {
	commonDto.ResourceResponse
	Content        string                      `json:"content"`
	LearningPoints []string                    `json:"learning_points"`
	Comments       []commonDto.CommentResponse `json:"comments"`
	Liked          bool                        `json:"liked"`
	Bookmarked     bool                        `json:"bookmarked"`
}

type DashboardStatsResponse struct {
	Posts          int64 `json:"posts"`
	TotalViews     int64 `json:"total_views"`
	LikesReceived  int64 `json:"likes_received"`
	BookmarksSaved int64 `json:"bookmarks_saved"`
}

type ResourceListResponse struct {
	Skill     commonDto.SkillSummary       `json:"skill"`
	Resources []commonDto.ResourceResponse `json:"resources"`
}
