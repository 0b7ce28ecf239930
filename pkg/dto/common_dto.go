package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
)

type AuthorResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	Bio       *string   `json:"bio,omitempty"`
}

type SkillSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	CategoryName string    `json:"category_name,omitempty"`
}

type ResourceResponse struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	URL           string         `json:"url"`
	Type          string         `json:"type"`
	Level         string         `json:"level"`
	Duration      *string        `json:"duration,omitempty"`
	ThumbnailURL  *string        `json:"thumbnail_url,omitempty"`
	Status        string         `json:"status"`
	Views         int            `json:"views"`
	LikeCount     int            `json:"like_count"`
	BookmarkCount int            `json:"bookmark_count"`
	CommentCount  int            `json:"comment_count"`
	Skill         *SkillSummary  `json:"skill,omitempty"`
	Author        AuthorResponse `json:"author"`
	CreatedAt     time.Time      `json:"created_at"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

// NewPaginationMeta fills TotalPages from the item count.
func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int(total) / limit
		if int(total)%limit != 0 {
			totalPages++
		}
	}
	return PaginationMeta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       limit,
	}
}

// UploadFile is an image received from a multipart form.
type UploadFile struct {
	Reader   io.Reader
	FileName string
}

// IDParam binds an `:id` path segment.
type IDParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type CommentResponse struct {
	ID         uuid.UUID      `json:"id"`
	ResourceID uuid.UUID      `json:"resource_id"`
	Content    string         `json:"content"`
	Author     AuthorResponse `json:"author"`
	CreatedAt  time.Time      `json:"created_at"`
}
