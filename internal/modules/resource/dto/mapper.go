package dto

import (
	"anoa.com/skillnest/internal/entity"
	commonDto "anoa.com/skillnest/pkg/dto"
)

func ToAuthor(u *entity.User) commonDto.AuthorResponse {
	if u == nil {
		return commonDto.AuthorResponse{}
	}
	author := commonDto.AuthorResponse{ID: u.ID}
	if u.Profile != nil {
		author.Username = u.Profile.Username
		author.FullName = u.Profile.FullName
		author.AvatarURL = u.Profile.AvatarURL
		author.Bio = u.Profile.Bio
	}
	return author
}

func ToSkillSummary(s *entity.Skill) *commonDto.SkillSummary {
	if s == nil {
		return nil
	}
	summary := &commonDto.SkillSummary{ID: s.ID, Name: s.Name, Slug: s.Slug}
	if s.Category != nil {
		summary.CategoryName = s.Category.Name
	}
	return summary
}

func ToResourceResponse(r *entity.Resource) commonDto.ResourceResponse {
	return commonDto.ResourceResponse{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		URL:           r.URL,
		Type:          r.Type,
		Level:         r.Level,
		Duration:      r.Duration,
		ThumbnailURL:  r.ThumbnailURL,
		Status:        r.Status,
		Views:         r.Views,
		LikeCount:     r.LikeCount,
		BookmarkCount: r.BookmarkCount,
		CommentCount:  r.CommentCount,
		Skill:         ToSkillSummary(r.Skill),
		Author:        ToAuthor(r.User),
		CreatedAt:     r.CreatedAt,
	}
}

func ToResourceResponses(resources []entity.Resource) []commonDto.ResourceResponse {
	res := make([]commonDto.ResourceResponse, 0, len(resources))
	for i := range resources {
		res = append(res, ToResourceResponse(&resources[i]))
	}
	return res
}

func ToCommentResponse(c *entity.Comment) commonDto.CommentResponse {
	return commonDto.CommentResponse{
		ID:         c.ID,
		ResourceID: c.ResourceID,
		Content:    c.Content,
		Author:     ToAuthor(c.User),
		CreatedAt:  c.CreatedAt,
	}
}
