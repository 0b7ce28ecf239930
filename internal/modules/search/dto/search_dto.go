package dto

type SearchQuery struct {
	Q     string `form:"q" binding:"required"`
	Limit int    `form:"limit"`
}

type SkillHit struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	CategoryName string `json:"category_name,omitempty"`
}

type ResourceHit struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Type        string `json:"type"`
	Level       string `json:"level"`
	SkillName   string `json:"skill_name,omitempty"`
	SkillSlug   string `json:"skill_slug,omitempty"`
}

type SearchResponse struct {
	Query     string        `json:"query"`
	Skills    []SkillHit    `json:"skills"`
	Resources []ResourceHit `json:"resources"`
	Source    string        `json:"source"`
}
