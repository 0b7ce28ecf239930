package dto

type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

type BookmarkResponse struct {
	Bookmarked    bool `json:"bookmarked"`
	BookmarkCount int  `json:"bookmark_count"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}
