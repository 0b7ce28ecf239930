package handler

import (
	"net/http"

	"anoa.com/skillnest/internal/modules/engagement/dto"
	engagement "anoa.com/skillnest/internal/modules/engagement/service"
	commonDto "anoa.com/skillnest/pkg/dto"
	"anoa.com/skillnest/pkg/response"
	"anoa.com/skillnest/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EngagementHandler struct {
	service engagement.EngagementService
}

func NewEngagementHandler(service engagement.EngagementService) *EngagementHandler {
	return &EngagementHandler{service: service}
}

// userAndTarget reads the caller and the :id path segment, writing the error response itself.
func userAndTarget(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, uuid.Nil, false
	}

	var req commonDto.IDParam
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, uuid.MustParse(req.ID), true
}

func (h *EngagementHandler) ToggleLike(c *gin.Context) {
	userID, resourceID, ok := userAndTarget(c)
	if !ok {
		return
	}

	res, err := h.service.ToggleLike(c.Request.Context(), userID, resourceID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *EngagementHandler) ToggleBookmark(c *gin.Context) {
	userID, resourceID, ok := userAndTarget(c)
	if !ok {
		return
	}

	res, err := h.service.ToggleBookmark(c.Request.Context(), userID, resourceID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *EngagementHandler) ListBookmarks(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.ListBookmarks(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *EngagementHandler) AddComment(c *gin.Context) {
	userID, resourceID, ok := userAndTarget(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.AddComment(c.Request.Context(), userID, resourceID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": res})
}

func (h *EngagementHandler) ListComments(c *gin.Context) {
	var req commonDto.IDParam
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return
	}

	res, err := h.service.ListComments(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *EngagementHandler) DeleteComment(c *gin.Context) {
	userID, commentID, ok := userAndTarget(c)
	if !ok {
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), userID, response.IsAdmin(c), commentID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted successfully"})
}
