package handler

import (
	"context"
	"net/http"

	"anoa.com/skillnest/internal/modules/skill/dto"
	skill "anoa.com/skillnest/internal/modules/skill/service"
	commonDto "anoa.com/skillnest/pkg/dto"
	"anoa.com/skillnest/pkg/response"
	"anoa.com/skillnest/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SkillHandler struct {
	service skill.SkillService
}

func NewSkillHandler(service skill.SkillService) *SkillHandler {
	return &SkillHandler{service: service}
}

func (h *SkillHandler) ListSkills(c *gin.Context) {
	var filter dto.SkillFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	skills, err := h.service.ListSkills(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": skills})
}

func (h *SkillHandler) GetSkillBySlug(c *gin.Context) {
	res, err := h.service.GetSkillBySlug(c.Request.Context(), c.Param("slug"), response.IsAdmin(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *SkillHandler) SuggestSkill(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SuggestSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.SuggestSkill(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": res, "message": "skill suggested, waiting for review"})
}

// Admin

func (h *SkillHandler) ListByStatus(c *gin.Context) {
	var filter dto.AdminSkillFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	skills, err := h.service.ListByStatus(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": skills})
}

func (h *SkillHandler) CreateSkill(c *gin.Context) {
	var req dto.CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.CreateSkill(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": res})
}

func (h *SkillHandler) ApproveSkill(c *gin.Context) {
	h.moderate(c, h.service.ApproveSkill, "skill approved")
}

func (h *SkillHandler) RejectSkill(c *gin.Context) {
	h.moderate(c, h.service.RejectSkill, "skill rejected")
}

func (h *SkillHandler) DeleteSkill(c *gin.Context) {
	h.moderate(c, h.service.DeleteSkill, "skill deleted successfully")
}

func (h *SkillHandler) moderate(c *gin.Context, action func(ctx context.Context, id uuid.UUID) error, message string) {
	var req commonDto.IDParam
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return
	}

	if err := action(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}
