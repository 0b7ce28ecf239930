package handler

import (
	"net/http"

	"anoa.com/skillnest/internal/modules/roadmap/dto"
	roadmap "anoa.com/skillnest/internal/modules/roadmap/service"
	commonDto "anoa.com/skillnest/pkg/dto"
	"anoa.com/skillnest/pkg/response"
	"anoa.com/skillnest/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoadmapHandler struct {
	service roadmap.RoadmapService
}

func NewRoadmapHandler(service roadmap.RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{service: service}
}

func bindID(c *gin.Context) (uuid.UUID, bool) {
	var req commonDto.IDParam
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}

func (h *RoadmapHandler) GetPublishedRoadmap(c *gin.Context) {
	res, err := h.service.GetPublishedRoadmap(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *RoadmapHandler) ListRoadmaps(c *gin.Context) {
	res, err := h.service.ListRoadmaps(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *RoadmapHandler) GetFullRoadmap(c *gin.Context) {
	res, err := h.service.GetFullRoadmap(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *RoadmapHandler) CreateRoadmap(c *gin.Context) {
	var req dto.CreateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.CreateRoadmap(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": res})
}

func (h *RoadmapHandler) UpdateRoadmap(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req dto.UpdateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.UpdateRoadmap(c.Request.Context(), id, req); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "roadmap updated successfully"})
}

func (h *RoadmapHandler) AddStep(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req dto.AddStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.AddStep(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": res})
}

func (h *RoadmapHandler) MoveStep(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req dto.MoveStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.MoveStep(c.Request.Context(), id, req.Direction); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "step moved"})
}

func (h *RoadmapHandler) DeleteStep(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteStep(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "step deleted successfully"})
}

func (h *RoadmapHandler) AddItem(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.AddItem(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": res})
}

func (h *RoadmapHandler) DeleteItem(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item deleted successfully"})
}
