package handler

import (
	"net/http"

	"anoa.com/skillnest/internal/modules/category/dto"
	category "anoa.com/skillnest/internal/modules/category/service"
	commonDto "anoa.com/skillnest/pkg/dto"
	"anoa.com/skillnest/pkg/response"
	"anoa.com/skillnest/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	service category.CategoryService
}

func NewCategoryHandler(service category.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": res})
}

func (h *CategoryHandler) GetAllCategories(c *gin.Context) {
	var filter dto.CategoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	categories, err := h.service.GetAllCategories(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	var req commonDto.IDParam
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category deleted successfully"})
}
