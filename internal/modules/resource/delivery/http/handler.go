package handler

import (
	"net/http"

	"anoa.com/skillnest/internal/modules/resource/dto"
	resource "anoa.com/skillnest/internal/modules/resource/service"
	commonDto "anoa.com/skillnest/pkg/dto"
	"anoa.com/skillnest/pkg/response"
	"anoa.com/skillnest/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ResourceHandler struct {
	service resource.ResourceService
}

func NewResourceHandler(service resource.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

func bindID(c *gin.Context) (uuid.UUID, bool) {
	var req commonDto.IDParam
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}

func (h *ResourceHandler) ListBySkill(c *gin.Context) {
	res, err := h.service.ListBySkill(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *ResourceHandler) GetResource(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	viewer := dto.Viewer{
		UserID:  response.OptionalUserID(c),
		IsAdmin: response.IsAdmin(c),
		Key:     c.ClientIP(),
	}
	if viewer.UserID != nil {
		viewer.Key = viewer.UserID.String()
	}

	res, err := h.service.GetResource(c.Request.Context(), id, viewer)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *ResourceHandler) CreateResource(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateResourceRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	var thumbnail *commonDto.UploadFile
	if fileHeader, err := c.FormFile("thumbnail"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read thumbnail"})
			return
		}
		defer file.Close()

		thumbnail = &commonDto.UploadFile{
			Reader:   file,
			FileName: fileHeader.Filename,
		}
	}

	res, err := h.service.CreateResource(c.Request.Context(), userID, req, thumbnail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": res})
}

func (h *ResourceHandler) ListMine(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *ResourceHandler) DashboardStats(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.DashboardStats(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *ResourceHandler) DeleteResource(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteResource(c.Request.Context(), userID, response.IsAdmin(c), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "resource deleted successfully"})
}

func (h *ResourceHandler) FetchMetadata(c *gin.Context) {
	var req dto.MetadataRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	meta, err := h.service.FetchMetadata(c.Request.Context(), req.URL)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": meta})
}

// Admin

func (h *ResourceHandler) ListAll(c *gin.Context) {
	var filter dto.AdminResourceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.ListAll(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *ResourceHandler) UpdateStatus(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "resource status updated"})
}

func (h *ResourceHandler) AdminDeleteResource(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteResource(c.Request.Context(), uuid.Nil, true, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "resource deleted successfully"})
}
