package handler

import (
	"net/http"

	"anoa.com/skillnest/internal/modules/admin/dto"
	adminService "anoa.com/skillnest/internal/modules/admin/service"
	commonDto "anoa.com/skillnest/pkg/dto"
	"anoa.com/skillnest/pkg/response"
	"anoa.com/skillnest/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService adminService.AdminService
}

func NewAdminHandler(adminService adminService.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	res, err := h.adminService.GetStats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	res, err := h.adminService.GetAllUsers(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	actorID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var uri commonDto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return
	}

	var input dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.adminService.UpdateUserRole(c.Request.Context(), actorID, uuid.MustParse(uri.ID), input.Role); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user role updated"})
}
