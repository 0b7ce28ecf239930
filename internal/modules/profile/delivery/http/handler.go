package handler

import (
	"net/http"

	profileDto "anoa.com/skillnest/internal/modules/profile/dto"
	profile "anoa.com/skillnest/internal/modules/profile/service"
	commonDto "anoa.com/skillnest/pkg/dto"
	"anoa.com/skillnest/pkg/response"
	"anoa.com/skillnest/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) GetProfileByUsername(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	res, err := h.profileService.GetProfileByUsername(c.Request.Context(), username)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ProfileHandler) GetCurrentProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.profileService.GetCurrentProfile(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input profileDto.UpdateProfileInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	var avatar *commonDto.UploadFile
	if fileHeader, err := c.FormFile("avatar"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar"})
			return
		}
		defer file.Close()

		avatar = &commonDto.UploadFile{
			Reader:   file,
			FileName: fileHeader.Filename,
		}
	}

	res, err := h.profileService.UpdateProfile(c.Request.Context(), userID, input, avatar)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
