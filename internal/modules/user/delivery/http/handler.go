package handler

import (
	"net/http"
	"net/url"

	"anoa.com/skillnest/internal/modules/user/dto"
	"anoa.com/skillnest/internal/modules/user/service"
	"anoa.com/skillnest/pkg/response"
	"anoa.com/skillnest/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	authService service.AuthService
	frontendURL string
}

// NewAuthHandler builds the auth endpoints. When frontendURL is set, OAuth callbacks
// redirect there with the token in the fragment instead of answering with JSON.
func NewAuthHandler(authService service.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		frontendURL: frontendURL,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Logout is stateless; the client drops its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	state := uuid.New().String()

	authURL, err := h.authService.OAuthLoginURL(c.Param("provider"), state)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)

	if c.Query("redirect") == "false" {
		c.JSON(http.StatusOK, dto.OAuthURLResponse{URL: authURL})
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code not found"})
		return
	}

	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" || expected != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	res, err := h.authService.OAuthCallback(c.Request.Context(), c.Param("provider"), code)
	if err != nil {
		if h.frontendURL != "" {
			c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error="+url.QueryEscape(err.Error()))
			return
		}
		response.ResponseError(c, err)
		return
	}

	if h.frontendURL != "" {
		fragment := url.Values{}
		fragment.Set("access_token", res.AccessToken)
		fragment.Set("search_token", res.SearchToken)
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/auth/callback#"+fragment.Encode())
		return
	}

	c.JSON(http.StatusOK, res)
}
