package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/skillnest/internal/modules/user/repository"
	"anoa.com/skillnest/internal/modules/user/service"
	"anoa.com/skillnest/internal/testutil"
	"anoa.com/skillnest/pkg/logger"
	"anoa.com/skillnest/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	svc := service.NewAuthService(
		repository.NewUserRepository(db),
		token.NewManager("secret", time.Hour),
		nil,
		service.OAuthCredentials{ClientID: "id", ClientSecret: "secret"},
		service.OAuthCredentials{},
		logger.Nop(),
	)
	h := NewAuthHandler(svc, "")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/:provider/login", h.OAuthLogin)
	r.GET("/auth/:provider/callback", h.OAuthCallback)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginFlow(t *testing.T) {
	r := newRouter(t)

	w := doJSON(r, http.MethodPost, "/auth/register", map[string]string{
		"email": "grace@example.com", "password": "password123", "full_name": "Grace Hopper",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Bearer", res["token_type"])
	assert.NotEmpty(t, res["access_token"])

	w = doJSON(r, http.MethodPost, "/auth/register", map[string]string{
		"email": "grace@example.com", "password": "password123", "full_name": "Grace Again",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"email already registered"}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/auth/login", map[string]string{"email": "grace@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/auth/login", map[string]string{"email": "grace@example.com", "password": "password123"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := newRouter(t)

	w := doJSON(r, http.MethodPost, "/auth/register", map[string]string{
		"email": "not-an-email", "password": "short", "full_name": "X",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestOAuthLoginSetsStateCookie(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "accounts.google.com")
	assert.Contains(t, w.Header().Get("Set-Cookie"), oauthStateCookie+"=")

	req = httptest.NewRequest(http.MethodGet, "/auth/github/login", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code, "github is not configured")
}

func TestOAuthCallbackRejectsBadState(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "expected"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid oauth state"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
