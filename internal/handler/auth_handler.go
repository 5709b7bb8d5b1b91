package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memoapp/memo-server/internal/common"
	"github.com/memoapp/memo-server/internal/domain"
	"github.com/memoapp/memo-server/internal/service"
)

// AuthHandler handles signup and login endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup handles POST /api/users/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "user_id and user_pw are required", err)
		return
	}

	user, err := h.authService.Signup(&req)
	if err != nil {
		common.MapError(c, "signup failed", err)
		return
	}

	common.CreatedResponse(c, user)
}

// Login handles POST /api/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "user_id and user_pw are required", err)
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		common.MapError(c, "login failed", err)
		return
	}

	common.SuccessResponse(c, resp)
}
