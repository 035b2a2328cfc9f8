package handler

import (
	"github.com/gin-gonic/gin"

	appaccount "github.com/storepos/backend/internal/application/account"
)

// AuthHandler handles the public registration and login endpoints
type AuthHandler struct {
	accounts *appaccount.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts *appaccount.AuthService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register creates an account and returns an access token
func (h *AuthHandler) Register(c *gin.Context) {
	var req appaccount.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	token, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, token)
}

// Login exchanges credentials for an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req appaccount.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	token, err := h.accounts.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, token)
}
