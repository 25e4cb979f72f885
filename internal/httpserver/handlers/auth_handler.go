package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradedesk-system/internal/apperr"
	"tradedesk-system/internal/services/users"
)

type AuthHTTPHandler struct {
	users *users.Service
}

func NewAuthHTTPHandler(userSvc *users.Service) *AuthHTTPHandler {
	return &AuthHTTPHandler{users: userSvc}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHTTPHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body"))
		return
	}

	user, token, err := h.users.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *AuthHTTPHandler) Register(c *gin.Context) {
	var req users.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body"))
		return
	}

	user, token, err := h.users.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}
