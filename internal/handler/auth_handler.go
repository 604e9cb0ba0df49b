package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitud/internal/service"
)

type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type registerRequest struct {
	Name          string `json:"nombre"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	CanViewFuture bool   `json:"ver_futuro"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de petición inválido"})
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.CanViewFuture)
	if err != nil {
		respondError(c, h.logger, "Register", err)
		return
	}

	h.logger.Info("User registered",
		zap.Int("user_id", user.ID),
		zap.String("client_ip", c.ClientIP()),
	)
	c.JSON(http.StatusCreated, gin.H{
		"usuario": user,
		"token":   token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de petición inválido"})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, "Login", err)
		return
	}

	h.logger.Info("User logged in",
		zap.Int("user_id", user.ID),
		zap.String("client_ip", c.ClientIP()),
	)
	c.JSON(http.StatusOK, gin.H{
		"usuario": user,
		"token":   token,
	})
}
