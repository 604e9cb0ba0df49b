package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitud/internal/model"
	"habitud/internal/service"
)

type UserHandler struct {
	users  *service.UserService
	logger *zap.Logger
}

func NewUserHandler(users *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "Me", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var patch model.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de petición inválido"})
		return
	}

	user, err := h.users.Update(c.Request.Context(), currentUserID(c), patch)
	if err != nil {
		respondError(c, h.logger, "UpdateMe", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID := currentUserID(c)
	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, "DeleteMe", err)
		return
	}

	h.logger.Info("User account deleted", zap.Int("user_id", userID))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
