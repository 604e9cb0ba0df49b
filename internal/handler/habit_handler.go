package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitud/internal/model"
	"habitud/internal/service"
)

type HabitHandler struct {
	habits *service.HabitService
	logger *zap.Logger
}

func NewHabitHandler(habits *service.HabitService, logger *zap.Logger) *HabitHandler {
	return &HabitHandler{habits: habits, logger: logger}
}

func (h *HabitHandler) Create(c *gin.Context) {
	var in service.HabitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de petición inválido"})
		return
	}

	habit, err := h.habits.Create(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		respondError(c, h.logger, "CreateHabit", err)
		return
	}

	h.logger.Info("Habit created",
		zap.Int("user_id", habit.UserID),
		zap.Int("habit_id", habit.ID),
	)
	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) List(c *gin.Context) {
	habits, err := h.habits.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "ListHabits", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"habitos": habits})
}

func (h *HabitHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	habit, err := h.habits.GetByID(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "GetHabit", err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var patch model.HabitPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de petición inválido"})
		return
	}

	habit, err := h.habits.Update(c.Request.Context(), id, currentUserID(c), patch)
	if err != nil {
		respondError(c, h.logger, "UpdateHabit", err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	if err := h.habits.Delete(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondError(c, h.logger, "DeleteHabit", err)
		return
	}

	h.logger.Info("Habit deleted",
		zap.Int("user_id", currentUserID(c)),
		zap.Int("habit_id", id),
	)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
