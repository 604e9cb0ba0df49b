package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitud/internal/model"
	"habitud/internal/service"
)

type RecordHandler struct {
	records  *service.RecordService
	calendar *service.CalendarService
	logger   *zap.Logger
}

func NewRecordHandler(records *service.RecordService, calendar *service.CalendarService, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{records: records, calendar: calendar, logger: logger}
}

// GetByDate returns the record for a date, materializing it on first
// access.
func (h *RecordHandler) GetByDate(c *gin.Context) {
	date := c.Param("fecha")

	rec, err := h.records.GetOrCreateForDate(c.Request.Context(), currentUserID(c), date)
	if err != nil {
		respondError(c, h.logger, "GetRecordByDate", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *RecordHandler) List(c *gin.Context) {
	recs, err := h.records.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "ListRecords", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registros": recs})
}

func (h *RecordHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var patch model.RecordPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de petición inválido"})
		return
	}

	rec, err := h.records.UpdateNotes(c.Request.Context(), id, currentUserID(c), patch)
	if err != nil {
		respondError(c, h.logger, "UpdateRecord", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	if err := h.records.Delete(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondError(c, h.logger, "DeleteRecord", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *RecordHandler) UpdateProgress(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var patch model.ProgressPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de petición inválido"})
		return
	}

	p, err := h.records.UpdateProgress(c.Request.Context(), id, currentUserID(c), patch)
	if err != nil {
		respondError(c, h.logger, "UpdateProgress", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *RecordHandler) ToggleProgress(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	p, err := h.records.ToggleProgress(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "ToggleProgress", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *RecordHandler) MonthCalendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "año inválido"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mes inválido"})
		return
	}

	days, err := h.calendar.MonthProgress(c.Request.Context(), currentUserID(c), year, month)
	if err != nil {
		respondError(c, h.logger, "MonthCalendar", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dias": days})
}

func (h *RecordHandler) HabitMonthCalendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "año inválido"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mes inválido"})
		return
	}
	habitID, err := strconv.Atoi(c.Param("habitoID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id de hábito inválido"})
		return
	}

	days, err := h.calendar.HabitMonthProgress(c.Request.Context(), currentUserID(c), year, month, habitID)
	if err != nil {
		respondError(c, h.logger, "HabitMonthCalendar", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dias": days})
}
