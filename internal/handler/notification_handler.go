package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitud/internal/service"
)

type NotificationHandler struct {
	notifications  *service.NotificationService
	vapidPublicKey string
	logger         *zap.Logger
}

func NewNotificationHandler(notifications *service.NotificationService, vapidPublicKey string, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications:  notifications,
		vapidPublicKey: vapidPublicKey,
		logger:         logger,
	}
}

// VAPIDPublicKey is public: the frontend needs it before any login to set
// up its push subscription.
func (h *NotificationHandler) VAPIDPublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"public_key": h.vapidPublicKey})
}

func (h *NotificationHandler) Subscribe(c *gin.Context) {
	var in service.SubscriptionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de petición inválido"})
		return
	}

	sub, err := h.notifications.Subscribe(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		respondError(c, h.logger, "Subscribe", err)
		return
	}

	h.logger.Info("Push subscription registered",
		zap.Int("user_id", currentUserID(c)),
		zap.Int("subscription_id", sub.ID),
	)
	c.JSON(http.StatusCreated, sub)
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	var req unsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint es obligatorio"})
		return
	}

	if err := h.notifications.Unsubscribe(c.Request.Context(), currentUserID(c), req.Endpoint); err != nil {
		respondError(c, h.logger, "Unsubscribe", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.notifications.GetPreferences(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "GetPreferences", err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	var patch service.PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de petición inválido"})
		return
	}

	prefs, err := h.notifications.UpdatePreferences(c.Request.Context(), currentUserID(c), patch)
	if err != nil {
		respondError(c, h.logger, "UpdatePreferences", err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

type testNotificationRequest struct {
	Title string `json:"titulo"`
	Body  string `json:"mensaje"`
}

func (h *NotificationHandler) SendTest(c *gin.Context) {
	var req testNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = testNotificationRequest{}
	}

	if err := h.notifications.SendTest(c.Request.Context(), currentUserID(c), req.Title, req.Body); err != nil {
		respondError(c, h.logger, "SendTest", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
