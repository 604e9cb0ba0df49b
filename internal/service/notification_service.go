package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"habitud/internal/apperr"
	"habitud/internal/model"
)

// NotificationService manages push subscriptions and notification
// preferences, and hands events to the external notifier.
type NotificationService struct {
	users         UserStore
	subscriptions SubscriptionStore
	notifier      Notifier
	logger        *zap.Logger
}

func NewNotificationService(users UserStore, subscriptions SubscriptionStore, notifier Notifier, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		users:         users,
		subscriptions: subscriptions,
		notifier:      notifier,
		logger:        logger,
	}
}

type SubscriptionInput struct {
	Endpoint  string `json:"endpoint"`
	P256DHKey string `json:"p256dh_key"`
	AuthKey   string `json:"auth_key"`
	UserAgent string `json:"user_agent"`
}

// Subscribe registers a push endpoint for the user. Endpoints are globally
// unique: re-subscribing an existing one re-owns and reactivates it.
// The first active subscription switches the user's notification flag on.
func (s *NotificationService) Subscribe(ctx context.Context, userID int, in SubscriptionInput) (*model.PushSubscription, error) {
	if in.Endpoint == "" || in.P256DHKey == "" || in.AuthKey == "" {
		return nil, apperr.Invalid("endpoint, p256dh_key y auth_key son obligatorios")
	}

	sub, err := s.subscriptions.FindByEndpoint(ctx, in.Endpoint)
	switch {
	case err == nil:
		sub.UserID = userID
		sub.P256DHKey = in.P256DHKey
		sub.AuthKey = in.AuthKey
		sub.UserAgent = in.UserAgent
		sub.Active = true
		if err := s.subscriptions.Update(ctx, sub); err != nil {
			return nil, err
		}
	case errors.Is(err, pgx.ErrNoRows):
		sub = &model.PushSubscription{
			UserID:    userID,
			Endpoint:  in.Endpoint,
			P256DHKey: in.P256DHKey,
			AuthKey:   in.AuthKey,
			UserAgent: in.UserAgent,
			Active:    true,
		}
		if err := s.subscriptions.Create(ctx, sub); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.NotificationsEnabled {
		u.NotificationsEnabled = true
		if err := s.users.Update(ctx, u); err != nil {
			return nil, err
		}
	}

	return sub, nil
}

// Unsubscribe drops one endpoint. When the user's last active subscription
// goes away, notifications are switched off.
func (s *NotificationService) Unsubscribe(ctx context.Context, userID int, endpoint string) error {
	if err := s.subscriptions.DeleteByEndpointAndUser(ctx, endpoint, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("suscripción no encontrada")
		}
		return err
	}

	remaining, err := s.subscriptions.CountActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		u, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u.NotificationsEnabled {
			u.NotificationsEnabled = false
			if err := s.users.Update(ctx, u); err != nil {
				return err
			}
		}
	}
	return nil
}

type Preferences struct {
	NotificationsEnabled bool   `json:"notificaciones_activas"`
	RemindersEnabled     bool   `json:"recordatorios_activos"`
	ReminderTime         string `json:"hora_recordatorio"`
	Timezone             string `json:"timezone"`
}

type PreferencesPatch struct {
	NotificationsEnabled *bool   `json:"notificaciones_activas"`
	RemindersEnabled     *bool   `json:"recordatorios_activos"`
	ReminderTime         *string `json:"hora_recordatorio"`
	Timezone             *string `json:"timezone"`
}

func (s *NotificationService) GetPreferences(ctx context.Context, userID int) (*Preferences, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("usuario no encontrado")
		}
		return nil, err
	}
	return &Preferences{
		NotificationsEnabled: u.NotificationsEnabled,
		RemindersEnabled:     u.RemindersEnabled,
		ReminderTime:         u.ReminderTime,
		Timezone:             u.Timezone,
	}, nil
}

// UpdatePreferences merges the patch, validating the reminder time format
// and the timezone name before anything is written.
func (s *NotificationService) UpdatePreferences(ctx context.Context, userID int, patch PreferencesPatch) (*Preferences, error) {
	if patch.ReminderTime != nil {
		if _, err := time.Parse("15:04", *patch.ReminderTime); err != nil {
			return nil, apperr.Invalid("hora_recordatorio debe tener formato HH:MM")
		}
	}
	if patch.Timezone != nil {
		if _, err := time.LoadLocation(*patch.Timezone); err != nil {
			return nil, apperr.Invalid("timezone desconocida")
		}
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("usuario no encontrado")
		}
		return nil, err
	}

	if patch.NotificationsEnabled != nil {
		u.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.RemindersEnabled != nil {
		u.RemindersEnabled = *patch.RemindersEnabled
	}
	if patch.ReminderTime != nil {
		u.ReminderTime = *patch.ReminderTime
	}
	if patch.Timezone != nil {
		u.Timezone = *patch.Timezone
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return &Preferences{
		NotificationsEnabled: u.NotificationsEnabled,
		RemindersEnabled:     u.RemindersEnabled,
		ReminderTime:         u.ReminderTime,
		Timezone:             u.Timezone,
	}, nil
}

// SendTest dispatches a test notification for the user through the
// notifier. Requires at least one active subscription.
func (s *NotificationService) SendTest(ctx context.Context, userID int, title, body string) error {
	active, err := s.subscriptions.CountActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	if active == 0 {
		return apperr.Invalid("no hay suscripciones activas")
	}

	if title == "" {
		title = "Prueba de notificación"
	}
	if body == "" {
		body = "¡Las notificaciones funcionan correctamente!"
	}

	payload := map[string]any{
		"user_id": userID,
		"title":   title,
		"body":    body,
		"tag":     "test-notification",
	}
	if err := s.notifier.Publish("notification.test", payload); err != nil {
		s.logger.Error("Failed to publish test notification",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
