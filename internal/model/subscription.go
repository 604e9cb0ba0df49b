package model

import "time"

// PushSubscription is one browser push endpoint owned by a user. Endpoint is
// globally unique; re-subscribing an existing endpoint re-owns it.
type PushSubscription struct {
	ID        int       `json:"id"`
	UserID    int       `json:"usuario_id"`
	Endpoint  string    `json:"endpoint"`
	P256DHKey string    `json:"p256dh_key"`
	AuthKey   string    `json:"auth_key"`
	UserAgent string    `json:"user_agent"`
	Active    bool      `json:"activa"`
	CreatedAt time.Time `json:"created_at"`
}
