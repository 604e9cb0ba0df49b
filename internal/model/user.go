package model

import "time"

type User struct {
	ID                   int       `json:"id"`
	Name                 string    `json:"nombre"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"-"`
	CanViewFuture        bool      `json:"ver_futuro"`
	NotificationsEnabled bool      `json:"notificaciones_activas"`
	RemindersEnabled     bool      `json:"recordatorios_activos"`
	ReminderTime         string    `json:"hora_recordatorio"`
	Timezone             string    `json:"timezone"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// UserPatch lists the user fields a profile update may touch. Nil means
// "leave as is".
type UserPatch struct {
	Name          *string `json:"nombre"`
	Email         *string `json:"email"`
	CanViewFuture *bool   `json:"ver_futuro"`
}

// Apply merges the patch into u field by field.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.CanViewFuture != nil {
		u.CanViewFuture = *p.CanViewFuture
	}
}
