package model

import "time"

// Habit is a recurring action with a weekly schedule. Days holds the raw
// JSON-encoded list of day letters exactly as stored, e.g. `["L","X","V"]`;
// the schedule package owns decoding it.
type Habit struct {
	ID          int       `json:"id"`
	UserID      int       `json:"usuario_id"`
	CategoryID  int       `json:"categoria_id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	Unit        string    `json:"unidad_medida"`
	DailyGoal   float64   `json:"meta_diaria"`
	Days        string    `json:"dias"`
	Color       string    `json:"color"`
	Active      bool      `json:"activo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type HabitPatch struct {
	Name        *string  `json:"nombre"`
	Description *string  `json:"descripcion"`
	CategoryID  *int     `json:"categoria_id"`
	Unit        *string  `json:"unidad_medida"`
	DailyGoal   *float64 `json:"meta_diaria"`
	Days        *string  `json:"dias"`
	Color       *string  `json:"color"`
	Active      *bool    `json:"activo"`
}

func (p HabitPatch) Apply(h *Habit) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.CategoryID != nil {
		h.CategoryID = *p.CategoryID
	}
	if p.Unit != nil {
		h.Unit = *p.Unit
	}
	if p.DailyGoal != nil {
		h.DailyGoal = *p.DailyGoal
	}
	if p.Days != nil {
		h.Days = *p.Days
	}
	if p.Color != nil {
		h.Color = *p.Color
	}
	if p.Active != nil {
		h.Active = *p.Active
	}
}

type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"nombre"`
	CreatedAt time.Time `json:"created_at"`
}
