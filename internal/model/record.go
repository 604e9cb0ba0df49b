package model

import "time"

// Record is the per-user, per-date container of that day's habit progress.
// Date is stored as YYYY-MM-DD; (UserID, Date) is unique.
type Record struct {
	ID        int       `json:"id"`
	UserID    int       `json:"usuario_id"`
	Date      string    `json:"fecha"`
	Notes     string    `json:"notas"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Progress is the completion state of one habit within one record.
type Progress struct {
	ID        int       `json:"id"`
	RecordID  int       `json:"registro_id"`
	HabitID   int       `json:"habito_id"`
	Value     float64   `json:"valor"`
	Completed bool      `json:"completado"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProgressPatch struct {
	Value     *float64 `json:"valor"`
	Completed *bool    `json:"completado"`
}

func (p ProgressPatch) Apply(pr *Progress) {
	if p.Value != nil {
		pr.Value = *p.Value
	}
	if p.Completed != nil {
		pr.Completed = *p.Completed
	}
}

type RecordPatch struct {
	Notes *string `json:"notas"`
}

func (p RecordPatch) Apply(r *Record) {
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
}

// RecordWithProgress is the materialized view returned by the date lookup.
type RecordWithProgress struct {
	Record
	Progress []Progress `json:"progresos"`
}
