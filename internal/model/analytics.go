package model

// DayPerformance reports, for one date, how many habits were scheduled and
// how many were completed.
type DayPerformance struct {
	Date      string `json:"fecha"`
	Scheduled int    `json:"habitos"`
	Completed int    `json:"habitos_completados"`
}

// HabitCompliance reports, for one habit over a range, how many days it
// applied and on how many of those it was completed. Date carries the
// earliest applicable date inside the range.
type HabitCompliance struct {
	Date      string `json:"fecha"`
	HabitName string `json:"nombre_habito"`
	Completed int    `json:"habitos_completados"`
	Total     int    `json:"total_habitos"`
	Color     string `json:"color"`
}

// DayProjection is one calendar cell of the month view.
type DayProjection struct {
	Date       string  `json:"fecha"`
	Scheduled  int     `json:"habitos_programados"`
	Completed  int     `json:"habitos_completados"`
	Percentage float64 `json:"porcentaje"`
	HasRecord  bool    `json:"tiene_registro"`
}

// HabitDayProjection is one calendar cell of the single-habit month view.
type HabitDayProjection struct {
	Date      string `json:"fecha"`
	Scheduled bool   `json:"programado"`
	Completed bool   `json:"completado"`
}
