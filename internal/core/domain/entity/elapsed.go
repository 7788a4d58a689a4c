package entity

import "time"

// EstimateMinutes is the provisional preparation time shown before the server
// confirms one: whole minutes since startedAt, never less than 1.
func EstimateMinutes(startedAt, now time.Time) int {
	minutes := int(now.Sub(startedAt) / time.Minute)
	if minutes < 1 {
		return 1
	}
	return minutes
}

// PreparationTime keeps the provisional and the committed durations apart.
type PreparationTime struct {
	EstimatedMinutes int
	ConfirmedMinutes *int
}

// Display returns the confirmed value when there is one, else the estimate.
func (p PreparationTime) Display() int {
	if p.ConfirmedMinutes != nil {
		return *p.ConfirmedMinutes
	}
	return p.EstimatedMinutes
}
