package model

import "time"

const (
	EventUpcoming  = "upcoming"
	EventActive    = "active"
	EventCompleted = "completed"
)

func ValidEventStatus(status string) bool {
	switch status {
	case EventUpcoming, EventActive, EventCompleted:
		return true
	}
	return false
}

type Event struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Status    string     `json:"status"`
	StartsAt  *time.Time `json:"startsAt"`
	EndsAt    *time.Time `json:"endsAt"`
	CreatedAt time.Time  `json:"createdAt"`
}
