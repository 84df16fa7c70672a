package models

import "time"

// SessionStatus marks whether a trading session still contributes capital.
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionClosed SessionStatus = "closed"
)

// Session is a trading session holding part of the user's capital.
//
// The active capital figure reported alongside statistics is the sum of
// CurrentCapital over the user's active sessions.
type Session struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	Name            string        `json:"name"`
	StartingCapital float64       `json:"starting_capital"`
	CurrentCapital  float64       `json:"current_capital"`
	Status          SessionStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
}
