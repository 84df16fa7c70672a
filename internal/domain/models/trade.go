package models

import "time"

// Side is the direction of a trade entry.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Valid reports whether s is one of the known entry sides.
func (s Side) Valid() bool {
	return s == SideLong || s == SideShort
}

// Trade is a single journaled trade.
//
// ProfitLoss is the signed monetary result in account currency units and ROI
// the signed percentage return of the trade. CreatedAt is used for ordering
// and display only; the analytics pass consumes trades in the order the
// repository returns them.
type Trade struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Quantity   float64   `json:"quantity"`
	ProfitLoss float64   `json:"profit_loss"`
	ROI        float64   `json:"roi"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
