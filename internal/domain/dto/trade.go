package dto

import (
	"fmt"

	"github.com/quantlog/quantlog/internal/domain/models"
)

// CreateTradeRequest is the JSON body of POST /api/v1/trades.
type CreateTradeRequest struct {
	UserID     string  `json:"user_id" binding:"required" example:"8f14e45f-ceea-4b4c-a0f5-4f1c3a9f2b01"`
	Symbol     string  `json:"symbol" binding:"required" example:"EURUSD"`
	Side       string  `json:"side" binding:"required" example:"long"`
	EntryPrice float64 `json:"entry_price" example:"1.0840"`
	ExitPrice  float64 `json:"exit_price" example:"1.0912"`
	Quantity   float64 `json:"quantity" example:"2"`
	ProfitLoss float64 `json:"profit_loss" example:"144.0"`
	ROI        float64 `json:"roi" example:"1.33"`
	Notes      string  `json:"notes,omitempty" example:"breakout retest"`
}

// Validate performs the semantic checks gin's binding tags cannot express.
func (r CreateTradeRequest) Validate() error {
	if !models.Side(r.Side).Valid() {
		return fmt.Errorf("side must be %q or %q, got %q", models.SideLong, models.SideShort, r.Side)
	}
	if r.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}
	return nil
}

// CreateSessionRequest is the JSON body of POST /api/v1/sessions.
type CreateSessionRequest struct {
	UserID          string  `json:"user_id" binding:"required" example:"8f14e45f-ceea-4b4c-a0f5-4f1c3a9f2b01"`
	Name            string  `json:"name" binding:"required" example:"swing account"`
	StartingCapital float64 `json:"starting_capital" example:"10000"`
}

// Validate rejects session bodies the binding tags let through.
func (r CreateSessionRequest) Validate() error {
	if r.StartingCapital < 0 {
		return fmt.Errorf("starting_capital must not be negative")
	}
	return nil
}
