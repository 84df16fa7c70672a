package dto

// ExtractionRequest asks the AI collaborator to read trade fields out of a
// screenshot. The image is referenced by URL; this service never handles the
// upload itself.
type ExtractionRequest struct {
	ImageURL string `json:"image_url" binding:"required" example:"https://cdn.example.com/shots/4213.png"`
}

// ExtractionResponse is the set of trade fields the model recognized.
// Fields the model could not read are returned as zero values.
type ExtractionResponse struct {
	Symbol     string  `json:"symbol" example:"BTCUSDT"`
	Side       string  `json:"side" example:"short"`
	EntryPrice float64 `json:"entry_price" example:"64210.5"`
	ExitPrice  float64 `json:"exit_price" example:"63105.0"`
	Quantity   float64 `json:"quantity" example:"0.5"`
	ProfitLoss float64 `json:"profit_loss" example:"552.75"`
	ROI        float64 `json:"roi" example:"1.72"`
}

// MarketSnapshotResponse is the quote relayed from the external market-data
// feed by GET /api/v1/market/snapshot.
type MarketSnapshotResponse struct {
	Symbol        string  `json:"symbol" example:"AAPL"`
	Price         float64 `json:"price" example:"227.63"`
	ChangePercent float64 `json:"change_percent" example:"-0.42"`
	High          float64 `json:"high" example:"229.10"`
	Low           float64 `json:"low" example:"225.87"`
	Volume        int64   `json:"volume" example:"48291034"`
	AsOf          string  `json:"as_of" example:"2026-02-11T20:59:00Z"`
}
