package models

// RiskLevel is a coarse classification derived from the maximum drawdown.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Statistics is the full set of performance figures computed over a user's
// journaled trades. It is derived on every request and never persisted.
//
// swagger:model Statistics
type Statistics struct {
	TotalTrades        int       `json:"total_trades" example:"42"`
	TotalPnL           float64   `json:"total_pnl" example:"1250.75"`
	WinRate            float64   `json:"win_rate" example:"57.14"`
	ProfitFactor       float64   `json:"profit_factor" example:"1.8"`
	MaxDrawdownAmount  float64   `json:"max_drawdown_amount" example:"320.50"`
	MaxDrawdownPercent float64   `json:"max_drawdown_percent" example:"12.4"`
	SharpeRatio        float64   `json:"sharpe_ratio" example:"0.65"`
	BestStreak         int       `json:"best_streak" example:"5"`
	WorstStreak        int       `json:"worst_streak" example:"3"`
	LongTrades         int       `json:"long_trades" example:"25"`
	ShortTrades        int       `json:"short_trades" example:"17"`
	AvgRiskPerTrade    float64   `json:"avg_risk_per_trade" example:"85.30"`
	MaxRisk            float64   `json:"max_risk" example:"410.00"`
	RiskLevel          RiskLevel `json:"risk_level" example:"moderate"`
	ActiveCapital      float64   `json:"active_capital" example:"10000"`
}
