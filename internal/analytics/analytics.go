// Package analytics computes aggregate performance statistics over an
// ordered collection of journaled trades.
//
// Compute is a pure function: it performs no I/O, never mutates its input,
// holds no state across calls, and is safe to invoke concurrently.
package analytics

import (
	"math"

	"github.com/quantlog/quantlog/internal/domain/models"
)

// profitFactorNoLosses is reported when there are winning trades but no
// losing ones, so there is no gross loss to normalize against.
const profitFactorNoLosses = 999

// Compute derives models.Statistics from trades and the user's active
// capital in a single chronological pass plus scalar aggregation.
//
// The input slice order is treated as chronological and is never re-sorted:
// cumulative P&L, drawdown, and streaks are order-sensitive, so callers must
// supply trades in a consistent sequence (the repository orders by
// created_at, id).
//
// A trade with ProfitLoss == 0 counts as neither a win nor a loss: it is
// excluded from the win rate and profit factor and it resets both streak
// counters.
//
// For an empty input every ratio metric is exactly 0, RiskLevel is low, and
// ActiveCapital is still carried through (it does not depend on trade count).
func Compute(trades []models.Trade, activeCapital float64) models.Statistics {
	stats := models.Statistics{
		TotalTrades:   len(trades),
		RiskLevel:     models.RiskLow,
		ActiveCapital: activeCapital,
	}
	if len(trades) == 0 {
		return stats
	}

	var (
		wins, losses           int
		grossProfit, grossLoss float64
		roiSum                 float64

		cumulative, peak float64
		winRun, lossRun  int

		riskSum float64
	)

	for _, t := range trades {
		pnl := t.ProfitLoss
		stats.TotalPnL += pnl
		roiSum += t.ROI

		switch {
		case pnl > 0:
			wins++
			grossProfit += pnl
		case pnl < 0:
			losses++
			grossLoss += -pnl
		}

		// Drawdown: deepest single decline of the running cumulative P&L
		// from its running peak (peak starts at zero).
		cumulative += pnl
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > stats.MaxDrawdownAmount {
			stats.MaxDrawdownAmount = dd
			if peak > 0 {
				stats.MaxDrawdownPercent = dd / peak * 100
			} else {
				stats.MaxDrawdownPercent = 0
			}
		}

		// Streaks: zero-P&L trades break both runs.
		switch {
		case pnl > 0:
			winRun++
			lossRun = 0
		case pnl < 0:
			lossRun++
			winRun = 0
		default:
			winRun = 0
			lossRun = 0
		}
		if winRun > stats.BestStreak {
			stats.BestStreak = winRun
		}
		if lossRun > stats.WorstStreak {
			stats.WorstStreak = lossRun
		}

		switch t.Side {
		case models.SideLong:
			stats.LongTrades++
		case models.SideShort:
			stats.ShortTrades++
		}

		risk := math.Abs(pnl)
		riskSum += risk
		if risk > stats.MaxRisk {
			stats.MaxRisk = risk
		}
	}

	n := float64(len(trades))
	stats.WinRate = float64(wins) / n * 100

	switch {
	case grossLoss > 0:
		stats.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		stats.ProfitFactor = profitFactorNoLosses
	}

	stats.SharpeRatio = sharpe(trades, roiSum/n)
	stats.AvgRiskPerTrade = riskSum / n
	stats.RiskLevel = classifyRisk(stats.MaxDrawdownPercent)

	return stats
}

// sharpe is mean(roi) over the population standard deviation of roi
// (squared-deviation sum divided by n, not n-1). Zero variance yields 0
// rather than a non-finite value. The figure is intentionally not
// annualized and not adjusted against a benchmark return.
func sharpe(trades []models.Trade, mean float64) float64 {
	var sumSq float64
	for _, t := range trades {
		d := t.ROI - mean
		sumSq += d * d
	}
	stddev := math.Sqrt(sumSq / float64(len(trades)))
	if stddev == 0 {
		return 0
	}
	return mean / stddev
}

// classifyRisk maps the max drawdown percentage onto a coarse risk level.
func classifyRisk(maxDrawdownPercent float64) models.RiskLevel {
	switch {
	case maxDrawdownPercent > 20:
		return models.RiskHigh
	case maxDrawdownPercent > 10:
		return models.RiskModerate
	default:
		return models.RiskLow
	}
}
