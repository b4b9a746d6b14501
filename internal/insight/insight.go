// Package insight turns backtest statistics into short natural-language
// observations. Evaluation is pure and deterministic: the same result
// always yields the same messages in the same order.
package insight

import "github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"

// Messages appended by the individual rules, in evaluation order
const (
	MsgWinRateExcellent = "Excellent win rate! Your strategy shows strong consistency across trades."
	MsgWinRateGood      = "Good win rate. The strategy wins more often than it loses."
	MsgWinRateLow       = "Low win rate. The entry and exit thresholds may need optimization."

	MsgStrongOutperformance = "Strong outperformance. The strategy beat typical market returns over this period."
	MsgUnderperformance     = "The strategy underperformed over this period. Consider different parameters or instruments."

	MsgLowDrawdown  = "Low drawdown indicates good risk management."
	MsgHighDrawdown = "High drawdown signals significant risk exposure. Position sizing may be too aggressive."

	MsgFewTrades  = "Few trades were executed. The settings may be too conservative, limiting opportunities."
	MsgManyTrades = "High trade frequency. Monitor transaction costs, as they can erode returns."

	MsgEfficientRiskReward = "Return outpaced drawdown by more than 2:1, showing efficient capital utilization."

	// MsgFallback is emitted alone when no rule fires
	MsgFallback = "Backtest complete. Review the performance metrics above to refine your strategy."
)

// Rule thresholds. Each bucket has a deliberately silent middle band
// where the metric is unremarkable and no message is produced.
const (
	winRateExcellent = 70.0
	winRateGood      = 50.0
	winRateLow       = 40.0

	returnStrong = 20.0

	drawdownLow  = 10.0
	drawdownHigh = 25.0

	tradesFew  = 5
	tradesMany = 50

	riskRewardEfficient = 2.0
)

// Summarize evaluates every rule against the result and returns the
// firing messages in fixed rule order. The returned list is never
// empty; the fallback message stands in when nothing fired.
func Summarize(result model.BacktestResult) []string {
	var insights []string

	switch {
	case result.WinRate >= winRateExcellent:
		insights = append(insights, MsgWinRateExcellent)
	case result.WinRate >= winRateGood:
		insights = append(insights, MsgWinRateGood)
	case result.WinRate < winRateLow:
		insights = append(insights, MsgWinRateLow)
	}

	switch {
	case result.TotalReturnPct > returnStrong:
		insights = append(insights, MsgStrongOutperformance)
	case result.TotalReturnPct <= 0:
		insights = append(insights, MsgUnderperformance)
	}

	switch {
	case result.MaxDrawdown < drawdownLow:
		insights = append(insights, MsgLowDrawdown)
	case result.MaxDrawdown > drawdownHigh:
		insights = append(insights, MsgHighDrawdown)
	}

	switch {
	case result.TotalTrades < tradesFew:
		insights = append(insights, MsgFewTrades)
	case result.TotalTrades > tradesMany:
		insights = append(insights, MsgManyTrades)
	}

	if result.TotalReturnPct > 0 && result.MaxDrawdown > 0 {
		if result.TotalReturnPct/result.MaxDrawdown > riskRewardEfficient {
			insights = append(insights, MsgEfficientRiskReward)
		}
	}

	if len(insights) == 0 {
		return []string{MsgFallback}
	}
	return insights
}
