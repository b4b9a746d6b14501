package insight

import (
	"testing"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSummarize_StrongResult(t *testing.T) {
	result := model.BacktestResult{
		WinRate:        75,
		TotalReturnPct: 25,
		MaxDrawdown:    5,
		TotalTrades:    30,
	}

	insights := Summarize(result)

	assert.Equal(t, []string{
		MsgWinRateExcellent,
		MsgStrongOutperformance,
		MsgLowDrawdown,
		MsgEfficientRiskReward,
	}, insights)
}

func TestSummarize_UnremarkableResult(t *testing.T) {
	// Every metric sits in its silent band, so only the fallback fires
	result := model.BacktestResult{
		WinRate:        45,
		TotalReturnPct: 5,
		MaxDrawdown:    15,
		TotalTrades:    20,
	}

	insights := Summarize(result)

	assert.Equal(t, []string{MsgFallback}, insights)
}

func TestSummarize_PoorResult(t *testing.T) {
	result := model.BacktestResult{
		WinRate:        30,
		TotalReturnPct: -10,
		MaxDrawdown:    30,
		TotalTrades:    2,
	}

	insights := Summarize(result)

	assert.Equal(t, []string{
		MsgWinRateLow,
		MsgUnderperformance,
		MsgHighDrawdown,
		MsgFewTrades,
	}, insights)
}

func TestSummarize_WinRateBuckets(t *testing.T) {
	tests := []struct {
		name    string
		winRate float64
		want    string
	}{
		{"excellent at 75", 75, MsgWinRateExcellent},
		{"excellent at boundary 70", 70, MsgWinRateExcellent},
		{"good at 55", 55, MsgWinRateGood},
		{"good at boundary 50", 50, MsgWinRateGood},
		{"silent at 45", 45, ""},
		{"silent at boundary 40", 40, ""},
		{"low at 35", 35, MsgWinRateLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := model.BacktestResult{
				WinRate:        tt.winRate,
				TotalReturnPct: 5,
				MaxDrawdown:    15,
				TotalTrades:    20,
			}

			insights := Summarize(result)
			if tt.want == "" {
				assert.Equal(t, []string{MsgFallback}, insights)
			} else {
				assert.Equal(t, []string{tt.want}, insights)
			}
		})
	}
}

func TestSummarize_ReturnBuckets(t *testing.T) {
	tests := []struct {
		name      string
		returnPct float64
		want      string
	}{
		{"strong above 20", 25, MsgStrongOutperformance},
		{"silent at boundary 20", 20, ""},
		{"silent in positive band", 10, ""},
		{"underperformance at zero", 0, MsgUnderperformance},
		{"underperformance when negative", -5, MsgUnderperformance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := model.BacktestResult{
				WinRate:        45,
				TotalReturnPct: tt.returnPct,
				MaxDrawdown:    15,
				TotalTrades:    20,
			}

			insights := Summarize(result)
			if tt.want == "" {
				assert.Equal(t, []string{MsgFallback}, insights)
			} else {
				assert.Equal(t, []string{tt.want}, insights)
			}
		})
	}
}

func TestSummarize_DrawdownBuckets(t *testing.T) {
	tests := []struct {
		name     string
		drawdown float64
		want     string
	}{
		{"low below 10", 9, MsgLowDrawdown},
		{"silent at boundary 10", 10, ""},
		{"silent at boundary 25", 25, ""},
		{"high above 25", 30, MsgHighDrawdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := model.BacktestResult{
				WinRate:        45,
				TotalReturnPct: 5,
				MaxDrawdown:    tt.drawdown,
				TotalTrades:    20,
			}

			insights := Summarize(result)
			if tt.want == "" {
				assert.Equal(t, []string{MsgFallback}, insights)
			} else {
				assert.Equal(t, []string{tt.want}, insights)
			}
		})
	}
}

func TestSummarize_TradeCountBuckets(t *testing.T) {
	tests := []struct {
		name   string
		trades int
		want   string
	}{
		{"few below 5", 4, MsgFewTrades},
		{"silent at boundary 5", 5, ""},
		{"silent at boundary 50", 50, ""},
		{"many above 50", 51, MsgManyTrades},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := model.BacktestResult{
				WinRate:        45,
				TotalReturnPct: 5,
				MaxDrawdown:    15,
				TotalTrades:    tt.trades,
			}

			insights := Summarize(result)
			if tt.want == "" {
				assert.Equal(t, []string{MsgFallback}, insights)
			} else {
				assert.Equal(t, []string{tt.want}, insights)
			}
		})
	}
}

func TestSummarize_RiskRewardFiresWithLowDrawdown(t *testing.T) {
	result := model.BacktestResult{
		WinRate:        45,
		TotalReturnPct: 15,
		MaxDrawdown:    5,
		TotalTrades:    20,
	}

	insights := Summarize(result)

	assert.Equal(t, []string{MsgLowDrawdown, MsgEfficientRiskReward}, insights)
}

func TestSummarize_RiskRewardSilentAtExactRatio(t *testing.T) {
	// 20/10 is exactly 2:1, which does not clear the bar
	result := model.BacktestResult{
		WinRate:        45,
		TotalReturnPct: 20,
		MaxDrawdown:    10,
		TotalTrades:    20,
	}

	insights := Summarize(result)

	assert.Equal(t, []string{MsgFallback}, insights)
}

func TestSummarize_RiskRewardGuardsZeroDrawdown(t *testing.T) {
	result := model.BacktestResult{
		WinRate:        45,
		TotalReturnPct: 10,
		MaxDrawdown:    0,
		TotalTrades:    20,
	}

	insights := Summarize(result)

	assert.Equal(t, []string{MsgLowDrawdown}, insights)
}

func TestSummarize_Deterministic(t *testing.T) {
	result := model.BacktestResult{
		WinRate:        62,
		TotalReturnPct: 31,
		MaxDrawdown:    8,
		TotalTrades:    44,
	}

	first := Summarize(result)
	second := Summarize(result)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}
