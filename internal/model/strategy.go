package model

// StrategyKind identifies one of the supported trading strategies
type StrategyKind string

const (
	StrategyRSI         StrategyKind = "RSI"
	StrategyMACD        StrategyKind = "MACD"
	StrategyVolumeSpike StrategyKind = "VOLUME_SPIKE"
)

// StrategyParameters is the validated parameter set of one strategy
// kind. Each variant carries only its own fields and knows how to
// flatten them into the top level of a backtest request body.
type StrategyParameters interface {
	Kind() StrategyKind
	WireFields() map[string]interface{}
}

// RSIParameters holds oscillator settings for the RSI strategy. The
// sell threshold always sits above the buy threshold.
type RSIParameters struct {
	Period        int
	BuyThreshold  int
	SellThreshold int
}

// Kind implements StrategyParameters
func (p RSIParameters) Kind() StrategyKind { return StrategyRSI }

// WireFields implements StrategyParameters
func (p RSIParameters) WireFields() map[string]interface{} {
	return map[string]interface{}{
		"strategy":   string(StrategyRSI),
		"rsi_period": p.Period,
		"rsi_buy":    p.BuyThreshold,
		"rsi_sell":   p.SellThreshold,
	}
}

// MACDParameters holds the moving-average periods for the MACD
// strategy. The slow period always sits above the fast period.
type MACDParameters struct {
	FastPeriod   int
	SlowPeriod   int
	SignalPeriod int
}

// Kind implements StrategyParameters
func (p MACDParameters) Kind() StrategyKind { return StrategyMACD }

// WireFields implements StrategyParameters
func (p MACDParameters) WireFields() map[string]interface{} {
	return map[string]interface{}{
		"strategy":           string(StrategyMACD),
		"macd_fast_period":   p.FastPeriod,
		"macd_slow_period":   p.SlowPeriod,
		"macd_signal_period": p.SignalPeriod,
	}
}

// VolumeSpikeParameters holds settings for the volume-spike strategy:
// enter when volume exceeds multiplier times its recent average, exit
// after the holding period elapses
type VolumeSpikeParameters struct {
	Multiplier    float64
	AveragePeriod int
	HoldDays      int
}

// Kind implements StrategyParameters
func (p VolumeSpikeParameters) Kind() StrategyKind { return StrategyVolumeSpike }

// WireFields implements StrategyParameters
func (p VolumeSpikeParameters) WireFields() map[string]interface{} {
	return map[string]interface{}{
		"strategy":          string(StrategyVolumeSpike),
		"volume_multiplier": p.Multiplier,
		"volume_avg_period": p.AveragePeriod,
		"hold_days":         p.HoldDays,
	}
}
