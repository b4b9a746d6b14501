// internal/validator/strategy_validator.go
package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"
)

// Raw field keys read by the strategy parameter builder. Only the keys
// belonging to the selected strategy kind are read; anything else in
// the raw map is ignored.
const (
	FieldPeriod        = "period"
	FieldBuyThreshold  = "buy_threshold"
	FieldSellThreshold = "sell_threshold"
	FieldFastPeriod    = "fast_period"
	FieldSlowPeriod    = "slow_period"
	FieldSignalPeriod  = "signal_period"
	FieldMultiplier    = "multiplier"
	FieldAveragePeriod = "average_period"
	FieldHoldDays      = "hold_days"
)

// Parameter bounds per strategy kind, all inclusive
const (
	rsiPeriodMin, rsiPeriodMax             = 5, 50
	rsiThresholdMin, rsiThresholdMax       = 0, 100
	macdFastMin, macdFastMax               = 5, 50
	macdSlowMin, macdSlowMax               = 10, 100
	macdSignalMin, macdSignalMax           = 5, 30
	spikeMultiplierMin, spikeMultiplierMax = 1.0, 10.0
	spikeAvgPeriodMin, spikeAvgPeriodMax   = 5, 100
	spikeHoldDaysMin, spikeHoldDaysMax     = 1, 30
)

// FieldErrorCode identifies why a strategy parameter field is invalid
type FieldErrorCode string

const (
	CodeRequired      FieldErrorCode = "REQUIRED"
	CodeNotANumber    FieldErrorCode = "NOT_A_NUMBER"
	CodeBelowMin      FieldErrorCode = "BELOW_MIN"
	CodeAboveMax      FieldErrorCode = "ABOVE_MAX"
	CodeRuleViolation FieldErrorCode = "RULE_VIOLATION"
)

// FieldError describes one invalid strategy parameter field. Limit
// carries the violated bound for BELOW_MIN and ABOVE_MAX; Detail
// carries the message for RULE_VIOLATION.
type FieldError struct {
	Field  string
	Code   FieldErrorCode
	Limit  float64
	Detail string
}

func (e FieldError) Error() string {
	switch e.Code {
	case CodeRequired:
		return fmt.Sprintf("%s is required", e.Field)
	case CodeNotANumber:
		return fmt.Sprintf("%s must be a number", e.Field)
	case CodeBelowMin:
		return fmt.Sprintf("%s must be at least %s", e.Field, formatLimit(e.Limit))
	case CodeAboveMax:
		return fmt.Sprintf("%s must be at most %s", e.Field, formatLimit(e.Limit))
	case CodeRuleViolation:
		return e.Detail
	}
	return fmt.Sprintf("%s is invalid", e.Field)
}

// FieldErrors collects every invalid field found in one build call so
// the user can fix them all at once
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

func formatLimit(limit float64) string {
	return strconv.FormatFloat(limit, 'f', -1, 64)
}

// BuildStrategyParameters parses and validates the raw field values of
// the selected strategy kind into its canonical parameter record.
// Fields belonging to other strategy kinds are neither validated nor
// carried over.
func BuildStrategyParameters(kind model.StrategyKind, raw map[string]string) (model.StrategyParameters, error) {
	switch kind {
	case model.StrategyRSI:
		return buildRSI(raw)
	case model.StrategyMACD:
		return buildMACD(raw)
	case model.StrategyVolumeSpike:
		return buildVolumeSpike(raw)
	default:
		return nil, fmt.Errorf("unknown strategy kind: %s", kind)
	}
}

func buildRSI(raw map[string]string) (model.StrategyParameters, error) {
	p := newFieldParser(raw)
	period := p.intField(FieldPeriod, rsiPeriodMin, rsiPeriodMax)
	buy := p.intField(FieldBuyThreshold, rsiThresholdMin, rsiThresholdMax)
	sell := p.intField(FieldSellThreshold, rsiThresholdMin, rsiThresholdMax)

	// Cross-field rule, checked only when both operands validated
	if p.valid(FieldBuyThreshold) && p.valid(FieldSellThreshold) && sell <= buy {
		p.violation(FieldSellThreshold, "sell threshold must be greater than buy threshold")
	}

	if err := p.result(); err != nil {
		return nil, err
	}
	return model.RSIParameters{Period: period, BuyThreshold: buy, SellThreshold: sell}, nil
}

func buildMACD(raw map[string]string) (model.StrategyParameters, error) {
	p := newFieldParser(raw)
	fast := p.intField(FieldFastPeriod, macdFastMin, macdFastMax)
	slow := p.intField(FieldSlowPeriod, macdSlowMin, macdSlowMax)
	signal := p.intField(FieldSignalPeriod, macdSignalMin, macdSignalMax)

	if p.valid(FieldFastPeriod) && p.valid(FieldSlowPeriod) && slow <= fast {
		p.violation(FieldSlowPeriod, "slow period must be greater than fast period")
	}

	if err := p.result(); err != nil {
		return nil, err
	}
	return model.MACDParameters{FastPeriod: fast, SlowPeriod: slow, SignalPeriod: signal}, nil
}

func buildVolumeSpike(raw map[string]string) (model.StrategyParameters, error) {
	p := newFieldParser(raw)
	multiplier := p.floatField(FieldMultiplier, spikeMultiplierMin, spikeMultiplierMax)
	avgPeriod := p.intField(FieldAveragePeriod, spikeAvgPeriodMin, spikeAvgPeriodMax)
	holdDays := p.intField(FieldHoldDays, spikeHoldDaysMin, spikeHoldDaysMax)

	if err := p.result(); err != nil {
		return nil, err
	}
	return model.VolumeSpikeParameters{Multiplier: multiplier, AveragePeriod: avgPeriod, HoldDays: holdDays}, nil
}

// fieldParser accumulates field errors across one build call instead
// of stopping at the first one
type fieldParser struct {
	raw    map[string]string
	errs   FieldErrors
	failed map[string]bool
}

func newFieldParser(raw map[string]string) *fieldParser {
	return &fieldParser{raw: raw, failed: make(map[string]bool)}
}

func (p *fieldParser) fail(fe FieldError) {
	p.errs = append(p.errs, fe)
	p.failed[fe.Field] = true
}

// intField parses a whole-number field; decimal input is rejected
func (p *fieldParser) intField(name string, min, max int) int {
	rawValue := strings.TrimSpace(p.raw[name])
	if rawValue == "" {
		p.fail(FieldError{Field: name, Code: CodeRequired})
		return 0
	}
	v, err := strconv.Atoi(rawValue)
	if err != nil {
		p.fail(FieldError{Field: name, Code: CodeNotANumber})
		return 0
	}
	if v < min {
		p.fail(FieldError{Field: name, Code: CodeBelowMin, Limit: float64(min)})
		return 0
	}
	if v > max {
		p.fail(FieldError{Field: name, Code: CodeAboveMax, Limit: float64(max)})
		return 0
	}
	return v
}

func (p *fieldParser) floatField(name string, min, max float64) float64 {
	rawValue := strings.TrimSpace(p.raw[name])
	if rawValue == "" {
		p.fail(FieldError{Field: name, Code: CodeRequired})
		return 0
	}
	v, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		p.fail(FieldError{Field: name, Code: CodeNotANumber})
		return 0
	}
	if v < min {
		p.fail(FieldError{Field: name, Code: CodeBelowMin, Limit: min})
		return 0
	}
	if v > max {
		p.fail(FieldError{Field: name, Code: CodeAboveMax, Limit: max})
		return 0
	}
	return v
}

func (p *fieldParser) valid(name string) bool {
	return !p.failed[name]
}

func (p *fieldParser) violation(name, detail string) {
	p.fail(FieldError{Field: name, Code: CodeRuleViolation, Detail: detail})
}

func (p *fieldParser) result() error {
	if len(p.errs) > 0 {
		return p.errs
	}
	return nil
}
