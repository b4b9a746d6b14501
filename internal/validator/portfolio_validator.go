// internal/validator/portfolio_validator.go
package validator

import (
	"fmt"
	"math"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"
)

// PortfolioErrorCode identifies which portfolio rule was violated
type PortfolioErrorCode string

const (
	CodeEmptyPortfolio     PortfolioErrorCode = "EMPTY_PORTFOLIO"
	CodeTooManyEntries     PortfolioErrorCode = "TOO_MANY_ENTRIES"
	CodeInvalidTicker      PortfolioErrorCode = "INVALID_TICKER"
	CodeInvalidAllocation  PortfolioErrorCode = "INVALID_ALLOCATION"
	CodeAllocationMismatch PortfolioErrorCode = "ALLOCATION_MISMATCH"
)

// PortfolioValidationError reports the first portfolio rule that
// failed. Ticker is set for per-entry failures and Sum carries the
// actual total for allocation mismatches so callers can render it.
type PortfolioValidationError struct {
	Code   PortfolioErrorCode
	Ticker string
	Sum    float64
}

func (e *PortfolioValidationError) Error() string {
	switch e.Code {
	case CodeEmptyPortfolio:
		return "portfolio is empty: add at least one stock"
	case CodeTooManyEntries:
		return fmt.Sprintf("portfolio cannot hold more than %d stocks", model.MaxPortfolioEntries)
	case CodeInvalidTicker:
		if e.Ticker == "" {
			return "ticker cannot be blank"
		}
		return fmt.Sprintf("ticker %q is too long (maximum %d characters)", e.Ticker, model.MaxTickerLength)
	case CodeInvalidAllocation:
		return fmt.Sprintf("allocation for %s must be greater than 0 and at most 100", e.Ticker)
	case CodeAllocationMismatch:
		return fmt.Sprintf("stock allocations must sum to 100%%, got %.2f%%", e.Sum)
	}
	return "invalid portfolio"
}

// NewPortfolioEntry normalizes and checks one entry at add time so a
// bad ticker or allocation is caught as soon as the user enters it
func NewPortfolioEntry(ticker string, allocation float64) (model.PortfolioEntry, error) {
	normalized := model.NormalizeTicker(ticker)
	if normalized == "" || len(normalized) > model.MaxTickerLength {
		return model.PortfolioEntry{}, &PortfolioValidationError{Code: CodeInvalidTicker, Ticker: normalized}
	}
	if allocation <= 0 || allocation > 100 {
		return model.PortfolioEntry{}, &PortfolioValidationError{Code: CodeInvalidAllocation, Ticker: normalized}
	}
	return model.PortfolioEntry{Ticker: normalized, Allocation: allocation}, nil
}

// ValidatePortfolio checks a whole portfolio before any request is
// built. Rules run in a fixed order and the first failure is reported:
// the portfolio is non-empty and within the entry limit, every ticker
// is usable, every allocation is in range, and the allocations sum to
// 100 within tolerance. Entries come back normalized; nothing is
// auto-scaled on the user's behalf.
func ValidatePortfolio(entries []model.PortfolioEntry) (model.Portfolio, error) {
	if len(entries) == 0 {
		return nil, &PortfolioValidationError{Code: CodeEmptyPortfolio}
	}
	if len(entries) > model.MaxPortfolioEntries {
		return nil, &PortfolioValidationError{Code: CodeTooManyEntries}
	}

	portfolio := make(model.Portfolio, 0, len(entries))
	for _, e := range entries {
		ticker := model.NormalizeTicker(e.Ticker)
		if ticker == "" || len(ticker) > model.MaxTickerLength {
			return nil, &PortfolioValidationError{Code: CodeInvalidTicker, Ticker: ticker}
		}
		portfolio = append(portfolio, model.PortfolioEntry{Ticker: ticker, Allocation: e.Allocation})
	}

	for _, e := range portfolio {
		if e.Allocation <= 0 || e.Allocation > 100 {
			return nil, &PortfolioValidationError{Code: CodeInvalidAllocation, Ticker: e.Ticker}
		}
	}

	if sum := portfolio.AllocationSum(); math.Abs(sum-100) > model.AllocationTolerance {
		return nil, &PortfolioValidationError{Code: CodeAllocationMismatch, Sum: sum}
	}

	return portfolio, nil
}
