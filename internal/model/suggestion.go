package model

import "encoding/json"

// MatchKind tells how a suggestion candidate matched the query text
type MatchKind string

const (
	MatchKindSymbol  MatchKind = "symbol"
	MatchKindCompany MatchKind = "company"
)

// UnmarshalJSON maps unknown match types to symbol, mirroring the
// service's own default
func (m *MatchKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch MatchKind(s) {
	case MatchKindCompany:
		*m = MatchKindCompany
	default:
		*m = MatchKindSymbol
	}
	return nil
}

// SuggestionCandidate represents one typeahead search result
type SuggestionCandidate struct {
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name"`
	MatchKind   MatchKind `json:"match_type"`
}

// DisplayText returns the canonical "SYMBOL - Company Name" form used
// when a candidate is selected
func (c SuggestionCandidate) DisplayText() string {
	if c.CompanyName == "" {
		return c.Symbol
	}
	return c.Symbol + " - " + c.CompanyName
}
