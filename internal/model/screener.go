package model

// ScreenFilter represents a stock-universe screening request. Only
// enabled criteria are serialized; a nil field means the filter is off
// and must be omitted from the body entirely.
type ScreenFilter struct {
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	MinVolume    *int64   `json:"min_volume,omitempty"`
	MinMarketCap *float64 `json:"min_market_cap,omitempty"`
	MaxPERatio   *float64 `json:"max_pe_ratio,omitempty"`
	MinRSI       *float64 `json:"min_rsi,omitempty"`
	MaxRSI       *float64 `json:"max_rsi,omitempty"`
	Sector       *string  `json:"sector,omitempty"`
}

// ScreenedStock represents one row of a screening result
type ScreenedStock struct {
	Symbol        string  `json:"symbol"`
	CompanyName   string  `json:"company_name"`
	Sector        string  `json:"sector"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"market_cap"`
	PERatio       float64 `json:"pe_ratio"`
	RSI           float64 `json:"rsi"`
}
