package model

// StockInfo represents the full detail record for one symbol: price,
// fundamentals, technical indicators, sentiment and analyst ratings
type StockInfo struct {
	Symbol          string  `json:"symbol"`
	CompanyName     string  `json:"company_name"`
	Sector          string  `json:"sector"`
	CurrentPrice    float64 `json:"current_price"`
	Change          float64 `json:"change"`
	ChangePercent   float64 `json:"change_percent"`
	Volume          int64   `json:"volume"`
	MarketCap       float64 `json:"market_cap"`
	PERatio         float64 `json:"pe_ratio"`
	SupportLevel    float64 `json:"support_level"`
	ResistanceLevel float64 `json:"resistance_level"`

	RSI         float64 `json:"rsi"`
	MACD        float64 `json:"macd"`
	StochasticK float64 `json:"stochastic_k"`
	StochasticD float64 `json:"stochastic_d"`
	Fib236      float64 `json:"fib_236"`
	Fib382      float64 `json:"fib_382"`
	Fib500      float64 `json:"fib_500"`
	Fib618      float64 `json:"fib_618"`

	OverallSentiment   string   `json:"overall_sentiment"`
	SentimentScore     float64  `json:"sentiment_score"`
	ShortTermSentiment string   `json:"short_term_sentiment"`
	ShortTermScore     float64  `json:"short_term_score"`
	LongTermSentiment  string   `json:"long_term_sentiment"`
	LongTermScore      float64  `json:"long_term_score"`
	SentimentFactors   []string `json:"sentiment_factors"`

	AnalystBuy  int     `json:"analyst_buy"`
	AnalystHold int     `json:"analyst_hold"`
	AnalystSell int     `json:"analyst_sell"`
	TargetPrice float64 `json:"target_price"`
}
