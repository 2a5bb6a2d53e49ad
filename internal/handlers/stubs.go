package handlers

import "stockdash-gateway/internal/twelvedata"

// Placeholder data. The free Twelve Data tier has neither a gainers feed
// nor company fundamentals, so these two routes return stand-in values.

const topPerformersLimit = 10

// stubTopPerformers takes the first listed symbols as "top performers".
// ChangePercent is always 0.
func stubTopPerformers(stocks []twelvedata.Stock) []TopPerformer {
	n := min(len(stocks), topPerformersLimit)

	out := make([]TopPerformer, 0, n)
	for _, s := range stocks[:n] {
		out = append(out, TopPerformer{
			Symbol:        s.Symbol,
			Name:          s.Name,
			ChangePercent: 0,
		})
	}
	return out
}

// stubCompanyInfo returns the same mock fundamentals for every symbol.
func stubCompanyInfo(symbol string) CompanyInfo {
	return CompanyInfo{
		Symbol:        symbol,
		Sector:        "Technology",
		MarketCap:     "1.5T",
		PERatio:       30.5,
		DividendYield: 1.2,
	}
}
