package handlers

// Error messages returned to clients. Upstream failures are never described
// in more detail than this.
const (
	msgQueryRequired  = "Query parameter is required"
	msgSymbolRequired = "Symbol parameter is required"

	msgSearchFailed        = "Failed to fetch stock search"
	msgTopPerformersFailed = "Failed to fetch top performers"
	msgQuoteFailed         = "Failed to fetch stock quote"
	msgCompanyInfoFailed   = "Failed to fetch company info"
	msgHistoricalFailed    = "Failed to fetch historical data"
)

const rootMessage = "Stock Market Dashboard Backend is running"

type StatusResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// TopPerformer is one row of /api/top-performers.
type TopPerformer struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	ChangePercent float64 `json:"changePercent"`
}

// CompanyInfo is the body of /api/company-info.
type CompanyInfo struct {
	Symbol        string  `json:"symbol"`
	Sector        string  `json:"sector"`
	MarketCap     string  `json:"marketCap"`
	PERatio       float64 `json:"peRatio"`
	DividendYield float64 `json:"dividendYield"`
}
