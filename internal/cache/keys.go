package cache

import "strings"

// Route tags. Each cache key starts with one of them.
const (
	RouteSearch        = "search"
	RouteTopPerformers = "top_performers"
	RouteQuote         = "quote"
	RouteCompanyInfo   = "company_info"
	RouteHistorical    = "historical_data"
)

// DefaultInterval is used for historical data when the caller sends none.
const DefaultInterval = "1day"

// Keys are built from raw query values. They must stay stable: entries
// written to a shared Redis by one gateway version are read by the next.

func SearchKey(query string) string {
	return RouteSearch + "_" + query
}

func TopPerformersKey() string {
	return RouteTopPerformers
}

func QuoteKey(symbol string) string {
	return RouteQuote + "_" + symbol
}

func CompanyInfoKey(symbol string) string {
	return RouteCompanyInfo + "_" + symbol
}

// HistoricalDataKey builds historical_data_<symbol>_<interval>.
// An empty interval is replaced by DefaultInterval.
func HistoricalDataKey(symbol, interval string) string {
	if interval == "" {
		interval = DefaultInterval
	}
	return RouteHistorical + "_" + symbol + "_" + interval
}

// routeTags is ordered so that longer tags sharing a prefix are tried first.
var routeTags = []string{
	RouteTopPerformers,
	RouteCompanyInfo,
	RouteHistorical,
	RouteSearch,
	RouteQuote,
}

// RouteOf returns the route tag a key was built for, or "unknown".
// Used as a low-cardinality metrics label.
func RouteOf(key string) string {
	for _, tag := range routeTags {
		if key == tag || strings.HasPrefix(key, tag+"_") {
			return tag
		}
	}
	return "unknown"
}
