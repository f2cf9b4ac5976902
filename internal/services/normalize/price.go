package normalize

import (
	"strings"

	"github.com/bobmcallan/polyfolio/internal/models"
)

// Outcome-specific fields already carry the held outcome's price. Market-level
// fields may carry the YES price and are inverted for NO holdings.
var (
	AvgPriceOutcomeKeys     = Keys{"avgPrice", "averagePrice", "costBasis"}
	AvgPriceMarketKeys      = Keys{"price", "avgPriceNum"}
	CurrentPriceOutcomeKeys = Keys{"curPrice", "currentPrice", "currentPriceNum"}
	CurrentPriceMarketKeys  = Keys{"price", "latestPrice", "marketPrice"}
)

// PriceSource describes where a resolved price came from
type PriceSource string

const (
	PriceSourceNone        PriceSource = ""
	PriceSourceOutcome     PriceSource = "outcome"
	PriceSourceMarket      PriceSource = "market"
	PriceSourceAvgFallback PriceSource = "avg_fallback"
)

// Prices is the output of ResolvePrices
type Prices struct {
	Avg           float64
	Current       float64
	AvgSource     PriceSource
	CurrentSource PriceSource
	AvgKey        string
	CurrentKey    string
}

// IsNoOutcome reports whether an outcome label denotes the NO side.
func IsNoOutcome(label string) bool {
	return strings.EqualFold(strings.TrimSpace(label), "no")
}

// ResolvePrices picks average and current price for a raw position held on
// the given outcome. Market-level values are flipped to 1-p for NO holdings;
// a current price that falls back to the average is never flipped again.
func ResolvePrices(rec models.Record, outcomeLabel string) Prices {
	isNo := IsNoOutcome(outcomeLabel)
	var p Prices

	p.Avg, p.AvgKey, p.AvgSource = resolveTiered(rec, AvgPriceOutcomeKeys, AvgPriceMarketKeys, isNo)

	p.Current, p.CurrentKey, p.CurrentSource = resolveTiered(rec, CurrentPriceOutcomeKeys, CurrentPriceMarketKeys, isNo)
	if p.CurrentSource == PriceSourceNone && p.Avg > 0 {
		p.Current = p.Avg
		p.CurrentSource = PriceSourceAvgFallback
	}
	return p
}

// resolveTiered tries outcome-specific keys then market-level keys. A winning
// value that is not numeric resolves to 0 and is not inverted.
func resolveTiered(rec models.Record, outcome, market Keys, isNo bool) (float64, string, PriceSource) {
	if key, v, ok := Source(rec, outcome); ok {
		f, _ := toFloat(v)
		return f, key, PriceSourceOutcome
	}
	if key, v, ok := Source(rec, market); ok {
		f, parsed := toFloat(v)
		if parsed && isNo {
			f = 1 - f
		}
		return f, key, PriceSourceMarket
	}
	return 0, "", PriceSourceNone
}
