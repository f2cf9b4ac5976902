package normalize

import (
	"fmt"
	"time"

	"github.com/bobmcallan/polyfolio/internal/models"
)

const (
	// minShares is the size at or below which a holding is treated as dust
	minShares = 0.0001

	defaultOutcome = "Yes"
	unknownMarket  = "Unknown Market"
	dateLayout     = "2006-01-02"
)

// NormalizePositions normalizes every record and drops dust holdings.
// The result is never nil.
func NormalizePositions(recs []models.Record, lookup models.MarketLookup, now time.Time) []models.Position {
	out := make([]models.Position, 0, len(recs))
	for _, rec := range recs {
		if pos, ok := NormalizePosition(rec, lookup, now); ok {
			out = append(out, pos)
		}
	}
	return out
}

// NormalizePosition builds a canonical position from a raw record. The bool
// is false when the holding is at or below the dust threshold.
func NormalizePosition(rec models.Record, lookup models.MarketLookup, now time.Time) (models.Position, bool) {
	marketID := Text(rec, MarketIDKeys, "")
	descriptor := resolveDescriptor(rec, lookup, marketID)

	title := Text(rec, PositionTitleKeys, "")
	if title == "" {
		title = Text(descriptor, DescriptorTitleKeys, "")
	}
	if title == "" {
		title = Text(rec, EmbeddedTitleKeys, "")
	}
	if title == "" {
		title = placeholderTitle(marketID)
	}

	shares := Float(rec, PositionSharesKeys, 0)
	outcome := Text(rec, OutcomeKeys, defaultOutcome)
	prices := ResolvePrices(rec, outcome)

	value := shares * prices.Current
	if _, _, ok := Source(rec, CurrentValueKeys); ok {
		value = Float(rec, CurrentValueKeys, 0)
	}

	pnl := (prices.Current - prices.Avg) * shares
	if _, _, ok := Source(rec, CashPnLKeys); ok {
		pnl = Float(rec, CashPnLKeys, 0)
	}

	pos := models.Position{
		Market:       title,
		OutcomeLabel: outcome,
		Shares:       Round2(shares),
		AvgPrice:     prices.Avg,
		CurrentPrice: prices.Current,
		Value:        Round2(value),
		PnL:          Round2(pnl),
		Sector:       ClassifySector(title),
		ExpiresOn:    resolveExpiry(rec, descriptor, now),
		MarketID:     marketID,
	}
	if pos.Shares <= minShares {
		return models.Position{}, false
	}
	return pos, true
}

// resolveDescriptor finds market details for a position: the lookup first,
// then an object embedded under "market", then "condition.market".
func resolveDescriptor(rec models.Record, lookup models.MarketLookup, marketID string) models.Record {
	if d := lookup.Get(marketID); d != nil {
		return d
	}
	if d := lookup.Get(Text(rec, Keys{"condition.id", "marketId"}, "")); d != nil {
		return d
	}
	for _, path := range []string{"market", "condition.market"} {
		if v, ok := lookupPath(rec, path); ok {
			if m, ok := v.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

func placeholderTitle(marketID string) string {
	if len(marketID) > 10 {
		return fmt.Sprintf("Market %s...", marketID[:8])
	}
	return unknownMarket
}

func resolveExpiry(rec, descriptor models.Record, now time.Time) string {
	raw := Text(rec, PositionEndKeys, "")
	if raw == "" {
		raw = Text(descriptor, DescriptorEndKeys, "")
	}
	if raw == "" {
		raw = Text(rec, ExpiresAtKeys, "")
	}
	if raw == "" {
		return now.Add(365 * 24 * time.Hour).Format(dateLayout)
	}
	if d, ok := parseDate(raw); ok {
		return d.Format(dateLayout)
	}
	return raw
}

// parseDate reads the calendar date at the start of an ISO date or datetime.
func parseDate(s string) (time.Time, bool) {
	if len(s) < len(dateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
