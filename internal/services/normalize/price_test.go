package normalize

import (
	"testing"

	"github.com/bobmcallan/polyfolio/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestResolvePrices_NoWithMarketLevelIsInverted(t *testing.T) {
	rec := models.Record{"price": 0.3}

	p := ResolvePrices(rec, "No")

	assert.InDelta(t, 0.7, p.Avg, 1e-9)
	assert.InDelta(t, 0.7, p.Current, 1e-9)
	assert.Equal(t, PriceSourceMarket, p.AvgSource)
	assert.Equal(t, PriceSourceMarket, p.CurrentSource)
}

func TestResolvePrices_YesWithMarketLevelUnchanged(t *testing.T) {
	p := ResolvePrices(models.Record{"price": 0.3}, "Yes")

	assert.InDelta(t, 0.3, p.Avg, 1e-9)
	assert.InDelta(t, 0.3, p.Current, 1e-9)
}

func TestResolvePrices_OutcomeSpecificNeverInverted(t *testing.T) {
	rec := models.Record{"avgPrice": "0.25", "curPrice": 0.4, "price": 0.9}

	p := ResolvePrices(rec, "no")

	assert.InDelta(t, 0.25, p.Avg, 1e-9)
	assert.InDelta(t, 0.4, p.Current, 1e-9)
	assert.Equal(t, "avgPrice", p.AvgKey)
	assert.Equal(t, "curPrice", p.CurrentKey)
}

func TestResolvePrices_MixedSources(t *testing.T) {
	// outcome-specific average, market-level current on a NO holding
	rec := models.Record{"averagePrice": 0.2, "latestPrice": 0.35}

	p := ResolvePrices(rec, "NO")

	assert.InDelta(t, 0.2, p.Avg, 1e-9)
	assert.InDelta(t, 0.65, p.Current, 1e-9)
}

func TestResolvePrices_CurrentFallsBackToInvertedAvgOnce(t *testing.T) {
	rec := models.Record{"avgPriceNum": 0.3}

	p := ResolvePrices(rec, "No")

	assert.InDelta(t, 0.7, p.Avg, 1e-9)
	assert.InDelta(t, 0.7, p.Current, 1e-9, "fallback must not invert a second time")
	assert.Equal(t, PriceSourceAvgFallback, p.CurrentSource)
}

func TestResolvePrices_NothingResolves(t *testing.T) {
	p := ResolvePrices(models.Record{}, "Yes")

	assert.Equal(t, 0.0, p.Avg)
	assert.Equal(t, 0.0, p.Current)
	assert.Equal(t, PriceSourceNone, p.CurrentSource)
}

func TestResolvePrices_NonNumericMarketValueNotInverted(t *testing.T) {
	p := ResolvePrices(models.Record{"price": "n/a"}, "No")

	assert.Equal(t, 0.0, p.Avg)
	assert.Equal(t, 0.0, p.Current)
}

func TestIsNoOutcome(t *testing.T) {
	assert.True(t, IsNoOutcome(" No "))
	assert.False(t, IsNoOutcome("Yes"))
	assert.False(t, IsNoOutcome("Nope"))
}
