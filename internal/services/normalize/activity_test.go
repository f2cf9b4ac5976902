package normalize

import (
	"fmt"
	"testing"
	"time"

	"github.com/bobmcallan/polyfolio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeActivity_DataAPIShape(t *testing.T) {
	rec := models.Record{
		"transactionHash": "0xfeed",
		"conditionId":     "0xabcdef1234567890",
		"title":           "Will ETH flip BTC?",
		"side":            "sell",
		"size":            12.6,
		"price":           0.456,
		"timestamp":       float64(testNow.Add(-3 * time.Hour).Unix()),
	}

	a := NormalizeActivity(rec, 0, nil, testNow)

	assert.Equal(t, "0xfeed", a.ID)
	assert.Equal(t, models.SideSell, a.Side)
	assert.Equal(t, "Will ETH flip BTC?", a.Market)
	assert.Equal(t, int64(13), a.Shares)
	assert.Equal(t, 0.46, a.Price)
	assert.Equal(t, "3 hours ago", a.RelativeTime)
	assert.True(t, a.OccurredAt.Equal(testNow.Add(-3*time.Hour)))
}

func TestNormalizeActivity_Defaults(t *testing.T) {
	a := NormalizeActivity(models.Record{}, 7, nil, testNow)

	assert.Equal(t, "activity-7", a.ID)
	assert.Equal(t, models.SideBuy, a.Side)
	assert.Equal(t, "Unknown Market", a.Market)
	assert.Equal(t, int64(0), a.Shares)
	assert.Equal(t, 0.0, a.Price)
	assert.True(t, a.OccurredAt.Equal(testNow))
	assert.Equal(t, "0 minutes ago", a.RelativeTime)
}

func TestNormalizeActivity_SideVariants(t *testing.T) {
	tests := map[string]models.Side{
		"SELL":   models.SideSell,
		"Sell":   models.SideSell,
		"BUY":    models.SideBuy,
		"REDEEM": models.SideBuy,
		"SALE":   models.SideBuy,
	}
	for raw, want := range tests {
		a := NormalizeActivity(models.Record{"type": raw}, 0, nil, testNow)
		assert.Equal(t, want, a.Side, raw)
	}
}

func TestNormalizeActivity_MillisecondsAndISO(t *testing.T) {
	at := testNow.Add(-2 * 24 * time.Hour)

	ms := NormalizeActivity(models.Record{"timestamp": float64(at.UnixMilli())}, 0, nil, testNow)
	iso := NormalizeActivity(models.Record{"createdAt": at.Format(time.RFC3339)}, 0, nil, testNow)

	assert.True(t, ms.OccurredAt.Equal(at))
	assert.True(t, iso.OccurredAt.Equal(at))
	assert.Equal(t, "2 days ago", iso.RelativeTime)
}

func TestNormalizeActivity_TitleFromLookup(t *testing.T) {
	lookup := models.MarketLookup{"0x1234567890abcdef": {"title": "Super Bowl winner"}}
	rec := models.Record{"conditionId": "0x1234567890abcdef"}

	a := NormalizeActivity(rec, 0, lookup, testNow)
	assert.Equal(t, "Super Bowl winner", a.Market)

	a = NormalizeActivity(rec, 0, nil, testNow)
	assert.Equal(t, "Market 0x123456...", a.Market)
}

func TestNormalizeActivities_FirstFiftyInOrder(t *testing.T) {
	recs := make([]models.Record, 0, 60)
	for i := 0; i < 60; i++ {
		recs = append(recs, models.Record{"id": fmt.Sprintf("t%d", i)})
	}

	out := NormalizeActivities(recs, nil, testNow)

	require.Len(t, out, RecentActivityLimit)
	assert.Equal(t, "t0", out[0].ID)
	assert.Equal(t, "t49", out[49].ID)
}

func TestNormalizeActivities_EmptyAndIdempotent(t *testing.T) {
	assert.Empty(t, NormalizeActivities(nil, nil, testNow))
	assert.NotNil(t, NormalizeActivities(nil, nil, testNow))

	recs := []models.Record{{"side": "BUY", "size": "4", "price": "0.1", "timestamp": "1717200000"}}
	assert.Equal(t, NormalizeActivities(recs, nil, testNow), NormalizeActivities(recs, nil, testNow))
}

func TestNormalizeActivitiesN_Cap(t *testing.T) {
	recs := []models.Record{{}, {}, {}}
	assert.Len(t, NormalizeActivitiesN(recs, nil, testNow, 2), 2)
	assert.Len(t, NormalizeActivitiesN(recs, nil, testNow, 0), 3)
}
