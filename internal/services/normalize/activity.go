package normalize

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bobmcallan/polyfolio/internal/models"
)

// RecentActivityLimit is how many activity records are normalized per call
const RecentActivityLimit = 50

// NormalizeActivities normalizes the first RecentActivityLimit records in the
// order received. Nothing is dropped and nil input yields an empty slice.
func NormalizeActivities(recs []models.Record, lookup models.MarketLookup, now time.Time) []models.Activity {
	return NormalizeActivitiesN(recs, lookup, now, RecentActivityLimit)
}

// NormalizeActivitiesN is NormalizeActivities with an explicit cap.
func NormalizeActivitiesN(recs []models.Record, lookup models.MarketLookup, now time.Time, limit int) []models.Activity {
	if limit <= 0 || limit > len(recs) {
		limit = len(recs)
	}
	out := make([]models.Activity, 0, limit)
	for i, rec := range recs[:limit] {
		out = append(out, NormalizeActivity(rec, i, lookup, now))
	}
	return out
}

// NormalizeActivity builds a canonical trade from a raw activity record.
// index is the record's position in the input, used for a fallback id.
func NormalizeActivity(rec models.Record, index int, lookup models.MarketLookup, now time.Time) models.Activity {
	marketID := Text(rec, MarketIDKeys, "")

	title := Text(rec, ActivityTitleKeys, "")
	if title == "" {
		title = Text(lookup.Get(marketID), DescriptorTitleKeys, "")
	}
	if title == "" {
		title = placeholderTitle(marketID)
	}

	side := models.SideBuy
	if strings.ToUpper(Text(rec, ActivitySideKeys, "")) == string(models.SideSell) {
		side = models.SideSell
	}

	occurred, ok := Timestamp(rec, TimestampKeys)
	if !ok {
		occurred = now
	}

	id := Text(rec, ActivityIDKeys, "")
	if id == "" {
		id = fmt.Sprintf("activity-%d", index)
	}

	return models.Activity{
		ID:           id,
		Side:         side,
		Market:       title,
		MarketID:     marketID,
		Shares:       int64(math.Round(Float(rec, ActivitySharesKeys, 0))),
		Price:        Round2(Float(rec, ActivityPriceKeys, 0)),
		OccurredAt:   occurred,
		RelativeTime: RelativeTime(occurred, now),
	}
}
