package normalize

import (
	"sort"
	"time"

	"github.com/bobmcallan/polyfolio/internal/models"
)

// ExpirationTimeline lists positions that resolve after today, soonest first.
// Positions whose expiry is not a readable date are left out.
func ExpirationTimeline(positions []models.Position, now time.Time) []models.ExpirationItem {
	out := make([]models.ExpirationItem, 0, len(positions))
	for _, pos := range positions {
		days, ok := DaysFromNow(pos.ExpiresOn, now)
		if !ok || days <= 0 {
			continue
		}
		out = append(out, models.ExpirationItem{
			Date:        pos.ExpiresOn,
			Market:      pos.Market,
			Value:       pos.Value,
			DaysFromNow: days,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysFromNow < out[j].DaysFromNow
	})
	return out
}

// DaysFromNow counts calendar days from now's local date to date (YYYY-MM-DD).
func DaysFromNow(date string, now time.Time) (int, bool) {
	target, ok := parseDate(date)
	if !ok {
		return 0, false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24), true
}
