package normalize

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bobmcallan/polyfolio/internal/models"
)

// Numeric timestamps above this are milliseconds, at or below it seconds.
const millisecondThreshold = 1e10

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp converts a raw timestamp (Unix seconds or milliseconds as a
// number or numeric string, or an ISO-8601 string) into an instant. Strings
// without a zone are read as local time.
func ParseTimestamp(v any) (time.Time, bool) {
	if !present(v) {
		return time.Time{}, false
	}
	if f, ok := toFloat(v); ok {
		return fromEpoch(f), true
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fromEpoch(f float64) time.Time {
	if f > millisecondThreshold {
		ms := int64(math.Floor(f))
		return time.UnixMilli(ms)
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// Timestamp resolves the first present key in keys to an instant.
func Timestamp(rec models.Record, keys Keys) (time.Time, bool) {
	_, v, ok := Source(rec, keys)
	if !ok {
		return time.Time{}, false
	}
	return ParseTimestamp(v)
}

// RelativeTime renders the distance from t to now as "N minutes ago",
// "N hours ago" or "N days ago". Instants after now read as 0 minutes.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
