// Package normalize turns loosely shaped upstream records into canonical
// positions and activity. Everything here is pure: no I/O, no shared state.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/bobmcallan/polyfolio/internal/models"
)

// Keys is an ordered list of candidate field names. Earlier keys win.
// A key may be a dotted path ("market.question") into nested objects.
type Keys []string

// Market identity and text
var (
	MarketIDKeys = Keys{"conditionId", "condition.id", "market", "market.id", "marketId"}

	PositionTitleKeys   = Keys{"title"}
	DescriptorTitleKeys = Keys{"question", "title", "name"}
	EmbeddedTitleKeys   = Keys{"market.question", "market.title", "condition.question", "condition.market.question", "marketTitle"}

	ActivityTitleKeys = Keys{"title", "marketTitle", "market.question", "market.title", "condition.question", "condition.market.question"}
)

// Position fields
var (
	PositionSharesKeys = Keys{"size", "shares", "quantity", "amount", "tokens", "sharesNum"}
	OutcomeKeys        = Keys{"outcome", "side", "position"}
	CurrentValueKeys   = Keys{"currentValue"}
	CashPnLKeys        = Keys{"cashPnl"}
	PositionEndKeys    = Keys{"endDate"}
	DescriptorEndKeys  = Keys{"endDate", "end_date_iso", "endDateISO"}
	ExpiresAtKeys      = Keys{"expiresAt"}
)

// Activity fields
var (
	ActivitySideKeys   = Keys{"side", "type", "action"}
	ActivitySharesKeys = Keys{"size", "amount", "shares", "quantity", "tokens"}
	ActivityPriceKeys  = Keys{"price", "priceNum", "costBasis", "avgPrice", "tradePrice", "fillPrice"}
	TimestampKeys      = Keys{"timestamp", "createdAt", "created"}
	ActivityIDKeys     = Keys{"transactionHash", "id"}
)

// lookupPath walks a dotted path. A segment that lands on a non-object
// makes the whole path absent.
func lookupPath(rec models.Record, path string) (any, bool) {
	if rec == nil {
		return nil, false
	}
	if v, ok := rec[path]; ok || !strings.Contains(path, ".") {
		return v, ok
	}

	var cur any = rec
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// present reports whether a value counts as supplied: not nil and not "".
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case json.Number:
		return t.String() != ""
	}
	return true
}

// Source returns the first key in keys holding a present value, with that value.
func Source(rec models.Record, keys Keys) (string, any, bool) {
	for _, k := range keys {
		if v, ok := lookupPath(rec, k); ok && present(v) {
			return k, v, true
		}
	}
	return "", nil, false
}

// Extract returns the first present value among keys, or def. Numeric
// strings and json.Number come back as float64; anything else is returned as is.
// Float and Text are the typed forms of the same rule.
func Extract(rec models.Record, keys Keys, def any) any {
	_, v, ok := Source(rec, keys)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case json.Number, string:
		if f, ok := toFloat(t); ok {
			return f
		}
	}
	return v
}

// Float resolves keys to a number. A winning value that cannot be read as a
// number yields def; later keys are not consulted.
func Float(rec models.Record, keys Keys, def float64) float64 {
	_, v, ok := Source(rec, keys)
	if !ok {
		return def
	}
	f, ok := toFloat(v)
	if !ok {
		return def
	}
	return f
}

// Text resolves keys to a string. Only scalars count; a nested object or
// array under a key is skipped as if the key were missing.
func Text(rec models.Record, keys Keys, def string) string {
	for _, k := range keys {
		v, ok := lookupPath(rec, k)
		if !ok || !present(v) {
			continue
		}
		if s, ok := scalarText(v); ok {
			return s
		}
	}
	return def
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
