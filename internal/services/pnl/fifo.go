// Package pnl reconstructs a wallet's realized P&L history from its trade
// activity by matching sells against buys first-in first-out per market.
package pnl

import (
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/polyfolio/internal/models"
	"github.com/bobmcallan/polyfolio/internal/services/normalize"
)

// Granularity selects the bucket size of the P&L series
type Granularity string

const (
	Monthly Granularity = "monthly"
	Daily   Granularity = "daily"
)

// ParseGranularity maps a query value onto a Granularity; unknown values are monthly.
func ParseGranularity(s string) Granularity {
	if strings.EqualFold(strings.TrimSpace(s), string(Daily)) {
		return Daily
	}
	return Monthly
}

func (g Granularity) layout() string {
	if g == Daily {
		return "2006-01-02"
	}
	return "2006-01"
}

// Field tables for trade and position records
var (
	MarketIDKeys     = normalize.Keys{"conditionId", "condition_id"}
	SideKeys         = normalize.Keys{"side", "type"}
	SizeKeys         = normalize.Keys{"size", "amount"}
	PriceKeys        = normalize.Keys{"price", "fillPrice", "tradePrice"}
	PositionSizeKeys = normalize.Keys{"size", "shares"}
	PositionAvgKeys  = normalize.Keys{"avgPrice", "averagePrice"}
	PositionCurKeys  = normalize.Keys{"curPrice", "currentPrice"}
)

type config struct {
	granularity Granularity
	clock       func() time.Time
}

// Option configures Compute
type Option func(*config)

// WithGranularity sets the bucket size. Monthly is the default.
func WithGranularity(g Granularity) Option {
	return func(c *config) { c.granularity = g }
}

// WithClock overrides the clock used for the current bucket.
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// trade is an activity record that passed validation
type trade struct {
	marketID string
	side     models.Side
	size     float64
	price    float64
	unix     int64 // 0 when the record has no readable timestamp
}

// lot is an open buy waiting to be matched
type lot struct {
	price    float64
	quantity float64
	unix     int64
}

// ledger holds the open lots of one Compute run, keyed by market.
type ledger struct {
	open map[string][]lot
}

func newLedger() *ledger {
	return &ledger{open: make(map[string][]lot)}
}

func (l *ledger) buy(t trade) {
	l.open[t.marketID] = append(l.open[t.marketID], lot{price: t.price, quantity: t.size, unix: t.unix})
}

// sell consumes lots from the front of the market's queue and returns the
// realized P&L. Size beyond the open lots is ignored.
func (l *ledger) sell(t trade) float64 {
	queue := l.open[t.marketID]
	remaining := t.size
	var realized float64

	for remaining > 0 && len(queue) > 0 {
		front := &queue[0]
		if front.quantity <= remaining {
			realized += (t.price - front.price) * front.quantity
			remaining -= front.quantity
			queue = queue[1:]
			continue
		}
		realized += (t.price - front.price) * remaining
		front.quantity -= remaining
		remaining = 0
	}

	if len(queue) == 0 {
		delete(l.open, t.marketID)
	} else {
		l.open[t.marketID] = queue
	}
	return realized
}

// Compute builds the P&L series for a wallet. Realized P&L lands in the
// bucket of the sell that realized it; unrealized P&L of positions lands in
// the bucket of the last trade, or the current bucket when there were no
// trades and it is non-zero. Empty input gives an empty series.
func Compute(activities, positions []models.Record, opts ...Option) []models.PnLPoint {
	cfg := config{granularity: Monthly, clock: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	trades := parseTrades(activities)
	buckets := make(map[string]float64)
	key := func(unix int64) string {
		if unix == 0 {
			return cfg.clock().Format(cfg.granularity.layout())
		}
		return time.Unix(unix, 0).Format(cfg.granularity.layout())
	}

	book := newLedger()
	for _, t := range trades {
		switch t.side {
		case models.SideBuy:
			book.buy(t)
		case models.SideSell:
			k := key(t.unix)
			buckets[k] += book.sell(t)
		}
	}

	unrealized := Unrealized(positions)
	if len(trades) > 0 {
		k := key(trades[len(trades)-1].unix)
		buckets[k] += unrealized
	} else if unrealized != 0 {
		buckets[key(0)] += unrealized
	}

	return series(buckets)
}

// parseTrades keeps records with a market id, positive size and non-negative
// price, ordered oldest first. Records with equal timestamps keep input order.
func parseTrades(activities []models.Record) []trade {
	trades := make([]trade, 0, len(activities))
	for _, rec := range activities {
		t := trade{
			marketID: normalize.Text(rec, MarketIDKeys, ""),
			side:     tradeSide(rec),
			size:     normalize.Float(rec, SizeKeys, 0),
			price:    normalize.Float(rec, PriceKeys, 0),
		}
		if t.marketID == "" || t.size <= 0 || t.price < 0 {
			continue
		}
		if at, ok := normalize.Timestamp(rec, normalize.TimestampKeys); ok {
			t.unix = at.Unix()
		}
		trades = append(trades, t)
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].unix < trades[j].unix
	})
	return trades
}

func tradeSide(rec models.Record) models.Side {
	side := strings.ToUpper(normalize.Text(rec, SideKeys, ""))
	if strings.Contains(side, "SELL") || strings.Contains(side, "SALE") {
		return models.SideSell
	}
	return models.SideBuy
}

// series orders buckets ascending and attaches the running total.
func series(buckets map[string]float64) []models.PnLPoint {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]models.PnLPoint, 0, len(keys))
	var cumulative float64
	for _, k := range keys {
		cumulative += buckets[k]
		points = append(points, models.PnLPoint{
			Date:          k,
			PnL:           normalize.Round2(buckets[k]),
			CumulativePnL: normalize.Round2(cumulative),
		})
	}
	return points
}

// Unrealized sums (current - average) x size over positions that have a
// market id, a positive size and non-negative prices.
func Unrealized(positions []models.Record) float64 {
	var total float64
	for _, rec := range positions {
		if normalize.Text(rec, MarketIDKeys, "") == "" {
			continue
		}
		size := normalize.Float(rec, PositionSizeKeys, 0)
		avg := normalize.Float(rec, PositionAvgKeys, 0)
		cur := normalize.Float(rec, PositionCurKeys, 0)
		if size <= 0 || avg < 0 || cur < 0 {
			continue
		}
		total += (cur - avg) * size
	}
	return total
}

// Summarize splits the series total into realized and unrealized parts.
func Summarize(points []models.PnLPoint, positions []models.Record) models.PnLSummary {
	var total float64
	if len(points) > 0 {
		total = points[len(points)-1].CumulativePnL
	}
	unrealized := normalize.Round2(Unrealized(positions))
	return models.PnLSummary{
		RealizedPnL:   normalize.Round2(total - unrealized),
		UnrealizedPnL: unrealized,
		TotalPnL:      total,
	}
}
