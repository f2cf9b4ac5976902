// Package models defines data structures for Polyfolio
package models

import "time"

// Record is a decoded upstream JSON object. Values may be nil, json.Number,
// float64, string, bool or nested map[string]any; records are never mutated.
type Record = map[string]any

// MarketLookup maps a market identifier to its market descriptor.
// A nil lookup is valid and simply resolves nothing.
type MarketLookup map[string]Record

// Get returns the descriptor for id, or nil when unknown
func (l MarketLookup) Get(id string) Record {
	if l == nil || id == "" {
		return nil
	}
	return l[id]
}

// Side is the direction of a trade
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Sector is the coarse category assigned to a market by keyword
type Sector string

const (
	SectorPolitics   Sector = "Politics"
	SectorCrypto     Sector = "Crypto"
	SectorTechnology Sector = "Technology"
	SectorEconomics  Sector = "Economics"
	SectorSports     Sector = "Sports"
	SectorOther      Sector = "Other"
)

// Position is a normalized open holding
type Position struct {
	Market       string  `json:"market"`
	OutcomeLabel string  `json:"outcomeLabel"`
	Shares       float64 `json:"shares"`
	AvgPrice     float64 `json:"avgPrice"`
	CurrentPrice float64 `json:"currentPrice"`
	Value        float64 `json:"value"`
	PnL          float64 `json:"pnl"`
	Sector       Sector  `json:"sector"`
	ExpiresOn    string  `json:"expiresOn"` // YYYY-MM-DD when the upstream date parses, raw text otherwise
	MarketID     string  `json:"marketId"`
}

// Activity is a normalized trade
type Activity struct {
	ID           string    `json:"id"`
	Side         Side      `json:"side"`
	Market       string    `json:"market"`
	MarketID     string    `json:"marketId,omitempty"`
	Shares       int64     `json:"shares"`
	Price        float64   `json:"price"`
	OccurredAt   time.Time `json:"occurredAt"`
	RelativeTime string    `json:"relativeTime"`
}

// PnLPoint is one bucket of the P&L history. Date is YYYY-MM for monthly
// buckets and YYYY-MM-DD for daily ones.
type PnLPoint struct {
	Date          string  `json:"date"`
	PnL           float64 `json:"pnl"`
	CumulativePnL float64 `json:"cumulativePnL"`
}

// PnLSummary splits total P&L into realized and unrealized parts
type PnLSummary struct {
	RealizedPnL   float64 `json:"realizedPnL"`
	UnrealizedPnL float64 `json:"unrealizedPnL"`
	TotalPnL      float64 `json:"totalPnL"`
}

// ExpirationItem is one upcoming market resolution
type ExpirationItem struct {
	Date        string  `json:"date"`
	Market      string  `json:"market"`
	Value       float64 `json:"value"`
	DaysFromNow int     `json:"daysFromNow"`
}

// SectorExposure is the share of position value held in one sector
type SectorExposure struct {
	Sector     Sector  `json:"sector"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Dashboard is the assembled view of a single wallet
type Dashboard struct {
	User          string           `json:"user"`
	TotalValue    float64          `json:"totalValue"`
	TotalPnL      float64          `json:"totalPnL"`
	PositionCount int              `json:"positionCount"`
	Positions     []Position       `json:"positions"`
	Activity      []Activity       `json:"activity"`
	PnLHistory    []PnLPoint       `json:"pnlHistory"`
	Timeline      []ExpirationItem `json:"timeline"`
	Sectors       []SectorExposure `json:"sectors"`
	GeneratedAt   time.Time        `json:"generatedAt"`
}
