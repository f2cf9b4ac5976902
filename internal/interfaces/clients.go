// Package interfaces defines service contracts for Polyfolio
package interfaces

import (
	"context"

	"github.com/bobmcallan/polyfolio/internal/models"
)

// PolymarketClient provides access to the Polymarket data API. Responses are
// returned as decoded records; shaping them is left to the normalize package.
type PolymarketClient interface {
	// GetActivity retrieves trade activity for a wallet
	GetActivity(ctx context.Context, user string, limit, offset int) ([]models.Record, error)

	// GetPositions retrieves open positions for a wallet
	GetPositions(ctx context.Context, user string) ([]models.Record, error)

	// GetClosedPositions retrieves closed positions for a wallet
	GetClosedPositions(ctx context.Context, user string) ([]models.Record, error)

	// GetValue retrieves the platform's valuation of a wallet
	GetValue(ctx context.Context, user string) ([]models.Record, error)

	// GetMarkets lists markets; a nil active leaves the filter off
	GetMarkets(ctx context.Context, limit, offset int, active *bool) ([]models.Record, error)

	// GetMarket retrieves a single market
	GetMarket(ctx context.Context, marketID string) (models.Record, error)

	// GetCondition retrieves a condition, falling back to the market endpoint
	GetCondition(ctx context.Context, conditionID string) (models.Record, error)
}
