package interfaces

import (
	"context"

	"github.com/bobmcallan/polyfolio/internal/models"
)

// WalletService assembles analytics for a single wallet
type WalletService interface {
	// GetDashboard fetches everything for a wallet and derives every view
	GetDashboard(ctx context.Context, user string) (*models.Dashboard, error)

	// GetPositions returns normalized open positions
	GetPositions(ctx context.Context, user string) ([]models.Position, error)

	// GetActivity returns the normalized recent activity log
	GetActivity(ctx context.Context, user string) ([]models.Activity, error)

	// GetTimeline returns upcoming expirations, soonest first
	GetTimeline(ctx context.Context, user string) ([]models.ExpirationItem, error)

	// GetSectorExposure returns position value grouped by sector
	GetSectorExposure(ctx context.Context, user string) ([]models.SectorExposure, error)

	// GetPnLHistory returns the bucketed P&L series ("monthly" or "daily")
	GetPnLHistory(ctx context.Context, user string, granularity string) ([]models.PnLPoint, error)

	// GetPnLSummary returns realized, unrealized and total P&L
	GetPnLSummary(ctx context.Context, user string) (*models.PnLSummary, error)

	// RenderPnLChart draws cumulative P&L as a PNG image
	RenderPnLChart(ctx context.Context, user string) ([]byte, error)
}
