// Package wallet fetches a wallet's data from the Polymarket data API and
// derives the dashboard views from it.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/polyfolio/internal/common"
	"github.com/bobmcallan/polyfolio/internal/interfaces"
	"github.com/bobmcallan/polyfolio/internal/models"
	"github.com/bobmcallan/polyfolio/internal/services/normalize"
	"github.com/bobmcallan/polyfolio/internal/services/pnl"
)

// ErrUserRequired is returned when no wallet address is given
var ErrUserRequired = errors.New("user parameter is required")

// Service implements interfaces.WalletService
type Service struct {
	client interfaces.PolymarketClient
	config common.WalletConfig
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a new wallet service
func NewService(client interfaces.PolymarketClient, config common.WalletConfig, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		client: client,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// fetchParts selects which upstream resources a view needs
type fetchParts uint8

const (
	partActivity fetchParts = 1 << iota
	partPositions
	partValue
	partLookup
)

func (p fetchParts) has(part fetchParts) bool { return p&part != 0 }

// snapshot is the raw upstream data for one wallet at one moment
type snapshot struct {
	activity  []models.Record
	positions []models.Record
	value     float64
	hasValue  bool
	lookup    models.MarketLookup
	fetchedAt time.Time
}

// fetch loads the requested parts in parallel. Activity and positions are
// required; a failed value fetch is logged and left out.
func (s *Service) fetch(ctx context.Context, user string, parts fetchParts) (*snapshot, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, ErrUserRequired
	}

	snap := &snapshot{activity: []models.Record{}, positions: []models.Record{}}
	g, gctx := errgroup.WithContext(ctx)

	if parts.has(partActivity) {
		g.Go(func() error {
			recs, err := s.client.GetActivity(gctx, user, s.config.ActivityLimit, 0)
			if err != nil {
				return err
			}
			snap.activity = recs
			return nil
		})
	}
	if parts.has(partPositions) {
		g.Go(func() error {
			recs, err := s.client.GetPositions(gctx, user)
			if err != nil {
				return err
			}
			snap.positions = recs
			return nil
		})
	}
	if parts.has(partValue) {
		g.Go(func() error {
			recs, err := s.client.GetValue(gctx, user)
			if err != nil {
				s.logger.Warn().Str("user", user).Err(err).Msg("Value fetch failed, totalling positions instead")
				return nil
			}
			snap.value, snap.hasValue = walletValue(recs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if parts.has(partLookup) && s.config.LookupMarkets {
		snap.lookup = s.lookupMarkets(ctx, untitledMarketIDs(snap.positions, snap.activity))
	}
	snap.fetchedAt = s.now()

	s.logger.Debug().
		Str("user", user).
		Int("activity", len(snap.activity)).
		Int("positions", len(snap.positions)).
		Int("lookups", len(snap.lookup)).
		Msg("Wallet data fetched")

	return snap, nil
}

// walletValue reads the value figure from a /value response.
func walletValue(recs []models.Record) (float64, bool) {
	for _, rec := range recs {
		if _, _, ok := normalize.Source(rec, normalize.Keys{"value"}); ok {
			return normalize.Float(rec, normalize.Keys{"value"}, 0), true
		}
	}
	return 0, false
}

// GetDashboard fetches everything for a wallet and derives every view
func (s *Service) GetDashboard(ctx context.Context, user string) (*models.Dashboard, error) {
	snap, err := s.fetch(ctx, user, partActivity|partPositions|partValue|partLookup)
	if err != nil {
		return nil, fmt.Errorf("dashboard for %s: %w", user, err)
	}

	now := snap.fetchedAt
	positions := normalize.NormalizePositions(snap.positions, snap.lookup, now)

	var positionsValue, positionsPnL float64
	for _, p := range positions {
		positionsValue += p.Value
		positionsPnL += p.PnL
	}
	total := positionsValue
	if snap.hasValue {
		total = snap.value
	}

	d := &models.Dashboard{
		User:          strings.TrimSpace(user),
		TotalValue:    normalize.Round2(total),
		TotalPnL:      normalize.Round2(positionsPnL),
		PositionCount: len(positions),
		Positions:     positions,
		Activity:      normalize.NormalizeActivitiesN(snap.activity, snap.lookup, now, s.config.RecentActivity),
		PnLHistory:    pnl.Compute(snap.activity, snap.positions, pnl.WithClock(s.now)),
		Timeline:      normalize.ExpirationTimeline(positions, now),
		Sectors:       normalize.SectorExposures(positions),
		GeneratedAt:   now,
	}

	s.logger.Info().
		Str("user", d.User).
		Int("positions", d.PositionCount).
		Float64("total_value", d.TotalValue).
		Float64("total_pnl", d.TotalPnL).
		Msg("Dashboard assembled")

	return d, nil
}

// GetPositions returns normalized open positions
func (s *Service) GetPositions(ctx context.Context, user string) ([]models.Position, error) {
	snap, err := s.fetch(ctx, user, partPositions|partLookup)
	if err != nil {
		return nil, fmt.Errorf("positions for %s: %w", user, err)
	}
	return normalize.NormalizePositions(snap.positions, snap.lookup, snap.fetchedAt), nil
}

// GetActivity returns the normalized recent activity log
func (s *Service) GetActivity(ctx context.Context, user string) ([]models.Activity, error) {
	snap, err := s.fetch(ctx, user, partActivity|partLookup)
	if err != nil {
		return nil, fmt.Errorf("activity for %s: %w", user, err)
	}
	return normalize.NormalizeActivitiesN(snap.activity, snap.lookup, snap.fetchedAt, s.config.RecentActivity), nil
}

// GetTimeline returns upcoming expirations, soonest first
func (s *Service) GetTimeline(ctx context.Context, user string) ([]models.ExpirationItem, error) {
	positions, err := s.GetPositions(ctx, user)
	if err != nil {
		return nil, err
	}
	return normalize.ExpirationTimeline(positions, s.now()), nil
}

// GetSectorExposure returns position value grouped by sector
func (s *Service) GetSectorExposure(ctx context.Context, user string) ([]models.SectorExposure, error) {
	positions, err := s.GetPositions(ctx, user)
	if err != nil {
		return nil, err
	}
	return normalize.SectorExposures(positions), nil
}

// GetPnLHistory returns the bucketed P&L series
func (s *Service) GetPnLHistory(ctx context.Context, user string, granularity string) ([]models.PnLPoint, error) {
	snap, err := s.fetch(ctx, user, partActivity|partPositions)
	if err != nil {
		return nil, fmt.Errorf("pnl history for %s: %w", user, err)
	}
	return pnl.Compute(snap.activity, snap.positions,
		pnl.WithGranularity(pnl.ParseGranularity(granularity)),
		pnl.WithClock(s.now),
	), nil
}

// GetPnLSummary returns realized, unrealized and total P&L
func (s *Service) GetPnLSummary(ctx context.Context, user string) (*models.PnLSummary, error) {
	snap, err := s.fetch(ctx, user, partActivity|partPositions)
	if err != nil {
		return nil, fmt.Errorf("pnl summary for %s: %w", user, err)
	}
	points := pnl.Compute(snap.activity, snap.positions, pnl.WithClock(s.now))
	summary := pnl.Summarize(points, snap.positions)
	return &summary, nil
}

// RenderPnLChart draws cumulative monthly P&L as a PNG image
func (s *Service) RenderPnLChart(ctx context.Context, user string) ([]byte, error) {
	points, err := s.GetPnLHistory(ctx, user, string(pnl.Monthly))
	if err != nil {
		return nil, err
	}
	return RenderPnLChart(points)
}
