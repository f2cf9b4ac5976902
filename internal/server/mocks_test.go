package server

import (
	"context"
	"time"

	"github.com/bobmcallan/polyfolio/internal/app"
	"github.com/bobmcallan/polyfolio/internal/common"
	"github.com/bobmcallan/polyfolio/internal/models"
)

// mockClient implements interfaces.PolymarketClient with overridable funcs
type mockClient struct {
	getActivityFn  func(ctx context.Context, user string, limit, offset int) ([]models.Record, error)
	getPositionsFn func(ctx context.Context, user string) ([]models.Record, error)
	getValueFn     func(ctx context.Context, user string) ([]models.Record, error)
	getMarketsFn   func(ctx context.Context, limit, offset int, active *bool) ([]models.Record, error)
	getMarketFn    func(ctx context.Context, id string) (models.Record, error)
	getConditionFn func(ctx context.Context, id string) (models.Record, error)
}

func (m *mockClient) GetActivity(ctx context.Context, user string, limit, offset int) ([]models.Record, error) {
	if m.getActivityFn != nil {
		return m.getActivityFn(ctx, user, limit, offset)
	}
	return []models.Record{}, nil
}

func (m *mockClient) GetPositions(ctx context.Context, user string) ([]models.Record, error) {
	if m.getPositionsFn != nil {
		return m.getPositionsFn(ctx, user)
	}
	return []models.Record{}, nil
}

func (m *mockClient) GetClosedPositions(ctx context.Context, user string) ([]models.Record, error) {
	return []models.Record{{"conditionId": "closed-1"}}, nil
}

func (m *mockClient) GetValue(ctx context.Context, user string) ([]models.Record, error) {
	if m.getValueFn != nil {
		return m.getValueFn(ctx, user)
	}
	return []models.Record{{"user": user, "value": 10}}, nil
}

func (m *mockClient) GetMarkets(ctx context.Context, limit, offset int, active *bool) ([]models.Record, error) {
	if m.getMarketsFn != nil {
		return m.getMarketsFn(ctx, limit, offset, active)
	}
	return []models.Record{}, nil
}

func (m *mockClient) GetMarket(ctx context.Context, id string) (models.Record, error) {
	if m.getMarketFn != nil {
		return m.getMarketFn(ctx, id)
	}
	return models.Record{"id": id}, nil
}

func (m *mockClient) GetCondition(ctx context.Context, id string) (models.Record, error) {
	if m.getConditionFn != nil {
		return m.getConditionFn(ctx, id)
	}
	return models.Record{"conditionId": id}, nil
}

// mockWalletService implements interfaces.WalletService with overridable funcs
type mockWalletService struct {
	getDashboardFn      func(ctx context.Context, user string) (*models.Dashboard, error)
	getPositionsFn      func(ctx context.Context, user string) ([]models.Position, error)
	getActivityFn       func(ctx context.Context, user string) ([]models.Activity, error)
	getTimelineFn       func(ctx context.Context, user string) ([]models.ExpirationItem, error)
	getSectorExposureFn func(ctx context.Context, user string) ([]models.SectorExposure, error)
	getPnLHistoryFn     func(ctx context.Context, user, granularity string) ([]models.PnLPoint, error)
	getPnLSummaryFn     func(ctx context.Context, user string) (*models.PnLSummary, error)
	renderPnLChartFn    func(ctx context.Context, user string) ([]byte, error)
}

func (m *mockWalletService) GetDashboard(ctx context.Context, user string) (*models.Dashboard, error) {
	if m.getDashboardFn != nil {
		return m.getDashboardFn(ctx, user)
	}
	return &models.Dashboard{User: user}, nil
}

func (m *mockWalletService) GetPositions(ctx context.Context, user string) ([]models.Position, error) {
	if m.getPositionsFn != nil {
		return m.getPositionsFn(ctx, user)
	}
	return []models.Position{}, nil
}

func (m *mockWalletService) GetActivity(ctx context.Context, user string) ([]models.Activity, error) {
	if m.getActivityFn != nil {
		return m.getActivityFn(ctx, user)
	}
	return []models.Activity{}, nil
}

func (m *mockWalletService) GetTimeline(ctx context.Context, user string) ([]models.ExpirationItem, error) {
	if m.getTimelineFn != nil {
		return m.getTimelineFn(ctx, user)
	}
	return []models.ExpirationItem{}, nil
}

func (m *mockWalletService) GetSectorExposure(ctx context.Context, user string) ([]models.SectorExposure, error) {
	if m.getSectorExposureFn != nil {
		return m.getSectorExposureFn(ctx, user)
	}
	return []models.SectorExposure{}, nil
}

func (m *mockWalletService) GetPnLHistory(ctx context.Context, user, granularity string) ([]models.PnLPoint, error) {
	if m.getPnLHistoryFn != nil {
		return m.getPnLHistoryFn(ctx, user, granularity)
	}
	return []models.PnLPoint{}, nil
}

func (m *mockWalletService) GetPnLSummary(ctx context.Context, user string) (*models.PnLSummary, error) {
	if m.getPnLSummaryFn != nil {
		return m.getPnLSummaryFn(ctx, user)
	}
	return &models.PnLSummary{}, nil
}

func (m *mockWalletService) RenderPnLChart(ctx context.Context, user string) ([]byte, error) {
	if m.renderPnLChartFn != nil {
		return m.renderPnLChartFn(ctx, user)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

// newTestServer builds a Server around mocks without touching the network
func newTestServer(client *mockClient, svc *mockWalletService) *Server {
	if client == nil {
		client = &mockClient{}
	}
	if svc == nil {
		svc = &mockWalletService{}
	}
	a := &app.App{
		Config:           common.NewDefaultConfig(),
		Logger:           common.NewSilentLogger(),
		PolymarketClient: client,
		WalletService:    svc,
		StartupTime:      time.Now(),
	}
	return NewServer(a)
}
