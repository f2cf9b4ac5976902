package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bobmcallan/polyfolio/internal/clients/polymarket"
	"github.com/bobmcallan/polyfolio/internal/services/wallet"
)

// --- Upstream passthrough handlers ---

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := RequireUser(w, r)
	if !ok {
		return
	}

	limit := QueryInt(r, "limit", polymarket.DefaultActivityLimit)
	offset := QueryInt(r, "offset", 0)

	records, err := s.app.PolymarketClient.GetActivity(r.Context(), user, limit, offset)
	if err != nil {
		WriteServiceError(w, "fetch activity", err)
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := RequireUser(w, r)
	if !ok {
		return
	}

	records, err := s.app.PolymarketClient.GetPositions(r.Context(), user)
	if err != nil {
		WriteServiceError(w, "fetch positions", err)
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

func (s *Server) handleClosedPositions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := RequireUser(w, r)
	if !ok {
		return
	}

	records, err := s.app.PolymarketClient.GetClosedPositions(r.Context(), user)
	if err != nil {
		WriteServiceError(w, "fetch closed positions", err)
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

func (s *Server) handleValue(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := RequireUser(w, r)
	if !ok {
		return
	}

	records, err := s.app.PolymarketClient.GetValue(r.Context(), user)
	if err != nil {
		WriteServiceError(w, "fetch value", err)
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit := QueryInt(r, "limit", polymarket.DefaultMarketsLimit)
	offset := QueryInt(r, "offset", 0)

	records, err := s.app.PolymarketClient.GetMarkets(r.Context(), limit, offset, QueryBool(r, "active"))
	if err != nil {
		WriteServiceError(w, "fetch markets", err)
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request, marketID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	record, err := s.app.PolymarketClient.GetMarket(r.Context(), marketID)
	if err != nil {
		WriteServiceError(w, "fetch market", err)
		return
	}
	WriteJSON(w, http.StatusOK, record)
}

func (s *Server) handleCondition(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	conditionID := PathParam(r, "/api/conditions/", "")
	if conditionID == "" {
		WriteError(w, http.StatusBadRequest, "condition id is required")
		return
	}

	record, err := s.app.PolymarketClient.GetCondition(r.Context(), conditionID)
	if err != nil {
		WriteServiceError(w, "fetch condition", err)
		return
	}
	WriteJSON(w, http.StatusOK, record)
}

// --- Wallet view handlers ---

func (s *Server) handleWalletDashboard(w http.ResponseWriter, r *http.Request, address string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	dashboard, err := s.app.WalletService.GetDashboard(r.Context(), address)
	if err != nil {
		WriteServiceError(w, "build dashboard", err)
		return
	}
	WriteJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleWalletPositions(w http.ResponseWriter, r *http.Request, address string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	positions, err := s.app.WalletService.GetPositions(r.Context(), address)
	if err != nil {
		WriteServiceError(w, "fetch positions", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":      address,
		"positions": positions,
	})
}

func (s *Server) handleWalletActivity(w http.ResponseWriter, r *http.Request, address string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	activity, err := s.app.WalletService.GetActivity(r.Context(), address)
	if err != nil {
		WriteServiceError(w, "fetch activity", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":     address,
		"activity": activity,
	})
}

func (s *Server) handleWalletTimeline(w http.ResponseWriter, r *http.Request, address string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	timeline, err := s.app.WalletService.GetTimeline(r.Context(), address)
	if err != nil {
		WriteServiceError(w, "build timeline", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":     address,
		"timeline": timeline,
	})
}

func (s *Server) handleWalletSectors(w http.ResponseWriter, r *http.Request, address string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sectors, err := s.app.WalletService.GetSectorExposure(r.Context(), address)
	if err != nil {
		WriteServiceError(w, "compute sector exposure", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":    address,
		"sectors": sectors,
	})
}

// --- P&L handlers ---

func (s *Server) handlePnL(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := RequireUser(w, r)
	if !ok {
		return
	}

	points, err := s.app.WalletService.GetPnLHistory(r.Context(), user, r.URL.Query().Get("granularity"))
	if err != nil {
		WriteServiceError(w, "compute PnL", err)
		return
	}

	total := 0.0
	if len(points) > 0 {
		total = points[len(points)-1].CumulativePnL
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":     user,
		"data":     points,
		"totalPnL": total,
	})
}

func (s *Server) handlePnLChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := RequireUser(w, r)
	if !ok {
		return
	}

	png, err := s.app.WalletService.RenderPnLChart(r.Context(), user)
	if err != nil {
		if errors.Is(err, wallet.ErrNoPnLData) {
			WriteErrorWithCode(w, http.StatusNotFound, err.Error(), CodeNotFound)
			return
		}
		WriteServiceError(w, "render PnL chart", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (s *Server) handleTotalPnL(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := RequireUser(w, r)
	if !ok {
		return
	}

	summary, err := s.app.WalletService.GetPnLSummary(r.Context(), user)
	if err != nil {
		WriteServiceError(w, "compute total PnL", err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":          user,
		"realizedPnL":   summary.RealizedPnL,
		"unrealizedPnL": summary.UnrealizedPnL,
		"totalPnL":      summary.TotalPnL,
	})
}

func (s *Server) handleUnrealizedProfit(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := RequireUser(w, r)
	if !ok {
		return
	}

	summary, err := s.app.WalletService.GetPnLSummary(r.Context(), user)
	if err != nil {
		WriteServiceError(w, "compute unrealized profit", err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":          user,
		"unrealizedPnL": summary.UnrealizedPnL,
	})
}

func (s *Server) handleSectorExposure(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := RequireUser(w, r)
	if !ok {
		return
	}

	sectors, err := s.app.WalletService.GetSectorExposure(r.Context(), user)
	if err != nil {
		WriteServiceError(w, "compute sector exposure", err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"sectors": sectors,
	})
}
