package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/polyfolio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Upstream passthrough
	mux.HandleFunc("/api/activity", s.handleActivity)
	mux.HandleFunc("/api/positions", s.handlePositions)
	mux.HandleFunc("/api/closed-positions", s.handleClosedPositions)
	mux.HandleFunc("/api/value", s.handleValue)
	mux.HandleFunc("/api/markets/", s.routeMarkets)
	mux.HandleFunc("/api/markets", s.handleMarkets)
	mux.HandleFunc("/api/conditions/", s.handleCondition)

	// Wallet views
	mux.HandleFunc("/api/wallets/", s.routeWallets)

	// P&L and exposure
	mux.HandleFunc("/api/pnl", s.handlePnL)
	mux.HandleFunc("/api/pnl/chart", s.handlePnLChart)
	mux.HandleFunc("/api/total-pnl", s.handleTotalPnL)
	mux.HandleFunc("/api/unrealized-profit", s.handleUnrealizedProfit)
	mux.HandleFunc("/api/sector-exposure", s.handleSectorExposure)
}

// routeMarkets dispatches /api/markets/{id}.
func (s *Server) routeMarkets(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/markets/", "")
	if id == "" {
		s.handleMarkets(w, r)
		return
	}
	s.handleMarket(w, r, id)
}

// routeWallets dispatches /api/wallets/{address}/* to the appropriate handler.
func (s *Server) routeWallets(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/wallets/"), "/")
	parts := strings.SplitN(path, "/", 2)
	address := strings.TrimSpace(parts[0])
	if address == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, "wallet address is required", CodeMissingUser)
		return
	}
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	switch subpath {
	case "":
		s.handleWalletDashboard(w, r, address)
	case "positions":
		s.handleWalletPositions(w, r, address)
	case "activity":
		s.handleWalletActivity(w, r, address)
	case "timeline":
		s.handleWalletTimeline(w, r, address)
	case "sectors":
		s.handleWalletSectors(w, r, address)
	default:
		WriteErrorWithCode(w, http.StatusNotFound, "Not found", CodeNotFound)
	}
}

// handleHealth responds with {"status":"ok"}.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds with build metadata and uptime.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	info := common.GetVersionInfo()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": info.Version,
		"build":   info.Build,
		"commit":  info.Commit,
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}
