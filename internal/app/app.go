// Package app wires configuration, clients, services and the MCP server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/polyfolio/internal/clients/polymarket"
	"github.com/bobmcallan/polyfolio/internal/common"
	"github.com/bobmcallan/polyfolio/internal/interfaces"
	"github.com/bobmcallan/polyfolio/internal/services/wallet"
)

// App holds all initialized services, clients, and the MCP server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	PolymarketClient interfaces.PolymarketClient
	WalletService    interfaces.WalletService
	MCPServer        *server.MCPServer
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveConfigPath picks the config file: explicit path, POLYFOLIO_CONFIG,
// polyfolio.toml next to the binary, then config/polyfolio.toml.
func resolveConfigPath(configPath, binDir string) string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("POLYFOLIO_CONFIG"); env != "" {
		return env
	}
	candidate := filepath.Join(binDir, "polyfolio.toml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return "config/polyfolio.toml"
}

// NewApp initializes the client, the wallet service and the MCP server.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()

	binDir := getBinaryDir()
	common.LoadDotEnv(".env", filepath.Join(binDir, ".env"))

	config, err := common.LoadConfig(resolveConfigPath(configPath, binDir))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	return newApp(config, logger, polymarket.NewClientFromConfig(config.Clients.Polymarket, logger), startupStart), nil
}

// newApp assembles an App around an already constructed client.
func newApp(config *common.Config, logger *common.Logger, client interfaces.PolymarketClient, startupStart time.Time) *App {
	walletService := wallet.NewService(client, config.Wallet, logger)

	mcpServer := server.NewMCPServer(
		"polyfolio",
		common.Version,
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:           config,
		Logger:           logger,
		PolymarketClient: client,
		WalletService:    walletService,
		MCPServer:        mcpServer,
		StartupTime:      startupStart,
	}

	a.registerTools()

	logger.Info().
		Str("data_api", config.Clients.Polymarket.BaseURL).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a
}

// Close releases resources held by the App.
func (a *App) Close() {
	a.Logger.Info().Dur("uptime", time.Since(a.StartupTime)).Msg("App closed")
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer
	logger := a.Logger

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createWalletDashboardTool(), handleWalletDashboard(a.WalletService, logger))
	s.AddTool(createWalletPositionsTool(), handleWalletPositions(a.WalletService, logger))
	s.AddTool(createWalletPnLHistoryTool(), handleWalletPnLHistory(a.WalletService, logger))
}
