package app

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/polyfolio/internal/common"
	"github.com/bobmcallan/polyfolio/internal/interfaces"
)

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		info := common.GetVersionInfo()
		result := fmt.Sprintf("Polyfolio Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			info.Version, info.Build, info.Commit)
		return textResult(result), nil
	}
}

// handleWalletDashboard implements the wallet_dashboard tool
func handleWalletDashboard(walletService interfaces.WalletService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		user, err := request.RequireString("user")
		if err != nil || user == "" {
			return errorResult("Error: user parameter is required"), nil
		}

		dashboard, err := walletService.GetDashboard(ctx, user)
		if err != nil {
			logger.Error().Err(err).Str("user", user).Msg("Wallet dashboard failed")
			return errorResult(fmt.Sprintf("Dashboard error: %v", err)), nil
		}

		return textResult(formatDashboard(dashboard)), nil
	}
}

// handleWalletPositions implements the wallet_positions tool
func handleWalletPositions(walletService interfaces.WalletService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		user, err := request.RequireString("user")
		if err != nil || user == "" {
			return errorResult("Error: user parameter is required"), nil
		}

		positions, err := walletService.GetPositions(ctx, user)
		if err != nil {
			logger.Error().Err(err).Str("user", user).Msg("Wallet positions failed")
			return errorResult(fmt.Sprintf("Positions error: %v", err)), nil
		}

		return textResult(formatPositions(positions)), nil
	}
}

// handleWalletPnLHistory implements the wallet_pnl_history tool
func handleWalletPnLHistory(walletService interfaces.WalletService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		user, err := request.RequireString("user")
		if err != nil || user == "" {
			return errorResult("Error: user parameter is required"), nil
		}

		granularity := request.GetString("granularity", "monthly")
		includeChart := request.GetBool("include_chart", false)

		points, err := walletService.GetPnLHistory(ctx, user, granularity)
		if err != nil {
			logger.Error().Err(err).Str("user", user).Msg("P&L history failed")
			return errorResult(fmt.Sprintf("P&L history error: %v", err)), nil
		}

		result := textResult(formatPnLHistory(points, granularity))
		if includeChart && len(points) > 0 {
			png, err := walletService.RenderPnLChart(ctx, user)
			if err != nil {
				logger.Warn().Err(err).Str("user", user).Msg("P&L chart render failed")
			} else {
				result.Content = append(result.Content,
					mcp.NewImageContent(base64.StdEncoding.EncodeToString(png), "image/png"))
			}
		}
		return result, nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
