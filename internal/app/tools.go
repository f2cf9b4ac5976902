package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Polyfolio server version and status. Use this to verify connectivity."),
	)
}

// createWalletDashboardTool returns the wallet_dashboard tool definition
func createWalletDashboardTool() mcp.Tool {
	return mcp.NewTool("wallet_dashboard",
		mcp.WithDescription("Summarize a Polymarket wallet: total value, P&L, open positions, sector exposure, upcoming expirations and recent trades."),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("Wallet address (e.g., '0x9f47f1fcb1701bf9eaf31236ad39875e5d60af93')"),
		),
	)
}

// createWalletPositionsTool returns the wallet_positions tool definition
func createWalletPositionsTool() mcp.Tool {
	return mcp.NewTool("wallet_positions",
		mcp.WithDescription("List the open positions of a Polymarket wallet with outcome, shares, prices, value, P&L, sector and expiry."),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("Wallet address"),
		),
	)
}

// createWalletPnLHistoryTool returns the wallet_pnl_history tool definition
func createWalletPnLHistoryTool() mcp.Tool {
	return mcp.NewTool("wallet_pnl_history",
		mcp.WithDescription("Reconstruct a wallet's P&L history from its trades using FIFO lot matching. Returns per-period and cumulative P&L."),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("Wallet address"),
		),
		mcp.WithString("granularity",
			mcp.Description("Bucket size: 'monthly' (default) or 'daily'"),
		),
		mcp.WithBoolean("include_chart",
			mcp.Description("Attach a PNG chart of cumulative P&L (default: false)"),
		),
	)
}
