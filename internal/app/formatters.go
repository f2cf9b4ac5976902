package app

import (
	"fmt"
	"math"
	"strings"

	"github.com/bobmcallan/polyfolio/internal/models"
)

func formatMoney(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", math.Abs(v))
	}
	return fmt.Sprintf("$%.2f", v)
}

func formatSignedMoney(v float64) string {
	if v > 0 {
		return "+" + formatMoney(v)
	}
	return formatMoney(v)
}

// formatDashboard renders a wallet dashboard as markdown.
func formatDashboard(d *models.Dashboard) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Wallet %s\n\n", d.User))
	sb.WriteString(fmt.Sprintf("- **Total value:** %s\n", formatMoney(d.TotalValue)))
	sb.WriteString(fmt.Sprintf("- **Open P&L:** %s\n", formatSignedMoney(d.TotalPnL)))
	sb.WriteString(fmt.Sprintf("- **Positions:** %d\n", d.PositionCount))
	if n := len(d.PnLHistory); n > 0 {
		sb.WriteString(fmt.Sprintf("- **Cumulative P&L:** %s\n", formatSignedMoney(d.PnLHistory[n-1].CumulativePnL)))
	}
	sb.WriteString("\n")

	sb.WriteString(formatPositions(d.Positions))

	if len(d.Sectors) > 0 {
		sb.WriteString("## Sector Exposure\n\n")
		sb.WriteString("| Sector | Value | Share |\n")
		sb.WriteString("|--------|-------|-------|\n")
		for _, s := range d.Sectors {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f%% |\n", s.Sector, formatMoney(s.Value), s.Percentage))
		}
		sb.WriteString("\n")
	}

	if len(d.Timeline) > 0 {
		sb.WriteString("## Upcoming Expirations\n\n")
		for _, item := range d.Timeline {
			sb.WriteString(fmt.Sprintf("- %s (%d days): %s, %s\n", item.Date, item.DaysFromNow, item.Market, formatMoney(item.Value)))
		}
		sb.WriteString("\n")
	}

	if len(d.Activity) > 0 {
		sb.WriteString("## Recent Activity\n\n")
		limit := min(len(d.Activity), 10)
		for _, a := range d.Activity[:limit] {
			sb.WriteString(fmt.Sprintf("- %s %d @ %.2f %s (%s)\n", a.Side, a.Shares, a.Price, a.Market, a.RelativeTime))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatPositions renders open positions as a markdown table.
func formatPositions(positions []models.Position) string {
	var sb strings.Builder

	sb.WriteString("## Positions\n\n")
	if len(positions) == 0 {
		sb.WriteString("No open positions.\n\n")
		return sb.String()
	}

	sb.WriteString("| Market | Outcome | Shares | Avg | Current | Value | P&L | Sector | Expires |\n")
	sb.WriteString("|--------|---------|--------|-----|---------|-------|-----|--------|---------|\n")
	for _, p := range positions {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.3f | %.3f | %s | %s | %s | %s |\n",
			strings.ReplaceAll(p.Market, "|", "/"),
			p.OutcomeLabel,
			p.Shares,
			p.AvgPrice,
			p.CurrentPrice,
			formatMoney(p.Value),
			formatSignedMoney(p.PnL),
			p.Sector,
			p.ExpiresOn,
		))
	}
	sb.WriteString("\n")
	return sb.String()
}

// formatPnLHistory renders a P&L series as a markdown table.
func formatPnLHistory(points []models.PnLPoint, granularity string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## P&L History (%s)\n\n", granularity))
	if len(points) == 0 {
		sb.WriteString("No P&L history available.\n")
		return sb.String()
	}

	sb.WriteString("| Period | P&L | Cumulative |\n")
	sb.WriteString("|--------|-----|------------|\n")
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", p.Date, formatSignedMoney(p.PnL), formatSignedMoney(p.CumulativePnL)))
	}
	sb.WriteString("\n")
	return sb.String()
}
