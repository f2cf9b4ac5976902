// Command polyfolio-mcp serves the Polyfolio MCP tools over stdio for
// desktop and CLI MCP clients. Logs go to stderr so stdout stays JSON-RPC only.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/polyfolio/internal/app"
)

func main() {
	configPath := flag.String("config", "", "Path to polyfolio.toml")
	flag.Parse()

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Logger.Info().Msg("Serving MCP over stdio")

	if err := server.ServeStdio(a.MCPServer); err != nil {
		a.Logger.Error().Err(err).Msg("stdio server stopped")
		a.Close()
		os.Exit(1)
	}
}
