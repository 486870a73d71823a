package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	pcmcp "github.com/valter-silva-au/promcheck/internal/mcp"
	"github.com/valter-silva-au/promcheck/internal/registry"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the promcheck MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the promcheck MCP server on stdio",
	Long: `Start the promcheck MCP server on stdio transport.

The server exposes the validators as MCP tools that AI coding assistants
can call: validate_rules, validate_dashboards, validate_queries.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("configuration not initialized")
		}

		srv := pcmcp.NewServer(BasePath, Config, pcmcp.RegistryLoader(func() (*registry.Registry, error) {
			return LoadRegistry()
		}), appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
