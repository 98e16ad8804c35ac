package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	rtagmcp "github.com/valter-silva-au/release-tag/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the rtag MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the rtag MCP server on stdio",
	Long: `Start the rtag MCP server on stdio transport.

The server exposes the release analysis as MCP tools that AI coding
assistants can call: classify_commits, next_version, read_release_notes,
plan_release. None of them syncs branches or creates tags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Classifier == nil {
			return fmt.Errorf("commit classifier not initialized")
		}

		srv := rtagmcp.NewServer(Classifier, Workflow, appVersion)

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
