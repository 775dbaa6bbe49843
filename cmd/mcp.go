package cmd

import (
	"github.com/huangsam/mades/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MADE planner MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents list, add, complete and
score tasks. Changes are saved and synced like any other command.`,
	// Logs go to stderr; stdout carries the protocol.
	PreRunE: plannerSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, sess.planner)
	},
}
