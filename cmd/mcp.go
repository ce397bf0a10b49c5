package cmd

import (
	"github.com/huangsam/crashspot/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the crashspot MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents run the crashspot reports
through standard tools. Tool arguments override the configured defaults.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Emojis are dropped so nothing decorative leaks into tool output
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		cfg.UseEmojis = false
		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, recordStore)
	},
}
