package procwatch

import (
	"github.com/sjzar/procwatch/internal/procwatch"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// 标准输出用于 MCP 协议，日志仍然写到标准错误
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve MCP tools over stdio",
	Run: func(cmd *cobra.Command, args []string) {
		m := procwatch.New()
		if err := m.CommandMCP(ConfigPath); err != nil {
			log.Err(err).Msg("failed to serve mcp")
			return
		}
	},
}
