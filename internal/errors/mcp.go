package errors

import "github.com/mark3labs/mcp-go/mcp"

// ErrMCPTool 将错误转换为 MCP 工具调用的错误结果
func ErrMCPTool(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: err.Error(),
			},
		},
		IsError: true,
	}
}
