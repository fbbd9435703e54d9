package mcp

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/sjzar/procwatch/internal/errors"
	"github.com/sjzar/procwatch/internal/proc"
	"github.com/sjzar/procwatch/internal/state"
	"github.com/sjzar/procwatch/pkg/version"
)

const Name = "procwatch"

// Refresher asks for an immediate process table refresh.
type Refresher interface {
	Trigger()
}

type Service struct {
	store      *state.Store
	terminator proc.Terminator
	refresher  Refresher

	mcpServer *server.MCPServer
}

func NewService(store *state.Store, terminator proc.Terminator, refresher Refresher) *Service {
	s := &Service{
		store:      store,
		terminator: terminator,
		refresher:  refresher,
	}
	s.initMCPServer()
	return s
}

func (s *Service) initMCPServer() {
	s.mcpServer = server.NewMCPServer(Name, version.Version)
	s.mcpServer.AddTool(ListProcessesTool, s.handleListProcesses)
	s.mcpServer.AddTool(KillProcessTool, s.handleKillProcess)
}

// ServeStdio 通过标准输入输出提供 MCP 服务，直到输入关闭
func (s *Service) ServeStdio() error {
	log.Info().Msg("Starting MCP server on stdio")
	return server.ServeStdio(s.mcpServer)
}

var ListProcessesTool = mcp.NewTool(
	"list_processes",
	mcp.WithDescription(`List the processes running on this host with their CPU usage and resident memory. Returns CSV with the columns PID,Name,CPUTime,Memory,CPUPercent. CPUTime is in clock ticks, Memory in bytes, CPUPercent is relative to one core.`),
	mcp.WithString("filter", mcp.Description("Case-insensitive substring matched against the process name. Empty returns every process.")),
	mcp.WithString("order", mcp.Description("Sort by PID, asc or desc. Defaults to the order currently shown in the monitor.")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of rows to return. 0 means no limit.")),
)

var KillProcessTool = mcp.NewTool(
	"kill_process",
	mcp.WithDescription(`Forcibly terminate a process with SIGKILL. Use only when the user explicitly asks to kill a specific process.`),
	mcp.WithNumber("pid", mcp.Description("PID of the process to kill."), mcp.Required()),
)

type ListProcessesRequest struct {
	Filter string `json:"filter"`
	Order  string `json:"order"`
	Limit  int    `json:"limit"`
}

type KillProcessRequest struct {
	PID uint32 `json:"pid"`
}

// handleListProcesses 在副本上过滤排序，不修改共享的过滤条件
func (s *Service) handleListProcesses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req ListProcessesRequest
	if err := request.BindArguments(&req); err != nil {
		log.Error().Err(err).Interface("request", request.GetRawArguments()).Msg("Failed to bind arguments")
		return errors.ErrMCPTool(err), nil
	}

	var (
		all   []proc.Record
		order state.Order
	)
	if err := s.store.View(func(st *state.State) {
		all = st.All()
		order = st.Order()
	}); err != nil {
		return errors.ErrMCPTool(errors.StatePoisoned(err)), nil
	}
	if req.Order != "" {
		order = state.ParseOrder(req.Order)
	}

	list := state.Project(all, req.Filter, order)
	if req.Limit > 0 && len(list) > req.Limit {
		list = list[:req.Limit]
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"PID", "Name", "CPUTime", "Memory", "CPUPercent"})
	for _, r := range list {
		_ = w.Write([]string{
			strconv.FormatUint(uint64(r.PID), 10),
			r.Name,
			strconv.FormatUint(r.CPUTicks, 10),
			strconv.FormatUint(r.MemoryBytes, 10),
			strconv.FormatFloat(r.CPUPercent, 'f', 2, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.ErrMCPTool(err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: buf.String(),
			},
		},
	}, nil
}

func (s *Service) handleKillProcess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req KillProcessRequest
	if err := request.BindArguments(&req); err != nil {
		log.Error().Err(err).Interface("request", request.GetRawArguments()).Msg("Failed to bind arguments")
		return errors.ErrMCPTool(err), nil
	}

	if err := s.terminator.Kill(req.PID); err != nil {
		log.Err(err).Uint32("pid", req.PID).Msg("kill process failed")
		return errors.ErrMCPTool(err), nil
	}
	log.Info().Uint32("pid", req.PID).Msg("process killed")
	if s.refresher != nil {
		s.refresher.Trigger()
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: fmt.Sprintf("killed process %d", req.PID),
			},
		},
	}, nil
}
