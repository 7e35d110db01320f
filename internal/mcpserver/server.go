// Package mcpserver exposes the chat tools over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/comigor/coach-go/internal/logger"
	"github.com/comigor/coach-go/pkg/tools"
)

// New builds an MCP server with every tool of m registered.
func New(m *tools.ToolManager, version string) *server.MCPServer {
	s := server.NewMCPServer("coach", version, server.WithToolCapabilities(false))
	for _, t := range m.List() {
		s.AddTool(toMCPTool(t), handlerFor(t))
		logger.L.Debug("Registered tool for MCP", "tool", t.Name())
	}
	return s
}

// ServeStdio blocks serving s on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func toMCPTool(t tools.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description())}
	for _, p := range t.Params() {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		opts = append(opts, mcp.WithString(p.Name, propOpts...))
	}
	return mcp.NewTool(t.Name(), opts...)
}

// handlerFor adapts a tool. Tool failures become error results so the
// client sees them as tool output rather than protocol errors.
func handlerFor(t tools.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := []byte("{}")
		if req.Params.Arguments != nil {
			b, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return nil, err
			}
			args = b
		}

		out, err := t.Run(ctx, string(args))
		if err != nil {
			logger.L.Warn("MCP tool failed", "tool", t.Name(), "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}
