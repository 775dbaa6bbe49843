// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the MADE planner MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, planner *core.Planner) *server.MCPServer {
	s := server.NewMCPServer(
		"MADE Planner Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		planner: planner,
	}

	s.AddTool(mcp.NewTool("list_queue",
		mcp.WithDescription("List open tasks ranked by MADE score, highest first."),
		mcp.WithString("sort", mcp.Description("Queue ordering. Defaults to 'score'."), mcp.Enum("score", "created")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of tasks returned.")),
	), h.handleListQueue)

	s.AddTool(mcp.NewTool("list_history",
		mcp.WithDescription("List completed tasks grouped by local calendar day, most recent first."),
	), h.handleListHistory)

	s.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Create a task. Omitted dimension values use the configured defaults."),
		mcp.WithString("title", mcp.Description("Task title."), mcp.Required()),
		mcp.WithString("description", mcp.Description("Optional task description.")),
		mcp.WithNumber("m", mcp.Description("Money: revenue impact.")),
		mcp.WithNumber("a", mcp.Description("Asset: lasting value.")),
		mcp.WithNumber("d", mcp.Description("Deadline: urgency multiplier.")),
		mcp.WithNumber("e", mcp.Description("Effort: cost subtracted from the score.")),
	), h.handleAddTask)

	s.AddTool(mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a task as completed and move it to history."),
		mcp.WithString("id", mcp.Description("Task ID."), mcp.Required()),
	), h.handleCompleteTask)

	s.AddTool(mcp.NewTool("score_preview",
		mcp.WithDescription("Compute the MADE score for values without saving a task."),
		mcp.WithNumber("m", mcp.Description("Money value.")),
		mcp.WithNumber("a", mcp.Description("Asset value.")),
		mcp.WithNumber("d", mcp.Description("Deadline value.")),
		mcp.WithNumber("e", mcp.Description("Effort value.")),
	), h.handleScorePreview)

	s.AddTool(mcp.NewTool("get_criteria",
		mcp.WithDescription("Show the criteria tables, weights and valid values of every dimension."),
	), h.handleGetCriteria)

	return s
}

// StartMCPServer starts the MADE planner MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, planner *core.Planner) error {
	s := NewMCPServer(baseCfg, planner)
	return server.ServeStdio(s)
}
