package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/internal/contract"
	mcp_internal "github.com/huangsam/mades/internal/mcp"
	"github.com/huangsam/mades/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*server.MCPServer, *core.Planner) {
	t.Helper()
	planner := core.NewPlanner(nil, core.DefaultSettings(), core.WithCompletionDelay(0))
	return mcp_internal.NewMCPServer(&contract.Config{}, planner), planner
}

func call(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "handlers report failures in the result, not as raw errors")
	require.NotNil(t, res)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestAddAndListQueue(t *testing.T) {
	s, planner := newServer(t)

	res := call(t, s, "add_task", map[string]any{"title": "Close the renewal", "m": 9.0, "a": 6.0, "d": 1.8, "e": 2.0})
	require.False(t, res.IsError, text(res))
	res = call(t, s, "add_task", map[string]any{"title": "Write onboarding doc"})
	require.False(t, res.IsError, text(res))
	assert.Len(t, planner.Queue(), 2)

	res = call(t, s, "list_queue", map[string]any{"limit": 1.0})
	require.False(t, res.IsError)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(res)), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Close the renewal", rows[0]["title"])
	assert.InDelta(t, 23.92, rows[0]["score"], 1e-9)
	assert.Equal(t, "High", rows[0]["label"])
}

func TestAddTaskUsesDefaults(t *testing.T) {
	s, _ := newServer(t)
	res := call(t, s, "add_task", map[string]any{"title": "Draft"})
	require.False(t, res.IsError)

	var row map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(res)), &row))
	assert.InDelta(t, 10.2, row["score"], 1e-9)
	assert.InDelta(t, 1.5, row["d"], 1e-9)
}

func TestToolErrors(t *testing.T) {
	s, _ := newServer(t)

	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		contains string
	}{
		{"empty title", "add_task", map[string]any{"title": "   "}, "add failed"},
		{"unknown task", "complete_task", map[string]any{"id": "missing"}, "complete failed"},
		{"missing id", "complete_task", map[string]any{}, "id is required"},
		{"bad sort", "list_queue", map[string]any{"sort": "title"}, "invalid sort option"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, s, tt.tool, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, text(res), tt.contains)
		})
	}
}

func TestCompleteTaskMovesToHistory(t *testing.T) {
	s, planner := newServer(t)
	task, err := planner.Add(schema.TaskFields{Title: "Send proposal", M: 5, A: 4, D: 1.5, E: 3})
	require.NoError(t, err)

	res := call(t, s, "complete_task", map[string]any{"id": task.ID})
	require.False(t, res.IsError, text(res))
	assert.Empty(t, planner.Queue())

	res = call(t, s, "list_history", nil)
	var groups []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(res)), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "Today", groups[0]["label"])
}

func TestScorePreviewAndCriteria(t *testing.T) {
	s, _ := newServer(t)

	res := call(t, s, "score_preview", map[string]any{"m": 5.0, "a": 4.0, "d": 1.5, "e": 3.0})
	var preview map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(res)), &preview))
	assert.InDelta(t, 10.2, preview["score"], 1e-9)
	assert.Equal(t, "Moderate", preview["label"])

	res = call(t, s, "get_criteria", nil)
	var guide map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(res)), &guide))
	assert.Len(t, guide["sections"], 4)
}
