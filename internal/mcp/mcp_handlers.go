package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/core/algo"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/internal/outwriter"
	"github.com/huangsam/mades/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// completionGrace is added to the completion delay when waiting for a task to reach history.
const completionGrace = 5 * time.Second

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	planner *core.Planner
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// fieldsFrom reads dimension values from the request, falling back to the configured defaults.
func fieldsFrom(request mcp.CallToolRequest, defaults schema.DimensionValues) schema.TaskFields {
	return schema.TaskFields{
		Title:       request.GetString("title", ""),
		Description: request.GetString("description", ""),
		M:           request.GetFloat("m", defaults.M),
		A:           request.GetFloat("a", defaults.A),
		D:           request.GetFloat("d", defaults.D),
		E:           request.GetFloat("e", defaults.E),
	}
}

func (h *toolHandler) handleListQueue(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sortBy := schema.SortOption(request.GetString("sort", string(schema.SortByScore)))
	if _, ok := schema.ValidSortOptions[sortBy]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid sort option: %s", sortBy)), nil
	}

	queue := h.planner.QueueBy(sortBy)
	if l := request.GetInt("limit", 0); l > 0 {
		queue = algo.Limit(queue, l)
	}
	return jsonResult(outwriter.BuildQueueRows(queue, h.planner.Settings(), h.planner.IsCompleting))
}

func (h *toolHandler) handleListHistory(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups := h.planner.HistoryGroups(time.Now())
	if groups == nil {
		groups = []schema.HistoryGroup{}
	}
	return jsonResult(groups)
}

func (h *toolHandler) handleAddTask(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fields := fieldsFrom(request, h.planner.Settings().DefaultValues)
	task, err := h.planner.Add(fields)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add failed: %v", err)), nil
	}
	return jsonResult(outwriter.BuildQueueRows([]schema.Task{task}, h.planner.Settings(), nil)[0])
}

func (h *toolHandler) handleCompleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	done, err := h.planner.Complete(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("complete failed: %v", err)), nil
	}

	timer := time.NewTimer(h.baseCfg.CompletionDelay + completionGrace)
	defer timer.Stop()
	select {
	case <-done:
	case <-ctx.Done():
		return mcp.NewToolResultError(fmt.Sprintf("complete interrupted: %v", ctx.Err())), nil
	case <-timer.C:
		return mcp.NewToolResultError("complete timed out"), nil
	}

	task, _ := h.planner.Task(id)
	return jsonResult(task)
}

func (h *toolHandler) handleScorePreview(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	settings := h.planner.Settings()
	return jsonResult(outwriter.BuildScorePreview(fieldsFrom(request, settings.DefaultValues), settings))
}

func (h *toolHandler) handleGetCriteria(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(outwriter.BuildCriteriaGuide(h.planner.Settings()))
}
