package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/example/partscan/internal/engine"
	"github.com/example/partscan/internal/errors"
	"github.com/example/partscan/internal/identifier"
	"github.com/example/partscan/internal/session"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	engine *engine.Engine
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(eng *engine.Engine) *Handlers {
	return &Handlers{engine: eng}
}

// Request types for each tool

// ParseRequest represents the arguments for scan_parse and scan_resolve.
type ParseRequest struct {
	RawText string `json:"raw_text"`
}

// SetManualRequest represents the arguments for scan_set_manual.
type SetManualRequest struct {
	PartNumber  string `json:"part_number,omitempty"`
	OrderNumber string `json:"order_number,omitempty"`
}

// HistoryListRequest represents the arguments for history_list.
type HistoryListRequest struct {
	Limit int `json:"limit,omitempty"`
}

// HistoryUseRequest represents the arguments for history_use.
type HistoryUseRequest struct {
	ID string `json:"id"`
}

// QueryRequest represents the arguments for order_query.
type QueryRequest struct {
	PartNumber  string `json:"part_number,omitempty"`
	OrderNumber string `json:"order_number,omitempty"`
}

// Handler implementations

// HandleParse handles the scan_parse tool call.
func (h *Handlers) HandleParse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[ParseRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	c := identifier.Parse(input.RawText)
	return successResult(map[string]any{
		"part_number":  c.PartNumber,
		"order_number": c.OrderNumber,
	})
}

// HandleResolve handles the scan_resolve tool call.
func (h *Handlers) HandleResolve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[ParseRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	rec := h.engine.HandleDecode(input.RawText)
	return successResult(map[string]any{
		"record": rec,
		"current": map[string]any{
			"part_number":  rec.PartNumber,
			"order_number": rec.OrderNumber,
		},
	})
}

// HandleSetManual handles the scan_set_manual tool call.
func (h *Handlers) HandleSetManual(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[SetManualRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.engine.SetManual(input.PartNumber, input.OrderNumber)
	c := h.engine.Current()
	return successResult(map[string]any{
		"part_number":  c.PartNumber,
		"order_number": c.OrderNumber,
	})
}

// HandleHistoryList handles the history_list tool call.
func (h *Handlers) HandleHistoryList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[HistoryListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Limit < 0 {
		return errorResult(errors.NewInvalidRequest("limit must not be negative")), nil
	}

	limit := input.Limit
	if limit == 0 {
		limit = int(^uint(0) >> 1)
	}
	records := h.engine.Recent(limit)
	return successResult(map[string]any{
		"records": records,
		"count":   len(records),
	})
}

// HandleHistoryLatest handles the history_latest tool call.
func (h *Handlers) HandleHistoryLatest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records := h.engine.Recent(1)
	if len(records) == 0 {
		return errorResult(errors.NewNotFound("latest")), nil
	}
	return successResult(map[string]any{"record": records[0]})
}

// HandleHistoryUse handles the history_use tool call.
func (h *Handlers) HandleHistoryUse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[HistoryUseRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	if err := h.engine.UseRecord(input.ID); err != nil {
		return errorResult(err), nil
	}
	c := h.engine.Current()
	return successResult(map[string]any{
		"part_number":  c.PartNumber,
		"order_number": c.OrderNumber,
	})
}

// HandleHistoryClear handles the history_clear tool call.
func (h *Handlers) HandleHistoryClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.engine.ClearHistory(); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"cleared": true})
}

// HandleQuery handles the order_query tool call.
func (h *Handlers) HandleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[QueryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if input.PartNumber != "" || input.OrderNumber != "" {
		h.engine.SetManual(input.PartNumber, input.OrderNumber)
	}

	res, err := h.engine.Query(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"result": res})
}

// HandleSessionStatus handles the session_status tool call.
func (h *Handlers) HandleSessionStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, deviceID := h.engine.SessionStatus()
	c := h.engine.Current()
	return successResult(map[string]any{
		"status":    string(status),
		"device_id": deviceID,
		"scanning":  status == session.StatusScanning,
		"current": map[string]any{
			"part_number":  c.PartNumber,
			"order_number": c.OrderNumber,
		},
	})
}

// errorResult converts an error into an MCP error result.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.ScanError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or backend errors
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult wraps data in a JSON tool result.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
