package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/crashspot/core"
	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	rs      contract.RecordStore
}

// jsonResult renders a report as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetWeekdayDistribution(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	buckets, err := core.GetWeekdayResults(core.WithSuppressHeader(ctx), h.rs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(buckets)
}

func (h *toolHandler) handleGetHourDistribution(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	buckets, err := core.GetHourResults(core.WithSuppressHeader(ctx), h.rs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(buckets)
}

func (h *toolHandler) handleGetTopDays(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if y := request.GetInt("year", 0); y != 0 {
		cfg.Year = y
	}
	if l := request.GetInt("limit", 0); l != 0 {
		cfg.ResultLimit = l
	}
	if err := cfg.ValidateReportInputs(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	days, err := core.GetTopDaysResults(core.WithSuppressHeader(ctx), cfg, h.rs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(days)
}

func (h *toolHandler) handleFindBusiestWindow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.WindowLength = request.GetInt("length", 0)
	if from := request.GetString("from", ""); from != "" {
		d, err := schema.ParseDate(from)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid from: %v", err)), nil
		}
		cfg.WindowRange.Start = d
	}
	if to := request.GetString("to", ""); to != "" {
		d, err := schema.ParseDate(to)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid to: %v", err)), nil
		}
		cfg.WindowRange.End = d
	}
	if s := request.GetString("semantics", ""); s != "" {
		cfg.Semantics = schema.WindowSemantics(strings.ToLower(s))
	}
	if err := cfg.ValidateReportInputs(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	report, err := core.GetWindowResults(core.WithSuppressHeader(ctx), cfg, h.rs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(report)
}

// compareConfig applies the optional year overrides shared by two-year comparisons.
func (h *toolHandler) compareConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if y := request.GetInt("base_year", 0); y != 0 {
		cfg.BaseYear = y
	}
	if y := request.GetInt("target_year", 0); y != 0 {
		cfg.TargetYear = y
	}
	return cfg, cfg.ValidateReportInputs()
}

func (h *toolHandler) handleCompareDayParts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.compareConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	shift, err := core.GetDayPartResults(core.WithSuppressHeader(ctx), cfg, h.rs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(shift)
}

func (h *toolHandler) handleCompareZipCodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.compareConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	counts, err := core.GetZipCodeResults(core.WithSuppressHeader(ctx), cfg, h.rs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(counts)
}

func (h *toolHandler) handleGetStoreStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.rs.GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status failed: %v", err)), nil
	}
	return jsonResult(status)
}
