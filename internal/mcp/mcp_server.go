// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the crashspot MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, rs contract.RecordStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Crashspot Report Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		rs:      rs,
	}

	// --- 1. Tool: get_weekday_distribution ---
	s.AddTool(mcp.NewTool("get_weekday_distribution",
		mcp.WithDescription("Count cleaned crash records per day of week, busiest day first."),
	), h.handleGetWeekdayDistribution)

	// --- 2. Tool: get_hour_distribution ---
	s.AddTool(mcp.NewTool("get_hour_distribution",
		mcp.WithDescription("Count cleaned crash records per hour of day (00-23)."),
	), h.handleGetHourDistribution)

	// --- 3. Tool: get_top_days ---
	s.AddTool(mcp.NewTool("get_top_days",
		mcp.WithDescription("List the days with the most crashes in a year, in chronological order."),
		mcp.WithNumber("year", mcp.Description("Calendar year to rank (defaults to the configured year).")),
		mcp.WithNumber("limit", mcp.Description("Number of days to return.")),
	), h.handleGetTopDays)

	// --- 4. Tool: find_busiest_window ---
	s.AddTool(mcp.NewTool("find_busiest_window",
		mcp.WithDescription("Find the contiguous window of days with the most crashes within a date range."),
		mcp.WithNumber("length", mcp.Description("Window length in series entries."), mcp.Required()),
		mcp.WithString("from", mcp.Description("First date of the search range (YYYY-MM-DD).")),
		mcp.WithString("to", mcp.Description("Last date of the search range (YYYY-MM-DD).")),
		mcp.WithString("semantics", mcp.Description("Whether an entry is a calendar day or a date with crashes. Defaults to 'calendar'."),
			mcp.Enum(string(schema.CalendarSemantics), string(schema.EntrySemantics))),
	), h.handleFindBusiestWindow)

	// --- 5. Tool: compare_day_parts ---
	s.AddTool(mcp.NewTool("compare_day_parts",
		mcp.WithDescription("Compare the share of crashes per time of day (Night, Morning, Afternoon, Evening) between two years."),
		mcp.WithNumber("base_year", mcp.Description("The year compared from.")),
		mcp.WithNumber("target_year", mcp.Description("The year compared to.")),
	), h.handleCompareDayParts)

	// --- 6. Tool: compare_zip_codes ---
	s.AddTool(mcp.NewTool("compare_zip_codes",
		mcp.WithDescription("Compare crash counts per zip code between two years."),
		mcp.WithNumber("base_year", mcp.Description("The year compared from.")),
		mcp.WithNumber("target_year", mcp.Description("The year compared to.")),
	), h.handleCompareZipCodes)

	// --- 7. Tool: get_store_status ---
	s.AddTool(mcp.NewTool("get_store_status",
		mcp.WithDescription("Report the record store backend, record count and date coverage."),
	), h.handleGetStoreStatus)

	return s
}

// StartMCPServer starts the crashspot MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, rs contract.RecordStore) error {
	s := NewMCPServer(baseCfg, rs)
	return server.ServeStdio(s)
}
