package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var parseToolDef = mcp.NewTool("scan_parse",
	mcp.WithDescription("Parse a scanned payload into a part/order identifier pair without recording it. Tries JSON, pipe-delimited, then alternate delimiters; unparseable text becomes the part number."),
	mcp.WithString("raw_text",
		mcp.Required(),
		mcp.Description("The raw scanned text to parse."),
	),
)

var resolveToolDef = mcp.NewTool("scan_resolve",
	mcp.WithDescription("Resolve a scanned payload: parse it, set the current identifier pair and append a record to the scan history."),
	mcp.WithString("raw_text",
		mcp.Required(),
		mcp.Description("The raw scanned text to resolve."),
	),
)

var setManualToolDef = mcp.NewTool("scan_set_manual",
	mcp.WithDescription("Set the current identifier pair from manually entered values. Manual entry is not recorded in the scan history."),
	mcp.WithString("part_number",
		mcp.Description("The part number to set. May be empty."),
	),
	mcp.WithString("order_number",
		mcp.Description("The order number to set. May be empty."),
	),
)

var historyListToolDef = mcp.NewTool("history_list",
	mcp.WithDescription("List recent scan history records, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of records to return. Defaults to the full retained history."),
	),
)

var historyLatestToolDef = mcp.NewTool("history_latest",
	mcp.WithDescription("Return the most recent scan history record."),
)

var historyUseToolDef = mcp.NewTool("history_use",
	mcp.WithDescription("Load a scan history record back into the current identifier pair without creating a new record."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("The record id to load."),
	),
)

var historyClearToolDef = mcp.NewTool("history_clear",
	mcp.WithDescription("Clear the entire scan history."),
)

var queryToolDef = mcp.NewTool("order_query",
	mcp.WithDescription("Query the production-order backend with the current identifier pair. Optionally set the pair first from the given arguments."),
	mcp.WithString("part_number",
		mcp.Description("Part number to query. When given, replaces the current pair."),
	),
	mcp.WithString("order_number",
		mcp.Description("Order number to query. When given, replaces the current pair."),
	),
)

var sessionStatusToolDef = mcp.NewTool("session_status",
	mcp.WithDescription("Report the capture session state, the bound camera device and the current identifier pair."),
)
