package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/weathermcp/weather-mcp/internal/weather"
)

// CacheStatsHandler returns the MCP tool handler for the "cache-stats" tool.
// start is the process start time, used for uptime reporting.
func CacheStatsHandler(svc *weather.Service, start time.Time) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		st := svc.Stats()
		text := fmt.Sprintf(
			"uptime: %ds\ncapacity: %d\nttl: %ds\nentries: %d\nhits: %d\nmisses: %d\nevictions: %d",
			int64(time.Since(start)/time.Second),
			st.Capacity, st.TTLSeconds, st.Entries, st.Hits, st.Misses, st.Evictions,
		)
		return mcp.NewToolResultText(text), nil
	}
}
