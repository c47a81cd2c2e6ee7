package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/weathermcp/weather-mcp/internal/weather"
)

// GetWeatherHandler returns the MCP tool handler for the "get-weather" tool.
func GetWeatherHandler(svc *weather.Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		city, err := req.RequireString("city")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		unit, err := weather.ParseUnit(req.GetString("unit", string(weather.UnitCentigrade)))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		rep, err := svc.Get(ctx, city, unit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatReport(rep)), nil
	}
}

// degreeSuffix labels temperatures per unit in the text rendering.
var degreeSuffix = map[weather.Unit]string{
	weather.UnitCentigrade: "°C",
	weather.UnitFahrenheit: "°F",
	weather.UnitKelvin:     "K",
}

func formatReport(rep *weather.Report) string {
	deg := degreeSuffix[rep.Unit]

	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(rep.City)
	if rep.Country != "" {
		sb.WriteString(", ")
		sb.WriteString(rep.Country)
	}
	sb.WriteString("\n\n")

	if rep.Weather.Main != "" {
		sb.WriteString(fmt.Sprintf("Conditions: %s (%s)\n", rep.Weather.Main, rep.Weather.Description))
	}
	sb.WriteString(fmt.Sprintf("Temperature: %.1f%s (feels like %.1f%s)\n", rep.Main.Temp, deg, rep.Main.FeelsLike, deg))
	sb.WriteString(fmt.Sprintf("Range: %.1f%s to %.1f%s\n", rep.Main.TempMin, deg, rep.Main.TempMax, deg))
	sb.WriteString(fmt.Sprintf("Humidity: %d%%\n", rep.Main.Humidity))
	sb.WriteString(fmt.Sprintf("Pressure: %d hPa\n", rep.Main.Pressure))
	if rep.Wind != nil {
		sb.WriteString(fmt.Sprintf("Wind: %.1f m/s", rep.Wind.Speed))
		if rep.Wind.Deg != nil {
			sb.WriteString(fmt.Sprintf(" from %d°", *rep.Wind.Deg))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
