package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"

	"github.com/weathermcp/weather-mcp/internal/cache"
	"github.com/weathermcp/weather-mcp/internal/config"
	"github.com/weathermcp/weather-mcp/internal/logger"
	"github.com/weathermcp/weather-mcp/internal/tools"
	"github.com/weathermcp/weather-mcp/internal/weather"
)

func main() {
	cmd := &cli.Command{
		Name:  "weather-mcp",
		Usage: "MCP server exposing cached OpenWeather lookups",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "log destination (\"-\" for stderr)",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("WEATHER_MCP_LOG"),
				),
			},
		),
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commonFlags is the settings surface shared with weather-httpd. Every flag
// has an environment source so deployments can stay flag-free.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "OpenWeather API key",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("OPENWEATHER_API_KEY"),
			),
		},
		&cli.StringFlag{
			Name:  "api-url",
			Usage: "OpenWeather current-conditions endpoint",
			Value: config.DefaultAPIURL,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("OPENWEATHER_API_URL"),
			),
		},
		&cli.IntFlag{
			Name:  "cache-size",
			Usage: "maximum number of cached reports",
			Value: config.DefaultCapacity,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("CACHE_MAX_SIZE"),
			),
		},
		&cli.IntFlag{
			Name:  "cache-ttl",
			Usage: "cached report lifetime in seconds",
			Value: int(config.DefaultTTL / time.Second),
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("CACHE_TTL_SECONDS"),
			),
		},
		&cli.FloatFlag{
			Name:  "provider-rps",
			Usage: "client-side provider rate limit in requests per second (0 disables)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("OPENWEATHER_RPS"),
			),
		},
	}
}

// settingsFromFlags assembles and validates the immutable service settings.
func settingsFromFlags(cmd *cli.Command) (config.Settings, error) {
	s := config.Default()
	s.APIKey = cmd.String("api-key")
	s.APIURL = cmd.String("api-url")
	s.Capacity = int(cmd.Int("cache-size"))
	s.TTL = time.Duration(cmd.Int("cache-ttl")) * time.Second
	s.RequestsPerSecond = cmd.Float("provider-rps")
	s.LogFile = cmd.String("log-file")
	return s, s.Validate()
}

func run(ctx context.Context, cmd *cli.Command) error {
	settings, err := settingsFromFlags(cmd)
	if err != nil {
		return err
	}

	// Never log to stdout here: stdout carries the MCP stdio protocol.
	if settings.LogFile == "" {
		if err := logger.InitFromEnv(); err != nil {
			return err
		}
	} else if err := logger.Init(settings.LogFile); err != nil {
		return err
	}
	defer logger.Close()

	logger.Infof("Starting Weather MCP server")

	reports, err := cache.New[*weather.Report](cache.Config{
		Capacity:        settings.Capacity,
		TTL:             settings.TTL,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		return err
	}
	defer reports.Close()

	client := weather.NewClient(weather.ClientOptions{
		APIKey:            settings.APIKey,
		BaseURL:           settings.APIURL,
		RequestsPerSecond: settings.RequestsPerSecond,
	})
	svc := weather.NewService(client, reports)
	logger.Infof("Initialized weather service: capacity=%d ttl=%s", settings.Capacity, settings.TTL)

	s := server.NewMCPServer(
		"Weather MCP",
		config.Version,
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	toolWeather := mcp.NewTool("get-weather",
		mcp.WithDescription(multiline(
			"Returns current weather conditions for a city",
			"\nFunctionality:",
			"- Takes a city name and an optional temperature unit",
			"- Fetches current conditions from OpenWeather",
			"- Returns temperature, humidity, pressure and wind as readable text",
			"\nUsage notes:",
			"- Unit is one of centigrade, fahrenheit or kelvin (default centigrade)",
			"- Responses are cached briefly, so repeated lookups for the same city are fast",
			"- This tool is read-only and does not modify any files",
		)),
		mcp.WithString("city", mcp.Required(), mcp.Description("City name, e.g. \"London\"")),
		mcp.WithString("unit", mcp.Description("Temperature unit: centigrade, fahrenheit or kelvin")),
	)
	s.AddTool(toolWeather, tools.GetWeatherHandler(svc))
	logger.Infof("Registered get-weather tool")

	toolStats := mcp.NewTool("cache-stats",
		mcp.WithDescription(multiline(
			"Reports cache statistics and service uptime",
			"\nFunctionality:",
			"- Returns cache capacity, TTL, resident entries and hit/miss counters",
		)),
	)
	s.AddTool(toolStats, tools.CacheStatsHandler(svc, time.Now()))
	logger.Infof("Registered cache-stats tool")

	logger.Infof("Starting MCP server on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
		return err
	}
	return nil
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }
