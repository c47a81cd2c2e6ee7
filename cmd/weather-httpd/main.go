package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/weathermcp/weather-mcp/internal/cache"
	"github.com/weathermcp/weather-mcp/internal/config"
	"github.com/weathermcp/weather-mcp/internal/logger"
	"github.com/weathermcp/weather-mcp/internal/server"
	"github.com/weathermcp/weather-mcp/internal/weather"
)

func main() {
	cmd := &cli.Command{
		Name:  "weather-httpd",
		Usage: "HTTP API serving cached OpenWeather lookups",
		Flags: []cli.Flag{
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
			&cli.StringFlag{
				Name:  "addr",
				Usage: "HTTP listen address",
				Value: config.DefaultAddr,
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("WEATHER_HTTP_ADDR"),
				),
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "log destination (\"-\" for stderr)",
				Value: logger.StderrPath,
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("WEATHER_MCP_LOG"),
				),
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	settings := config.Default()
	settings.APIKey = cmd.String("api-key")
	settings.APIURL = cmd.String("api-url")
	settings.Capacity = int(cmd.Int("cache-size"))
	settings.TTL = time.Duration(cmd.Int("cache-ttl")) * time.Second
	settings.RequestsPerSecond = cmd.Float("provider-rps")
	settings.Addr = cmd.String("addr")
	settings.LogFile = cmd.String("log-file")
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := logger.Init(settings.LogFile); err != nil {
		return err
	}
	defer logger.Close()

	// Signal-aware context is the root of ownership for the listener and the
	// cache maintenance goroutine; SIGINT/SIGTERM starts a clean shutdown.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	srv := &http.Server{
		Addr:    settings.Addr,
		Handler: server.New(svc, client, config.Version).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("weather-httpd listening on %s (capacity=%d ttl=%s)", settings.Addr, settings.Capacity, settings.TTL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
