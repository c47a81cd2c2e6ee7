package weather

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/weathermcp/weather-mcp/internal/cache"
)

// Provider fetches a current-conditions report from the upstream API.
type Provider interface {
	Current(ctx context.Context, city string, unit Unit) (*Report, error)
}

// Service is the cache-fronted entry point the transport layers call.
// It validates requests, derives the cache key and hands the provider call
// to the cache as a loader; eviction, expiry and request coalescing are the
// cache's business.
type Service struct {
	provider Provider
	cache    *cache.Cache[*Report]
}

func NewService(p Provider, c *cache.Cache[*Report]) *Service {
	return &Service{provider: p, cache: c}
}

// Get returns the report for city in unit, served from cache when fresh.
// Provider failures are returned as-is and never cached.
func (s *Service) Get(ctx context.Context, city string, unit Unit) (*Report, error) {
	trimmed := strings.TrimSpace(city)
	if trimmed == "" {
		return nil, ErrEmptyCity
	}
	if utf8.RuneCountInString(trimmed) > MaxCityLen {
		return nil, ErrCityTooLong
	}

	return s.cache.GetOrLoad(ctx, Key(trimmed, unit), func(ctx context.Context) (*Report, error) {
		return s.provider.Current(ctx, trimmed, unit)
	})
}

// Stats exposes cache statistics for health reporting.
func (s *Service) Stats() cache.Stats {
	return s.cache.Stats()
}
