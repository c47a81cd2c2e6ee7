package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/weathermcp/weather-mcp/internal/logger"
	"github.com/weathermcp/weather-mcp/internal/weather"
)

// Prober checks provider reachability for the health endpoint.
type Prober interface {
	Probe(ctx context.Context) (int, error)
}

// Server is the HTTP front of the weather service. It owns request decoding,
// status mapping and response shaping; all caching happens behind the
// weather.Service it delegates to.
type Server struct {
	svc     *weather.Service
	prober  Prober
	version string
	start   time.Time
}

func New(svc *weather.Service, prober Prober, version string) *Server {
	return &Server{svc: svc, prober: prober, version: version, start: time.Now()}
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /weather", s.handleWeather)
	mux.HandleFunc("GET /health", s.handleHealth)
	return withCORS(mux)
}

type weatherRequest struct {
	City string `json:"city"`
	Unit string `json:"unit"`
}

type healthResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Version       string         `json:"version"`
	Cache         any            `json:"cache"`
	ExternalAPI   map[string]any `json:"external_api,omitempty"`
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	var req weatherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	unit, err := weather.ParseUnit(req.Unit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := s.svc.Get(r.Context(), req.City, unit)
	if err != nil {
		status, detail := statusForError(err)
		if status >= 500 {
			logger.Warnf("weather request for %q failed: %v", req.City, err)
		}
		writeError(w, status, detail)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.start) / time.Second),
		Version:       s.version,
		Cache:         s.svc.Stats(),
	}

	if r.URL.Query().Get("check_external") == "true" && s.prober != nil {
		if code, err := s.prober.Probe(r.Context()); err != nil {
			resp.ExternalAPI = map[string]any{"error": err.Error()}
		} else {
			resp.ExternalAPI = map[string]any{"status_code": code}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// statusForError maps service errors onto transport status codes:
// validation failures are the caller's fault, an unknown city is 404, a
// provider status failure is a bad gateway and an unreachable provider is 503.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, weather.ErrEmptyCity), errors.Is(err, weather.ErrCityTooLong):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, weather.ErrCityNotFound):
		return http.StatusNotFound, "City not found"
	}

	var statusErr *weather.StatusError
	if errors.As(err, &statusErr) {
		return http.StatusBadGateway, err.Error()
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return http.StatusServiceUnavailable, "Error contacting weather service: " + err.Error()
	}
	return http.StatusBadGateway, err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// withCORS applies a permissive CORS policy and answers preflight requests.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
