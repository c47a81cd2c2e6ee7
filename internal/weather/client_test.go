package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(ClientOptions{APIKey: "test-key", BaseURL: url})
}

func TestClientCurrent(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q":     q.Get("q"),
			"appid": q.Get("appid"),
			"units": q.Get("units"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	rep, err := newTestClient(srv.URL).Current(context.Background(), "London", UnitFahrenheit)
	require.NoError(t, err)

	assert.Equal(t, "London", rep.City)
	assert.Equal(t, UnitFahrenheit, rep.Unit)
	assert.Equal(t, map[string]string{
		"q":     "London",
		"appid": "test-key",
		"units": "imperial",
	}, gotQuery)
}

func TestClientCityNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Current(context.Background(), "Atlantis", UnitCentigrade)
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestClientProviderStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Current(context.Background(), "London", UnitCentigrade)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "quota exceeded")
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(srv.URL).Current(context.Background(), "London", UnitCentigrade)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contacting weather provider")
}

func TestClientMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Current(context.Background(), "London", UnitCentigrade)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed JSON")
}

func TestClientProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "London", r.URL.Query().Get("q"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	code, err := newTestClient(srv.URL).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, code)
}
