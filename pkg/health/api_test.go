package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skybook/skybook/pkg/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func TestHealthGet(t *testing.T) {
	t.Run("Healthy with reachable database", func(t *testing.T) {
		handler := health.HealthGet(stubPinger{})

		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp health.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "ok", resp.Database)
		assert.NotEmpty(t, resp.GoVersion)
	})

	t.Run("Degraded when the database is unreachable", func(t *testing.T) {
		handler := health.HealthGet(stubPinger{err: errors.New("connection refused")})

		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp health.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "unreachable", resp.Database)
	})

	t.Run("Non-GET is a 405", func(t *testing.T) {
		handler := health.HealthGet(stubPinger{})

		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodPost, "/v1/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
