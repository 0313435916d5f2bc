package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/health"
)

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	t.Run("all healthy", func(t *testing.T) {
		t.Parallel()

		h := health.ReadinessHandler(health.Checks{
			"app": func(context.Context) error { return nil },
		})
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("failing check as json", func(t *testing.T) {
		t.Parallel()

		h := health.ReadinessHandler(health.Checks{
			"app":   func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/health/ready?format=json", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp health.Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, health.StatusUnhealthy, resp.Status)
		assert.Equal(t, health.StatusHealthy, resp.Checks["app"].Status)
		assert.Contains(t, resp.Checks["redis"].Error, "connection refused")
	})
}

func TestRun_Timeout(t *testing.T) {
	t.Parallel()

	resp := health.Run(context.Background(), health.Checks{
		"slow": func(ctx context.Context) error {
			time.Sleep(200 * time.Millisecond)
			return nil
		},
	}, health.WithTimeout(10*time.Millisecond))

	assert.Equal(t, health.StatusUnhealthy, resp.Status)
	assert.Equal(t, health.ErrCheckTimeout.Error(), resp.Checks["slow"].Error)
}

func TestRun_NoChecks(t *testing.T) {
	t.Parallel()

	resp := health.Run(context.Background(), nil)
	assert.Equal(t, health.StatusHealthy, resp.Status)
	assert.Nil(t, resp.Checks)
}
