package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		deps       map[string]Pinger
		wantStatus int
		wantBody   string
	}{
		{
			name:       "all connected",
			deps:       map[string]Pinger{"database": stubPinger{}, "redis": stubPinger{}},
			wantStatus: http.StatusOK,
			wantBody:   "ready",
		},
		{
			name:       "redis down",
			deps:       map[string]Pinger{"database": stubPinger{}, "redis": stubPinger{err: errors.New("refused")}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "not_ready",
		},
		{
			name:       "no dependencies",
			wantStatus: http.StatusOK,
			wantBody:   "ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("ecommerce-cms", tt.deps)
			router := newRouter()
			router.GET("/health", h.Health)
			router.GET("/ready", h.Ready)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, w.Code)

			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body["status"])
			assert.NotContains(t, w.Body.String(), "refused")
		})
	}
}

func TestStatsHandler(t *testing.T) {
	h := NewStatsHandler(&mockStatsService{}, nil)
	router := newRouter()
	router.GET("/admin/stats", h.Dashboard)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"totalUsers":7`)

	h = NewStatsHandler(&mockStatsService{err: errors.New("aggregate failed")}, nil)
	router = newRouter()
	router.GET("/admin/stats", h.Dashboard)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "aggregate failed")
}
