package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	g := gin.New()
	h := NewHealthHandler()
	h.Register(g)

	for _, p := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		require.Equal(t, http.StatusOK, w.Code, p)
		require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	}

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestReadyReportsFailingDependency(t *testing.T) {
	g := gin.New()
	h := NewHealthHandler()
	h.AddCheck("storage", func(ctx context.Context) error { return nil })
	h.AddCheck("redis", func(ctx context.Context) error { return errors.New("connection refused") })
	h.Register(g)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Status string            `json:"status"`
		Deps   map[string]string `json:"deps"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "not_ready", body.Status)
	require.Equal(t, "ok", body.Deps["storage"])
	require.Equal(t, "connection refused", body.Deps["redis"])
}
