package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Check probes one dependency; nil means healthy.
type Check func(ctx context.Context) error

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	started time.Time
	timeout time.Duration

	mu     sync.RWMutex
	checks map[string]Check
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{started: time.Now(), timeout: 2 * time.Second, checks: map[string]Check{}}
}

// AddCheck registers a readiness dependency.
func (h *HealthHandler) AddCheck(name string, c Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = c
}

func (h *HealthHandler) Register(r gin.IRouter) {
	r.GET("/health", h.Live)
	r.GET("/healthz", h.Live)
	r.GET("/ready", h.Ready)
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready runs every check and answers 503 when any fails.
func (h *HealthHandler) Ready(c *gin.Context) {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for n := range h.checks {
		names = append(names, n)
	}
	sort.Strings(names)
	checks := make([]Check, len(names))
	for i, n := range names {
		checks[i] = h.checks[n]
	}
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	ready := true
	deps := make(map[string]string, len(names))
	for i, n := range names {
		if err := checks[i](ctx); err != nil {
			deps[n] = err.Error()
			ready = false
			continue
		}
		deps[n] = "ok"
	}

	body := gin.H{"deps": deps, "uptime": time.Since(h.started).Round(time.Second).String()}
	if !ready {
		body["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "ready"
	c.JSON(http.StatusOK, body)
}
