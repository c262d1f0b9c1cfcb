package main

import (
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"society-platform/internal/auth"
	"society-platform/internal/config"
	"society-platform/internal/httpapi"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, cfg config.Config, h httpapi.Handlers, gatherer prometheus.Gatherer) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	if !cfg.IsProduction() {
		pprof.Register(r)
	}

	opts := httpapi.MountOptions{DevAuth: !cfg.IsProduction() && h.Auth != nil}
	if h.Auth != nil {
		opts.WriteGuard = auth.RequireVerified(h.Auth)
	}
	httpapi.Mount(r, h, opts)
}
