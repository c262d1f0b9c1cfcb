package httpapi

import "github.com/gin-gonic/gin"

// MountOptions controls which optional routes are exposed.
type MountOptions struct {
	// WriteGuard, when set, protects session writes.
	WriteGuard gin.HandlerFunc
	// DevAuth exposes token issuance.
	DevAuth bool
}

// Mount registers the /v1 API on r.
func Mount(r gin.IRouter, h Handlers, opts MountOptions) {
	v1 := r.Group("/v1")

	sessions := v1.Group("/session")
	{
		write := []gin.HandlerFunc{}
		if opts.WriteGuard != nil {
			write = append(write, opts.WriteGuard)
		}
		sessions.PUT("", append(write, h.PutSession)...)
		sessions.DELETE("", h.DeleteSession)
		sessions.GET("/identity", h.Identity)
	}

	if opts.DevAuth {
		v1.POST("/auth/token", h.IssueToken)
	}

	feats := v1.Group("/features")
	{
		feats.GET("", h.ListFeatures)
		feats.GET("/:name/state", h.FeatureState)
		feats.POST("/:name/trigger", h.TriggerFeature)
		feats.POST("/:name/reset", h.ResetFeature)
	}
}
