package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"society-platform/internal/audit"
	"society-platform/internal/auth"
	"society-platform/internal/claims"
	"society-platform/internal/features"
	"society-platform/internal/remote"
	"society-platform/internal/session"
	"society-platform/pkg/logger"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
// Auth is nil unless JWT_SECRET is configured; Audit is optional.
type Handlers struct {
	Auth      *auth.Manager
	Store     session.Store
	Tokens    *session.TokenSource
	Extractor *claims.Extractor
	Features  *features.Registry
	Audit     *audit.Service
}

// --- Session ---

type putSessionRequest struct {
	Token string `json:"token"`
}

// PutSession stores the session token as sent by the client.
func (h Handlers) PutSession(c *gin.Context) {
	var req putSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := h.Store.Set(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, session.ErrEmptyToken) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}
		logger.FromGin(c).Error("session store failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session store failed"})
		return
	}
	if h.Audit != nil {
		id := h.Extractor.Identity(claims.UnwrapStored(req.Token))
		if verified, ok := auth.VerifiedFrom(c.Request.Context()); ok {
			id = verified.Identity()
		}
		if err := h.Audit.LogSessionStored(c.Request.Context(), id.UserID, id.SocietyID, c.ClientIP()); err != nil {
			logger.FromGin(c).Warn("audit append failed", "err", err)
		}
	}
	c.Status(http.StatusNoContent)
}

// DeleteSession logs out: the token is removed and every feature returns to idle.
func (h Handlers) DeleteSession(c *gin.Context) {
	var id claims.Identity
	if tok := h.Tokens.Token(c.Request.Context()); tok != "" {
		id = h.Extractor.Identity(tok)
	}
	if err := h.Store.Delete(c.Request.Context()); err != nil {
		logger.FromGin(c).Error("session delete failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session delete failed"})
		return
	}
	if h.Features != nil {
		h.Features.ResetAll()
	}
	if h.Audit != nil {
		if err := h.Audit.LogSessionCleared(c.Request.Context(), id.UserID, id.SocietyID, c.ClientIP()); err != nil {
			logger.FromGin(c).Warn("audit append failed", "err", err)
		}
	}
	c.Status(http.StatusNoContent)
}

// Identity reports the advisory identifiers carried by the stored token.
func (h Handlers) Identity(c *gin.Context) {
	tok := h.Tokens.Token(c.Request.Context())
	if tok == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "no session"})
		return
	}
	c.JSON(http.StatusOK, h.Extractor.Identity(tok))
}

// --- Auth ---

type issueTokenRequest struct {
	UserID     string `json:"user_id"`
	SocietyID  string `json:"society_id"`
	BuildingID string `json:"building_id"`
}

// IssueToken mints a signed token for local testing.
//
// NOTE: no credentials are checked. Only registered outside production.
func (h Handlers) IssueToken(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusNotImplemented, gin.H{"error": "auth not configured"})
		return
	}
	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	tok, err := h.Auth.Issue(time.Now(), claims.Identity{
		UserID:     req.UserID,
		SocietyID:  req.SocietyID,
		BuildingID: req.BuildingID,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}

// --- Features ---

func (h Handlers) ListFeatures(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"features": h.Features.Names()})
}

func (h Handlers) FeatureState(c *gin.Context) {
	f, ok := h.feature(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, f.Snapshot())
}

// TriggerFeature runs the named feature with the request body as input and
// answers with its outcome.
func (h Handlers) TriggerFeature(c *gin.Context) {
	f, ok := h.feature(c)
	if !ok {
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	out, err := f.TriggerJSON(c.Request.Context(), raw)
	if err != nil {
		status, msg := errorStatus(err)
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payload": out})
}

func (h Handlers) ResetFeature(c *gin.Context) {
	f, ok := h.feature(c)
	if !ok {
		return
	}
	f.Reset()
	c.JSON(http.StatusOK, f.Snapshot())
}

func (h Handlers) feature(c *gin.Context) (features.Runner, bool) {
	f, ok := h.Features.Get(c.Param("name"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown feature"})
	}
	return f, ok
}

// errorStatus maps a trigger failure to a response status and message.
// Backend 4xx pass through; backend 5xx and transport failures become 502.
func errorStatus(err error) (int, string) {
	var reqErr *remote.RequestError
	switch {
	case errors.Is(err, features.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, remote.ErrNotConfigured):
		return http.StatusServiceUnavailable, "backend not configured"
	case remote.IsNetwork(err):
		return http.StatusBadGateway, "backend unreachable"
	case errors.As(err, &reqErr):
		msg := reqErr.Message
		if msg == "" {
			msg = http.StatusText(reqErr.Status)
		}
		if reqErr.Status >= 400 && reqErr.Status < 500 {
			return reqErr.Status, msg
		}
		return http.StatusBadGateway, msg
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
