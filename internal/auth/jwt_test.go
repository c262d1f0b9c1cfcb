package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"society-platform/internal/claims"
	"society-platform/internal/config"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{
		JWTSecret:   "secret",
		JWTIssuer:   "issuer",
		JWTAudience: "aud",
		TokenTTL:    15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func TestIssueAndVerify(t *testing.T) {
	m := testManager(t)

	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(now, claims.Identity{UserID: "u5001", SocietyID: "s123", BuildingID: "b7"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, err := m.Verify(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if c.UserID != "u5001" || c.SocietyID != "s123" || c.BuildingID != "b7" || c.Subject != "u5001" {
		t.Fatalf("unexpected claims: %+v", c)
	}
	if c.ID == "" {
		t.Fatalf("expected jti")
	}
}

func TestIssuedTokenIsReadableByExtractor(t *testing.T) {
	m := testManager(t)
	tok, err := m.Issue(time.Now(), claims.Identity{UserID: "u1", SocietyID: "s1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id := claims.NewExtractor().Identity("Bearer " + tok)
	if id != (claims.Identity{UserID: "u1", SocietyID: "s1"}) {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerifyRejects(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(now, claims.Identity{UserID: "u1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other, _ := NewManager(config.AuthConfig{JWTSecret: "other", JWTIssuer: "issuer", JWTAudience: "aud"})
	wrongAud, _ := NewManager(config.AuthConfig{JWTSecret: "secret", JWTIssuer: "issuer", JWTAudience: "elsewhere"})

	tests := []struct {
		name string
		m    *Manager
		tok  string
		at   time.Time
		want error
	}{
		{"expired", m, tok, now.Add(time.Hour), jwt.ErrTokenExpired},
		{"wrong secret", other, tok, now, jwt.ErrTokenSignatureInvalid},
		{"wrong audience", wrongAud, tok, now, jwt.ErrTokenInvalidAudience},
		{"not a jwt", m, "abc.def", now, jwt.ErrTokenMalformed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.m.Verify(tc.tok, tc.at)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestVerifyWithinLeeway(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()
	tok, _ := m.Issue(now, claims.Identity{UserID: "u1"})
	if _, err := m.Verify(tok, now.Add(15*time.Minute+10*time.Second)); err != nil {
		t.Fatalf("expected token within leeway to verify, got %v", err)
	}
}

func TestIssueRequiresUserID(t *testing.T) {
	m := testManager(t)
	if _, err := m.Issue(time.Now(), claims.Identity{SocietyID: "s1"}); !errors.Is(err, ErrMissingUserID) {
		t.Fatalf("expected ErrMissingUserID, got %v", err)
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager(config.AuthConfig{}); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := testManager(t)
	tok, _ := m.Issue(time.Now(), claims.Identity{UserID: "u1", SocietyID: "s1"})

	var seen claims.Identity
	var verified bool
	handler := func(c *gin.Context) {
		seen = ScopeFrom(c.Request.Context())
		_, verified = VerifiedFrom(c.Request.Context())
		c.Status(http.StatusNoContent)
	}

	r := gin.New()
	r.GET("/advisory", AdvisoryScope(claims.NewExtractor()), handler)
	r.GET("/verified", RequireVerified(m), handler)

	tests := []struct {
		name         string
		path         string
		header       string
		wantCode     int
		wantScope    claims.Identity
		wantVerified bool
	}{
		{"advisory with token", "/advisory", "Bearer " + tok, http.StatusNoContent, claims.Identity{UserID: "u1", SocietyID: "s1"}, false},
		{"advisory garbage", "/advisory", "Bearer nope", http.StatusNoContent, claims.Identity{}, false},
		{"advisory without header", "/advisory", "", http.StatusNoContent, claims.Identity{}, false},
		{"verified", "/verified", "bearer " + tok, http.StatusNoContent, claims.Identity{UserID: "u1", SocietyID: "s1"}, true},
		{"verified missing", "/verified", "", http.StatusUnauthorized, claims.Identity{}, false},
		{"verified tampered", "/verified", "Bearer " + tok + "x", http.StatusUnauthorized, claims.Identity{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen, verified = claims.Identity{}, false
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, w.Code)
			}
			if seen != tc.wantScope || verified != tc.wantVerified {
				t.Fatalf("unexpected scope %+v verified=%v", seen, verified)
			}
		})
	}
}
