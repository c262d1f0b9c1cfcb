package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"society-platform/internal/claims"
	"society-platform/internal/config"
)

// DefaultTTL applies when the configured TTL is not positive.
const DefaultTTL = 12 * time.Hour

var (
	ErrNoSecret      = errors.New("auth: JWT_SECRET is required")
	ErrMissingUserID = errors.New("auth: user id missing")
)

// Manager issues and verifies HS256 session tokens. It is the verified
// counterpart of the advisory claims extractor, which never checks signatures.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrNoSecret
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      ttl,
	}, nil
}

/* ===================== ISSUE TOKEN ===================== */

// Issue signs a token carrying id.
func (m *Manager) Issue(now time.Time, id claims.Identity) (string, error) {
	if id.UserID == "" {
		return "", ErrMissingUserID
	}

	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   id.UserID,
			Audience:  audienceOrNil(m.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
		UserID:     id.UserID,
		SocietyID:  id.SocietyID,
		BuildingID: id.BuildingID,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString(m.secret)
}

/* ===================== VERIFY TOKEN ===================== */

// Verify checks the signature and registered claims of tokenString as of now.
func (m *Manager) Verify(tokenString string, now time.Time) (Claims, error) {
	var c Claims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	if c.UserID == "" {
		return Claims{}, ErrMissingUserID
	}
	return c, nil
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
