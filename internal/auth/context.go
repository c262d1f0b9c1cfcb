package auth

import (
	"context"

	"society-platform/internal/claims"
)

type ctxKey int

const (
	ctxScope ctxKey = iota
	ctxVerified
)

// WithScope stores advisory identifiers on ctx.
func WithScope(ctx context.Context, id claims.Identity) context.Context {
	return context.WithValue(ctx, ctxScope, id)
}

// ScopeFrom returns the identifiers stored by WithScope. The zero Identity is
// returned when none were stored.
func ScopeFrom(ctx context.Context) claims.Identity {
	id, _ := ctx.Value(ctxScope).(claims.Identity)
	return id
}

// WithVerified stores claims that passed signature verification.
func WithVerified(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, ctxVerified, c)
}

// VerifiedFrom returns verified claims, if the request carried any.
func VerifiedFrom(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(ctxVerified).(Claims)
	return c, ok
}
