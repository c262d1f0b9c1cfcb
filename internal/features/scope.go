package features

import (
	"context"

	"society-platform/internal/auth"
	"society-platform/internal/claims"
	"society-platform/internal/session"
)

// ScopeFromSession builds a ScopeFunc. Identifiers placed on the request
// context by the auth middleware win; otherwise the stored token is read and
// decoded. A missing or undecodable token yields an empty Scope.
func ScopeFromSession(src *session.TokenSource, ex *claims.Extractor) ScopeFunc {
	return func(ctx context.Context) Scope {
		if id := auth.ScopeFrom(ctx); id != (claims.Identity{}) {
			return scopeOf(id)
		}
		tok := src.Token(ctx)
		if tok == "" {
			return Scope{}
		}
		return scopeOf(ex.Identity(tok))
	}
}

func scopeOf(id claims.Identity) Scope {
	return Scope{UserID: id.UserID, SocietyID: id.SocietyID, BuildingID: id.BuildingID}
}
