package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"society-platform/internal/claims"
)

// Claims are the signed claims issued by Manager. Field names match the
// candidate keys the advisory extractor looks for first, so an issued token
// scopes requests the same way a backend-issued one does.
type Claims struct {
	jwt.RegisteredClaims

	UserID     string `json:"id"`
	SocietyID  string `json:"societyId,omitempty"`
	BuildingID string `json:"buildingId,omitempty"`
}

// Identity returns the identifiers carried by c.
func (c Claims) Identity() claims.Identity {
	return claims.Identity{UserID: c.UserID, SocietyID: c.SocietyID, BuildingID: c.BuildingID}
}
