package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// Claim name and value shared by token issuing and verification.
const (
	ClaimRole     = "role"
	RoleOrganizer = "organizer"
)

// GetRoleFromContext returns the role of the authenticated caller. It fails
// when the request carried no verified token.
func GetRoleFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(claimsContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("organizer claims not found in context")
	}

	roleClaim, ok := claims[ClaimRole]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", ClaimRole)
	}
	role, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", ClaimRole, roleClaim)
	}
	return role, nil
}
