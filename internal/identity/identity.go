// Package identity extracts the opaque user identifier from an ID token
// issued by the external identity provider. Signature verification is the
// provider's job (the remote store enforces access server-side); the client
// only needs the subject claim to address the user's document tree.
package identity

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// UserID returns the subject claim of the given ID token.
func UserID(token string) (string, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parsing identity token: %w", errors.Join(common.ErrorUnauthorized, err))
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("identity token has no subject: %w", common.ErrorUnauthorized)
	}
	return sub, nil
}
