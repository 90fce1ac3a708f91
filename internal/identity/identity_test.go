package identity

import (
	"testing"

	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func TestUserID_ExtractsSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-abc", "email": "a@b.c"})

	uid, err := UserID(token)
	require.NoError(t, err)
	assert.Equal(t, "user-abc", uid)
}

func TestUserID_RejectsGarbage(t *testing.T) {
	_, err := UserID("not-a-token")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestUserID_RejectsMissingSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"email": "a@b.c"})

	_, err := UserID(token)
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}
