package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("admin-1", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "admin-1", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, jwtIssuer, claims.Issuer)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, err := ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestValidateToken_Tampered(t *testing.T) {
	token, err := GenerateToken("admin-1", "alice")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	require.Error(t, err)
}
