package auth

import (
	"testing"

	"mutfak-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	user := &models.User{ID: 7, Email: "sef@mutfak.local", Role: models.RoleAdmin}

	tokenString, err := GenerateToken(secret, user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims := &JWTCustomClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	require.Equal(t, uint(7), claims.UserID)
	require.Equal(t, "sef@mutfak.local", claims.Email)
	require.Equal(t, models.RoleAdmin, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
}

func TestGenerateTokenRejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: 1, Email: "garson@mutfak.local", Role: models.RoleStaff}

	tokenString, err := GenerateToken("dogru-secret", user)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenString, &JWTCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("yanlis-secret"), nil
	})
	require.Error(t, err)
}
