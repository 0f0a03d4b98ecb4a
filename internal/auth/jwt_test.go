package auth

import (
	"testing"
	"time"

	"tradeportal-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-characters-long"

func parseClaims(t *testing.T, tokenString string) *JWTCustomClaims {
	t.Helper()
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	return claims
}

func TestGenerateTokenForContact(t *testing.T) {
	user := &models.User{ID: 12, Email: "buyer@example.com"}
	contact := &models.Contact{ID: 34, Role: models.RoleBuyer}

	tokenString, err := GenerateToken(testSecret, user, contact)
	require.NoError(t, err)

	claims := parseClaims(t, tokenString)
	assert.Equal(t, uint(12), claims.UserID)
	assert.Equal(t, "buyer@example.com", claims.Email)
	assert.Equal(t, models.RoleBuyer, claims.Role)
	require.NotNil(t, claims.ContactID)
	assert.Equal(t, uint(34), *claims.ContactID)
	assert.False(t, claims.IsStaff)

	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestGenerateTokenForAdmin(t *testing.T) {
	user := &models.User{ID: 1, Email: "admin@example.com", IsStaff: true, IsSuperuser: true}

	tokenString, err := GenerateToken(testSecret, user, nil)
	require.NoError(t, err)

	claims := parseClaims(t, tokenString)
	assert.True(t, claims.IsStaff)
	assert.True(t, claims.IsSuperuser)
	assert.Nil(t, claims.ContactID)
	assert.Empty(t, claims.Role)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	tokenString, err := GenerateToken(testSecret, &models.User{ID: 1}, nil)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenString, &JWTCustomClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("another-secret-that-is-also-32-chars!"), nil
	})
	assert.Error(t, err)
}
