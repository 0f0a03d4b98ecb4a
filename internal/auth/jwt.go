package auth

import (
	"time"

	"tradeportal-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	UserID      uint               `json:"user_id"`
	Email       string             `json:"email"`
	Role        models.ContactRole `json:"role,omitempty"`
	ContactID   *uint              `json:"contact_id,omitempty"`
	IsStaff     bool               `json:"is_staff,omitempty"`
	IsSuperuser bool               `json:"is_superuser,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken issues a 24h HS256 token. contact is nil for pure admin
// accounts, which have no business identity.
func GenerateToken(secret string, user *models.User, contact *models.Contact) (string, error) {
	claims := &JWTCustomClaims{
		UserID:      user.ID,
		Email:       user.Email,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if contact != nil {
		claims.Role = contact.Role
		claims.ContactID = &contact.ID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
