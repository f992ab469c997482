package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookmarket/internal/authtoken"
)

// Claims carried by the access token handed out on login and signup.
type Claims = authtoken.Claims

// GenerateToken signs an HS256 token for the given profile.
func GenerateToken(secret string, p Profile, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Sub:   p.ID,
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies a token and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	return authtoken.ParseToken(secret, tokenString)
}
