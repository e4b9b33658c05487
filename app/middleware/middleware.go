package appMiddleware

import (
	"os"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserIDKey contextKey = "userID"
const UserRoleKey contextKey = "userRole"

// Claims carried by access tokens issued at login.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JwtSecretKey and JwtRefreshSecretKey sign access and refresh tokens.
// Loaded from the environment; the fallbacks exist for local development only.
var JwtSecretKey = secretFromEnv("JWT_SECRET_KEY", "dev-only-access-secret")
var JwtRefreshSecretKey = secretFromEnv("JWT_REFRESH_SECRET_KEY", "dev-only-refresh-secret")

func secretFromEnv(key, fallback string) []byte {
	if v := os.Getenv(key); v != "" {
		return []byte(v)
	}
	return []byte(fallback)
}
