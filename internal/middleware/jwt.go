package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"estate_hub/internal/models"
)

var secret = []byte(getJWTSecret())

func getJWTSecret() string {
	if val := os.Getenv("JWT_SECRET"); val != "" {
		return val
	}
	return "supersecret" // fallback
}

// Claims is the token payload: who the caller is and what role they hold.
type Claims struct {
	UserID uint
	Role   models.Role
}

func GenerateToken(userID uint, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses and verifies a token string, returning its claims.
func ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, ok := mapClaims["user_id"].(float64)
	if !ok {
		return nil, errors.New("token missing user_id")
	}
	role, ok := mapClaims["role"].(string)
	if !ok {
		return nil, errors.New("token missing role")
	}
	return &Claims{UserID: uint(userID), Role: models.Role(role)}, nil
}

// authenticate validates the bearer token and stores its claims in the
// context. It aborts the request and returns nil on failure.
func authenticate(c *gin.Context) *Claims {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return nil
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := ValidateToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return nil
	}

	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	return claims
}

// RequireAuth ensures a valid JWT is present and stores its claims in the
// context for downstream handlers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c) == nil {
			return
		}
		c.Next()
	}
}

// RequireAuthWithRole ensures the JWT is valid and the caller holds one of
// the given roles.
func RequireAuthWithRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := authenticate(c)
		if claims == nil {
			return
		}
		for _, allowed := range roles {
			if claims.Role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}
