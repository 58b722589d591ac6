package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"gitcollab/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// UserContextKey is where RequireAuth stores the *AuthUser
	UserContextKey = "user"

	tokenIssuer = "gitcollab"
)

// AuthUser is the acting user carried by a bearer token
type AuthUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Claims are the JWT claims of a gitcollab session token
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthMiddleware issues and verifies HS256 session tokens
type AuthMiddleware struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(cfg *config.AuthConfig) (*AuthMiddleware, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthMiddleware{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// IssueToken signs a token for the user and returns it with its expiry
func (am *AuthMiddleware) IssueToken(userID, username string) (string, time.Time, error) {
	now := am.now()
	expiresAt := now.Add(am.ttl)

	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(am.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// RequireAuth is a Gin middleware that requires authentication
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header must start with 'Bearer '",
			})
			return
		}

		user, err := am.verifyToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid token",
				"details": err.Error(),
			})
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// OptionalAuth sets the user when a valid bearer token is present and lets anonymous requests through
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
			if user, err := am.verifyToken(token); err == nil {
				c.Set(UserContextKey, user)
			}
		}
		c.Next()
	}
}

func (am *AuthMiddleware) verifyToken(token string) (*AuthUser, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return am.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(am.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token")
	}

	return &AuthUser{ID: claims.Subject, Username: claims.Username}, nil
}

// CurrentUser returns the user stored by RequireAuth or OptionalAuth
func CurrentUser(c *gin.Context) (*AuthUser, bool) {
	v, ok := c.Get(UserContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*AuthUser)
	return user, ok
}
