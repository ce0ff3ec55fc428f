package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"eventro/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Context keys for the authenticated user
const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// JWTConfig holds configuration for verifying access tokens of the auth provider
type JWTConfig struct {
	Secret string
	// Issuer and Audience are checked only when set
	Issuer   string
	Audience string
}

// Claims of an access token. Subject is the profile id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ParseToken verifies an HMAC-signed token and returns its claims
func ParseToken(cfg JWTConfig, tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, errors.New("token subject is not a user id")
	}
	return claims, nil
}

// IssueToken signs an HS256 token for userID. The API never issues tokens to
// clients; it is used by the smoke validator and local tooling.
func IssueToken(cfg JWTConfig, userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

// JWTAuth пропускает только запросы с валидным Bearer токеном
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) || len(authHeader) == len(bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := ParseToken(cfg, authHeader[len(bearerPrefix):])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token has expired"})
				return
			}
			logger.WithContext(c.Request.Context()).Debug("Rejected access token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid access token"})
			return
		}

		c.Set(ContextKeyUserID, claims.Subject)
		c.Set(ContextKeyEmail, claims.Email)

		ctx := logger.ContextWithUserID(c.Request.Context(), claims.Subject)
		c.Request = c.Request.WithContext(context.WithValue(ctx, userIDKey, claims.Subject))

		c.Next()
	}
}

// GetUserID extracts user ID from gin context
func GetUserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextKeyUserID)
	return id, id != ""
}

// GetEmail extracts email from gin context
func GetEmail(c *gin.Context) (string, bool) {
	email := c.GetString(ContextKeyEmail)
	return email, email != ""
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// ContextWithUserID is used by tests and background jobs acting on behalf of a user
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(logger.ContextWithUserID(ctx, userID), userIDKey, userID)
}
