package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"github.com/subtrackhq/subtrack/pkg/response"
)

const (
	identityKey = "identity"
	userIDKey   = "user_id"
)

// Identity is the caller as asserted by the identity provider's token. The
// subject is trusted as the profile id without further verification.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

type identityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.StandardClaims
}

// AuthMiddleware verifies the Authorization bearer token (HS256, shared
// secret with the identity provider) and attaches the caller identity to
// the gin and request contexts. Requests without a valid token are
// rejected with an unauthorized envelope.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}

		claims := &identityClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid token"))
			return
		}

		ident := &Identity{UserID: claims.Subject, Email: claims.Email, Name: claims.Name}
		c.Set(identityKey, ident)
		c.Set(userIDKey, ident.UserID)

		// mirror into the request context so logctx enrichment picks it up
		ctx := context.WithValue(c.Request.Context(), userIDKey, ident.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// CallerIdentity returns the identity attached by AuthMiddleware, or nil.
func CallerIdentity(c *gin.Context) *Identity {
	if v, ok := c.Get(identityKey); ok {
		if ident, ok := v.(*Identity); ok {
			return ident
		}
	}
	return nil
}
