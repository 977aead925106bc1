package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/authz"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/utils"
)

// resolveBearer parses and validates a bearer token, returning the principal
// it identifies. It is the single identity-resolution path for both strict
// and optional authentication.
func resolveBearer(authHeader string) (*authz.Principal, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, fmt.Errorf("authorization header format must be Bearer {token}")
	}

	jwtSecret, err := utils.GetJwtSecretBytes()
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	rawID, _ := claims["user_id"].(string)
	username, _ := claims["username"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil || username == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	return &authz.Principal{ID: userID, Username: username}, nil
}

// AuthMiddleware requires a valid bearer token and stores the principal in
// the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		p, err := resolveBearer(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
			return
		}
		c.Set("principal", p)
		c.Next()
	}
}

// OptionalAuthMiddleware is used on public read endpoints. No credential is
// fine; a credential that is supplied but invalid is still rejected, so a bad
// token is never silently ignored.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		p, err := resolveBearer(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
			return
		}
		c.Set("principal", p)
		c.Next()
	}
}

// currentPrincipal returns the authenticated principal, or nil for anonymous.
func currentPrincipal(c *gin.Context) *authz.Principal {
	v, ok := c.Get("principal")
	if !ok {
		return nil
	}
	p, _ := v.(*authz.Principal)
	return p
}

// RequestIDMiddleware ensures every request has an X-Request-ID. If absent, generate one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		ctx := context.WithValue(c.Request.Context(), requestIDKey{}, rid)
		c.Request = c.Request.WithContext(ctx)
		c.Set("requestID", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

type requestIDKey struct{}
