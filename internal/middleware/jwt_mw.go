package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"invoice_server/internal/model"
	"invoice_server/internal/repository"
	"invoice_server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	PrincipalKey = "principal"
	AuthRoleKey  = "authRole"

	// TokenCookie is the cookie the login handlers set.
	TokenCookie = "token"
)

// StaffLookup resolves the subject of a staff token.
type StaffLookup interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// tokenFrom prefers the cookie and falls back to a bearer header.
func tokenFrom(c *gin.Context) string {
	if token, err := c.Cookie(TokenCookie); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

// JWTAuthMiddleware authenticates the request and attaches the principal.
// Phone tokens are trusted as issued; staff tokens must still name an
// existing staff record.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, staff StaffLookup, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFrom(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			logger.WithError(err).WithField("path", c.Request.URL.Path).Info("Rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		var principal model.Principal
		switch claims := claims.(type) {
		case *utils.PhoneClaims:
			principal = model.NewPhonePrincipal(claims.Phone, claims.Role)
		case *utils.StaffClaims:
			user, err := staff.FindByID(c.Request.Context(), claims.StaffID)
			if errors.Is(err, repository.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			if err != nil {
				logger.WithError(err).Error("Failed to load staff record")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
				return
			}
			principal = model.NewStaffPrincipal(user)
		}

		c.Set(PrincipalKey, principal)
		c.Set(AuthRoleKey, principal.Role)

		c.Next()
	}
}

// PrincipalFrom returns the principal JWTAuthMiddleware attached.
func PrincipalFrom(c *gin.Context) (model.Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return model.Principal{}, false
	}
	p, ok := v.(model.Principal)
	return p, ok
}
