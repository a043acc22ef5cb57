package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go-jobmatch-backend/config"
	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/audit"
	"go-jobmatch-backend/pkg/auth"
	"go-jobmatch-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// RoleSource resolves the stored role of an authenticated user.
type RoleSource interface {
	GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error)
}

func AuthMiddleware(jwksProvider *auth.Provider, cfg *config.Config, roles RoleSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if cookie, err := c.Cookie("auth_token"); err == nil && cookie != "" {
			tokenString = cookie
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			switch token.Method.(type) {
			case *jwt.SigningMethodHMAC:
				if cfg.SupabaseJWTSecret == "" {
					return nil, fmt.Errorf("HS256 token received but SUPABASE_JWT_SECRET is not configured")
				}
				return []byte(cfg.SupabaseJWTSecret), nil
			case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
				if jwksProvider == nil {
					return nil, fmt.Errorf("asymmetric token received but SUPABASE_URL is not configured")
				}
				return jwksProvider.KeyFunc(token)
			}
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		})
		if err != nil || !token.Valid {
			logger.Log.Warn("Token validation failed", "error", err, "ip", c.ClientIP())
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		if sub == "" {
			response.Error(c, http.StatusUnauthorized, "Token has no subject", nil)
			c.Abort()
			return
		}

		// The JWT role claim is "authenticated" for everyone; the stored profile carries the real role
		role := domain.RoleCandidate
		profile, err := roles.GetByUserID(c.Request.Context(), sub)
		switch {
		case err == nil && profile.Role != "":
			role = profile.Role
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			logger.Log.Error("Failed to load user role", "error", err, "user_id", sub)
		}

		c.Set(string(domain.KeyUserID), sub)
		c.Set(string(domain.KeyUserEmail), email)
		c.Set(string(domain.KeyUserRole), role)

		c.Next()
	}
}

// AdminOnly rejects authenticated users without the admin role.
func AdminOnly(auditLog *audit.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(string(domain.KeyUserRole)) != domain.RoleAdmin {
			auditLog.Log(c.Request.Context(), audit.Event{
				Type:      audit.EventAdminDenied,
				ActorID:   c.GetString(string(domain.KeyUserID)),
				RequestID: c.GetString(string(domain.KeyRequestID)),
				Details:   map[string]any{"path": c.FullPath()},
			})
			response.Error(c, http.StatusForbidden, "Admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
