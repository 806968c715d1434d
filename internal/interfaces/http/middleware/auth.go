package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"rawwealthy.backend/internal/domain/entities"
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/internal/interfaces/http/response"
	"rawwealthy.backend/pkg/jwt"
	"rawwealthy.backend/pkg/logger"
	"rawwealthy.backend/pkg/redis"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionCookieName carries the opaque session id for browser clients
	SessionCookieName = "session_id"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
	// UserRoleKey is the context key for user role
	UserRoleKey = "userRole"
	// SessionIDKey is the context key for the cookie session id
	SessionIDKey = "sessionId"
)

// TokenVerifier loads the account behind a token and resolves cookie sessions
type TokenVerifier interface {
	CheckTokenFreshness(ctx context.Context, userID uuid.UUID, issuedAt time.Time) (*entities.User, error)
	ResolveSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
}

// AuthMiddleware accepts a bearer access token or, failing that, a session
// cookie. Tokens issued before the last password change are rejected.
func AuthMiddleware(jwtService *jwt.JWTService, verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		tokenString, sessionID, err := extractToken(c, verifier)
		if err != nil {
			logger.Debug(ctx, "Authentication rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			abort(c, err)
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				abort(c, domainerrors.Unauthorized("token has expired"))
				return
			}
			abort(c, domainerrors.Unauthorized("invalid token"))
			return
		}

		user, err := verifier.CheckTokenFreshness(ctx, claims.UserID, claims.IssuedAtTime())
		if err != nil {
			logger.Debug(ctx, "Token owner rejected",
				zap.String("userId", claims.UserID.String()),
				zap.Error(err),
			)
			abort(c, err)
			return
		}

		// Role comes from the stored account so demotions apply immediately
		c.Set(UserIDKey, user.ID)
		c.Set(UserEmailKey, user.Email)
		c.Set(UserRoleKey, string(user.Role))
		if sessionID != "" {
			c.Set(SessionIDKey, sessionID)
		}
		c.Request = c.Request.WithContext(context.WithValue(ctx, logger.UserIDKey, user.ID.String()))

		c.Next()
	}
}

func extractToken(c *gin.Context, verifier TokenVerifier) (token, sessionID string, err error) {
	if authHeader := c.GetHeader(AuthorizationHeader); authHeader != "" {
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			return "", "", domainerrors.Unauthorized("invalid authorization format, use: Bearer <token>")
		}
		return strings.TrimPrefix(authHeader, BearerPrefix), "", nil
	}

	sessionID, cookieErr := c.Cookie(SessionCookieName)
	if cookieErr != nil || sessionID == "" {
		return "", "", domainerrors.Unauthorized("authorization header is required")
	}
	session, err := verifier.ResolveSession(c.Request.Context(), sessionID)
	if err != nil {
		return "", "", err
	}
	return session.AccessToken, sessionID, nil
}

func abort(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserEmail gets the user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetUserRole gets the user role from context
func GetUserRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	return role.(string), true
}

// GetSessionID returns the cookie session id when the request used one
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := GetUserRole(c)
		if !exists {
			abort(c, domainerrors.Unauthorized("user role not found"))
			return
		}

		for _, role := range roles {
			if userRole == string(role) {
				c.Next()
				return
			}
		}

		abort(c, domainerrors.Forbidden("insufficient permissions"))
	}
}

// RequireAdmin creates a middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(entities.UserRoleAdmin)
}

// RequireStaff allows admins and moderators
func RequireStaff() gin.HandlerFunc {
	return RequireRole(entities.UserRoleAdmin, entities.UserRoleModerator)
}
