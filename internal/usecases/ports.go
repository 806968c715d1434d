package usecases

import (
	"context"
	"time"

	"rawwealthy.backend/internal/domain/entities"
	"rawwealthy.backend/pkg/redis"
)

// SessionStore keeps cookie sessions keyed by an opaque session id
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	ForgetSession(ctx context.Context, userID, sessionID string) error
}

// PasswordResetNotifier delivers a raw reset token to the account owner
type PasswordResetNotifier interface {
	SendPasswordReset(ctx context.Context, user *entities.User, rawToken string, expiresAt time.Time) error
}
