package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rawwealthy.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	// GetByEmail matches the address case-insensitively
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByReferralCode(ctx context.Context, code string) (*entities.User, error)
	GetByResetTokenHash(ctx context.Context, hash string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	List(ctx context.Context, search string, limit, offset int) ([]*entities.User, int64, error)

	// RecordFailedLogin applies one failed attempt. The counter is incremented by the store.
	RecordFailedLogin(ctx context.Context, id uuid.UUID, update entities.LoginAttemptUpdate) error
	// RecordSuccessfulLogin clears attempts and lock and stamps the login
	RecordSuccessfulLogin(ctx context.Context, id uuid.UUID, at time.Time, ip string) error
	IncrementReferralCount(ctx context.Context, id uuid.UUID) error
	// ReplaceDevices overwrites the user's device list
	ReplaceDevices(ctx context.Context, userID uuid.UUID, devices []entities.Device) error
	// ClearExpiredResetTokens drops reset tokens whose expiry is before now
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)

	TopInvestors(ctx context.Context, limit int) ([]entities.TopInvestor, error)
	Stats(ctx context.Context) (*entities.UserStats, error)
}
