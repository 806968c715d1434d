package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rawwealthy.backend/internal/config"
	"rawwealthy.backend/internal/domain/entities"
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/internal/domain/repositories"
	"rawwealthy.backend/pkg/crypto"
	"rawwealthy.backend/pkg/jwt"
	"rawwealthy.backend/pkg/logger"
	"rawwealthy.backend/pkg/metrics"
	"rawwealthy.backend/pkg/redis"
	"rawwealthy.backend/pkg/utils"
)

var (
	hashPassword  = crypto.HashPasswordWithCost
	newSessionID  = uuid.NewString
	checkPassword = crypto.CheckPassword
)

var errBackupCodeRejected = errors.New("backup code rejected")

// AuthResult is returned by every flow that issues tokens
type AuthResult struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	ExpiresAt    time.Time            `json:"expiresAt"`
	SessionID    string               `json:"-"`
	User         entities.UserProfile `json:"user"`
}

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo      repositories.UserRepository
	uow           repositories.UnitOfWork
	jwtService    *jwt.JWTService
	sessions      SessionStore
	notifier      PasswordResetNotifier
	metrics       *metrics.Collector
	bcryptCost    int
	sessionExpiry time.Duration
	now           func() time.Time
}

// NewAuthUsecase creates a new auth usecase. sessions may be nil when
// cookie sessions are disabled.
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
	jwtService *jwt.JWTService,
	sessions SessionStore,
	notifier PasswordResetNotifier,
	collector *metrics.Collector,
	security config.SecurityConfig,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:      userRepo,
		uow:           uow,
		jwtService:    jwtService,
		sessions:      sessions,
		notifier:      notifier,
		metrics:       collector,
		bcryptCost:    security.BcryptCost,
		sessionExpiry: security.SessionExpiry,
		now:           time.Now,
	}
}

// SetClock replaces the time source
func (u *AuthUsecase) SetClock(now func() time.Time) {
	u.now = now
}

// Register creates an account, credits the referrer and signs the user in
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*AuthResult, error) {
	if err := entities.ValidateStruct(input).OrNil(); err != nil {
		return nil, err
	}

	_, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.Conflict("email already registered")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	var referrer *entities.User
	if code := strings.TrimSpace(input.ReferralCode); code != "" {
		referrer, err = u.userRepo.GetByReferralCode(ctx, code)
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NewValidationError("referralCode", "is not a valid referral code")
		}
		if err != nil {
			return nil, err
		}
	}

	passwordHash, err := hashPassword(input.Password, u.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := u.now()
	user := entities.NewUser(input.FullName, input.Email, input.Phone)
	user.ID = utils.GenerateUUIDv7()
	user.SetPasswordHash(passwordHash, now)
	if input.Country != "" {
		user.Country = strings.ToUpper(input.Country)
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ID
	}
	user.PrepareForSave()
	if err := user.Validate(); err != nil {
		return nil, err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, user); err != nil {
			if errors.Is(err, domainerrors.ErrAlreadyExists) {
				return domainerrors.Conflict("email already registered")
			}
			return err
		}
		if referrer != nil {
			return u.userRepo.IncrementReferralCount(txCtx, referrer.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.RecordRegistration()
	logger.Info(ctx, "User registered", zap.String("userId", user.ID.String()))
	return u.issue(ctx, user, now, false, "")
}

// Login authenticates credentials and applies the lockout policy.
// Unknown addresses and wrong passwords fail identically.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*AuthResult, error) {
	if err := entities.ValidateStruct(input).OrNil(); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			u.metrics.RecordLogin(metrics.LoginFailure)
			return nil, domainerrors.ErrAuthenticationFailed
		}
		return nil, err
	}

	now := u.now()
	if user.IsLocked(now) {
		u.metrics.RecordLogin(metrics.LoginLocked)
		return nil, &domainerrors.AccountLockedError{Until: *user.LockUntil}
	}

	if !checkPassword(input.Password, user.PasswordHash) {
		return nil, u.failLogin(ctx, user, now)
	}

	if err := user.CanLogin(now); err != nil {
		return nil, err
	}
	if user.TwoFactorEnabled && strings.TrimSpace(input.BackupCode) == "" {
		return nil, domainerrors.ErrTwoFactorRequired
	}

	err = u.uow.Do(u.uow.WithLock(ctx), func(txCtx context.Context) error {
		fresh, err := u.userRepo.GetByID(txCtx, user.ID)
		if err != nil {
			return err
		}
		// Redeemed under the row lock so a code cannot be spent twice
		if fresh.TwoFactorEnabled {
			if !fresh.RedeemBackupCode(strings.TrimSpace(input.BackupCode), now) {
				return errBackupCodeRejected
			}
			if err := u.userRepo.Update(txCtx, fresh); err != nil {
				return err
			}
		}
		if err := u.userRepo.RecordSuccessfulLogin(txCtx, fresh.ID, now, input.IPAddress); err != nil {
			return err
		}
		fresh.RecordSuccessfulLogin(now, input.IPAddress)

		if input.Device != nil && input.Device.DeviceID != "" {
			device := *input.Device
			if device.IPAddress == "" {
				device.IPAddress = input.IPAddress
			}
			fresh.RegisterDevice(device, now)
			if err := u.userRepo.ReplaceDevices(txCtx, fresh.ID, fresh.Devices); err != nil {
				return err
			}
		}
		user = fresh
		return nil
	})
	if errors.Is(err, errBackupCodeRejected) {
		return nil, u.failLogin(ctx, user, now)
	}
	if err != nil {
		return nil, err
	}

	u.metrics.RecordLogin(metrics.LoginSuccess)
	fields := []zap.Field{zap.String("userId", user.ID.String())}
	if current, ok := user.CurrentDevice(); ok {
		fields = append(fields, zap.String("deviceId", current.DeviceID))
	}
	logger.Info(ctx, "User logged in", fields...)

	deviceID := ""
	if input.Device != nil {
		deviceID = input.Device.DeviceID
	}
	return u.issue(ctx, user, now, input.UseSession, deviceID)
}

// failLogin records one failed attempt in the store and reports whether it started a lock
func (u *AuthUsecase) failLogin(ctx context.Context, user *entities.User, now time.Time) error {
	update := user.FailedLoginTransition(now)
	if err := u.userRepo.RecordFailedLogin(ctx, user.ID, update); err != nil {
		return err
	}
	u.metrics.RecordLogin(metrics.LoginFailure)

	if update.LockUntil != nil {
		u.metrics.RecordLockout()
		logger.Warn(ctx, "Account locked after failed logins",
			zap.String("userId", user.ID.String()),
			zap.Time("lockUntil", *update.LockUntil),
		)
		return &domainerrors.AccountLockedError{Until: *update.LockUntil}
	}
	return domainerrors.ErrAuthenticationFailed
}

// Refresh exchanges a refresh token for a new token pair
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := u.CheckTokenFreshness(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		return nil, err
	}
	return u.issue(ctx, user, u.now(), false, "")
}

// CheckTokenFreshness loads the token owner and rejects tokens issued before
// the last password change or for accounts that may no longer sign in.
func (u *AuthUsecase) CheckTokenFreshness(ctx context.Context, userID uuid.UUID, issuedAt time.Time) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.ChangedPasswordAfter(issuedAt) {
		return nil, domainerrors.ErrCredentialsStale
	}
	if err := user.CanLogin(u.now()); err != nil {
		return nil, err
	}
	return user, nil
}

// ResolveSession returns the session behind a cookie
func (u *AuthUsecase) ResolveSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	if u.sessions == nil || sessionID == "" {
		return nil, domainerrors.ErrUnauthorized
	}
	session, err := u.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if redis.IsNil(err) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}
	return session, nil
}

// Logout drops the cookie session, if any
func (u *AuthUsecase) Logout(ctx context.Context, userID uuid.UUID, sessionID string) error {
	if u.sessions == nil || sessionID == "" {
		return nil
	}
	if err := u.sessions.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	return u.sessions.ForgetSession(ctx, userID.String(), sessionID)
}

// Me returns the signed-in user's profile
func (u *AuthUsecase) Me(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile(u.now())
	return &profile, nil
}

// ForgotPassword issues a reset token and hands it to the notifier.
// Unknown addresses succeed silently.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, input *entities.ForgotPasswordInput) error {
	if err := entities.ValidateStruct(input).OrNil(); err != nil {
		return err
	}

	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			logger.Debug(ctx, "Password reset requested for unknown email")
			return nil
		}
		return err
	}

	raw, err := user.IssuePasswordReset(u.now())
	if err != nil {
		return err
	}
	if err := u.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := u.notifier.SendPasswordReset(ctx, user, raw, *user.PasswordResetExpires); err != nil {
		logger.Error(ctx, "Failed to deliver password reset", zap.String("userId", user.ID.String()), zap.Error(err))
		user.ClearPasswordReset()
		if clearErr := u.userRepo.Update(ctx, user); clearErr != nil {
			logger.Error(ctx, "Failed to clear undelivered reset token", zap.Error(clearErr))
		}
		return err
	}
	return nil
}

// ResetPassword redeems a reset token and revokes every session of the user
func (u *AuthUsecase) ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error {
	if err := entities.ValidateStruct(input).OrNil(); err != nil {
		return err
	}

	user, err := u.userRepo.GetByResetTokenHash(ctx, crypto.HashToken(input.Token))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrInvalidToken
		}
		return err
	}

	now := u.now()
	if err := user.VerifyPasswordReset(input.Token, now); err != nil {
		return err
	}
	if err := u.setPassword(ctx, user, input.NewPassword, now); err != nil {
		return err
	}
	logger.Info(ctx, "Password reset", zap.String("userId", user.ID.String()))
	return nil
}

// ChangePassword replaces the password of a signed-in user and returns fresh tokens
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, input *entities.ChangePasswordInput) (*AuthResult, error) {
	if err := entities.ValidateStruct(input).OrNil(); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !checkPassword(input.CurrentPassword, user.PasswordHash) {
		return nil, domainerrors.NewValidationError("currentPassword", "is incorrect")
	}
	if input.CurrentPassword == input.NewPassword {
		return nil, domainerrors.NewValidationError("newPassword", "must differ from the current password")
	}

	now := u.now()
	if err := u.setPassword(ctx, user, input.NewPassword, now); err != nil {
		return nil, err
	}
	return u.issue(ctx, user, now, false, "")
}

func (u *AuthUsecase) setPassword(ctx context.Context, user *entities.User, password string, now time.Time) error {
	hash, err := hashPassword(password, u.bcryptCost)
	if err != nil {
		return err
	}
	user.SetPasswordHash(hash, now)
	user.PrepareForSave()
	if err := u.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if u.sessions != nil {
		if err := u.sessions.DeleteUserSessions(ctx, user.ID.String()); err != nil {
			logger.Warn(ctx, "Failed to revoke sessions after password change",
				zap.String("userId", user.ID.String()), zap.Error(err))
		}
	}
	return nil
}

func (u *AuthUsecase) issue(ctx context.Context, user *entities.User, now time.Time, withSession bool, deviceID string) (*AuthResult, error) {
	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	result := &AuthResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User:         user.Profile(now),
	}

	if withSession && u.sessions != nil {
		sessionID := newSessionID()
		err := u.sessions.CreateSession(ctx, sessionID, &redis.SessionData{
			UserID:       user.ID.String(),
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			DeviceID:     deviceID,
			CreatedAt:    now,
		}, u.sessionExpiry)
		if err != nil {
			return nil, err
		}
		result.SessionID = sessionID
	}
	return result, nil
}

func tokenError(err error) error {
	if errors.Is(err, jwt.ErrExpiredToken) {
		return domainerrors.ErrTokenExpired
	}
	return domainerrors.ErrInvalidToken
}
