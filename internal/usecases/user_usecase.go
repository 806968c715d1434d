package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rawwealthy.backend/internal/domain/entities"
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/internal/domain/repositories"
	"rawwealthy.backend/pkg/crypto"
	"rawwealthy.backend/pkg/logger"
	"rawwealthy.backend/pkg/utils"
)

const (
	BackupCodeCount        = 10
	DefaultTopInvestors    = 10
	MaxTopInvestorsResults = 100
)

var generateBackupCodes = crypto.GenerateBackupCodes

// ReferralInfo is the public view of a referral code
type ReferralInfo struct {
	ReferralCode string `json:"referralCode"`
	ReferrerName string `json:"referrerName"`
}

// UserList is one page of users
type UserList struct {
	Users      []entities.UserProfile `json:"users"`
	Pagination utils.PaginationMeta   `json:"pagination"`
}

// UserUsecase handles profile, device, referral and administrative user operations
type UserUsecase struct {
	userRepo repositories.UserRepository
	uow      repositories.UnitOfWork
	now      func() time.Time
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(userRepo repositories.UserRepository, uow repositories.UnitOfWork) *UserUsecase {
	return &UserUsecase{
		userRepo: userRepo,
		uow:      uow,
		now:      time.Now,
	}
}

// SetClock replaces the time source
func (u *UserUsecase) SetClock(now func() time.Time) {
	u.now = now
}

// GetProfile returns the user's profile with derived fields
func (u *UserUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile(u.now())
	return &profile, nil
}

// UpdateProfile applies self-service changes and recomputes profile completion
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.UserProfile, error) {
	if err := entities.ValidateStruct(input).OrNil(); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	input.Apply(user)
	if err := user.Validate(); err != nil {
		return nil, err
	}
	user.PrepareForSave()
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	profile := user.Profile(u.now())
	return &profile, nil
}

// RegisterDevice records the device under a row lock so concurrent logins
// from several devices do not drop each other's entries.
func (u *UserUsecase) RegisterDevice(ctx context.Context, userID uuid.UUID, info entities.DeviceInfo) ([]entities.Device, error) {
	if info.DeviceID == "" {
		return nil, domainerrors.NewValidationError("deviceId", "is required")
	}

	var devices []entities.Device
	err := u.uow.Do(u.uow.WithLock(ctx), func(txCtx context.Context) error {
		user, err := u.userRepo.GetByID(txCtx, userID)
		if err != nil {
			return err
		}
		user.RegisterDevice(info, u.now())
		if err := u.userRepo.ReplaceDevices(txCtx, user.ID, user.Devices); err != nil {
			return err
		}
		devices = user.Devices
		return nil
	})
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// RegenerateBackupCodes replaces the two-factor backup codes and turns
// two-factor sign-in on. The raw codes are returned once and only their
// digests are stored.
func (u *UserUsecase) RegenerateBackupCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	codes, err := generateBackupCodes(BackupCodeCount)
	if err != nil {
		return nil, err
	}
	user.EnableTwoFactor(codes)
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Backup codes regenerated", zap.String("userId", userID.String()))
	return codes, nil
}

// DisableTwoFactor turns two-factor sign-in off. One unused backup code must
// be spent to confirm it.
func (u *UserUsecase) DisableTwoFactor(ctx context.Context, userID uuid.UUID, input *entities.TwoFactorCodeInput) (*entities.UserProfile, error) {
	if err := entities.ValidateStruct(input).OrNil(); err != nil {
		return nil, err
	}

	var profile entities.UserProfile
	err := u.uow.Do(u.uow.WithLock(ctx), func(txCtx context.Context) error {
		user, err := u.userRepo.GetByID(txCtx, userID)
		if err != nil {
			return err
		}
		if !user.TwoFactorEnabled {
			return domainerrors.BadRequest("two-factor sign-in is not enabled")
		}
		now := u.now()
		if !user.RedeemBackupCode(input.Code, now) {
			return domainerrors.NewValidationError("code", "is not a valid backup code")
		}
		user.DisableTwoFactor()
		if err := u.userRepo.Update(txCtx, user); err != nil {
			return err
		}
		profile = user.Profile(now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Two-factor sign-in disabled", zap.String("userId", userID.String()))
	return &profile, nil
}

// LookupReferral resolves a referral code to its owner's public name
func (u *UserUsecase) LookupReferral(ctx context.Context, code string) (*ReferralInfo, error) {
	user, err := u.userRepo.GetByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("referral code not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domainerrors.NotFound("referral code not found")
	}
	return &ReferralInfo{ReferralCode: user.ReferralCode, ReferrerName: user.FullName}, nil
}

// ReviewKYC records an administrator's decision on a user's documents
func (u *UserUsecase) ReviewKYC(ctx context.Context, actingUserID, userID uuid.UUID, input *entities.KYCDecisionInput) (*entities.UserProfile, error) {
	if err := entities.ValidateStruct(input).OrNil(); err != nil {
		return nil, err
	}
	if !input.Approved && input.Reason == "" {
		return nil, domainerrors.NewValidationError("reason", "is required when rejecting")
	}

	level := input.Level
	if input.Approved && (level == "" || level == entities.KYCLevelNone) {
		level = entities.KYCLevelBasic
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	user.ApplyKYCDecision(input.Approved, level, input.Reason, actingUserID, now)
	user.PrepareForSave()
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "KYC reviewed",
		zap.String("userId", userID.String()),
		zap.String("reviewer", actingUserID.String()),
		zap.Bool("approved", input.Approved),
	)
	profile := user.Profile(now)
	return &profile, nil
}

// TopInvestors returns the leaderboard, clamping limit to a sane range
func (u *UserUsecase) TopInvestors(ctx context.Context, limit int) ([]entities.TopInvestor, error) {
	if limit <= 0 {
		limit = DefaultTopInvestors
	}
	if limit > MaxTopInvestorsResults {
		limit = MaxTopInvestorsResults
	}
	investors, err := u.userRepo.TopInvestors(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range investors {
		investors[i].TotalInvested = utils.RoundMoney(investors[i].TotalInvested)
		investors[i].TotalEarnings = utils.RoundMoney(investors[i].TotalEarnings)
	}
	return investors, nil
}

// Stats aggregates the user base
func (u *UserUsecase) Stats(ctx context.Context) (*entities.UserStats, error) {
	return u.userRepo.Stats(ctx)
}

// ListUsers pages through users, optionally filtered by name or email
func (u *UserUsecase) ListUsers(ctx context.Context, search string, page, limit int) (*UserList, error) {
	params := utils.GetPaginationParams(page, limit)
	users, total, err := u.userRepo.List(ctx, search, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, err
	}

	now := u.now()
	profiles := make([]entities.UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile(now))
	}
	return &UserList{
		Users:      profiles,
		Pagination: utils.CalculateMeta(total, params.Page, params.Limit),
	}, nil
}
