package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"rawwealthy.backend/internal/domain/entities"
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/internal/infrastructure/models"
	"rawwealthy.backend/pkg/utils"
)

// Columns maintained only through atomic updates; a full save never overwrites them.
var userCounterColumns = []string{
	"id", "created_at", "deleted_at",
	"login_attempts", "lock_until", "referral_count",
	"balance", "total_earnings", "referral_earnings", "total_invested", "total_withdrawn",
}

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user together with its devices
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = utils.GenerateUUIDv7()
	}
	user.PrepareForSave()
	m := toUserModel(user)
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt

	if len(user.Devices) > 0 {
		return r.ReplaceDevices(ctx, user.ID, user.Devices)
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// GetByEmail gets a user by email, ignoring case
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "LOWER(email) = ?", entities.NormalizeEmail(email))
}

func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*entities.User, error) {
	return r.findOne(ctx, "referral_code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

func (r *UserRepository) GetByResetTokenHash(ctx context.Context, hash string) (*entities.User, error) {
	if hash == "" {
		return nil, domainerrors.ErrNotFound
	}
	return r.findOne(ctx, "password_reset_token = ?", hash)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entities.User, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var m models.User
	if err := lockedDB(ctx, r.db).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	var devices []models.UserDevice
	if err := db.Where("user_id = ?", m.ID).Order("position ASC").Find(&devices).Error; err != nil {
		return nil, err
	}
	return toUserEntity(&m, devices), nil
}

// Update saves every mutable column of the user, recomputing derived fields
// first. Counters and lockout state are left to their dedicated atomic operations.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	user.PrepareForSave()
	m := toUserModel(user)
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Select("*").
		Omit(userCounterColumns...).
		Updates(m)
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists users with optional search filter
func (r *UserRepository) List(ctx context.Context, search string, limit, offset int) ([]*entities.User, int64, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.User{})
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var userModels []models.User
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&userModels).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*entities.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, toUserEntity(&userModels[i], nil))
	}
	return users, total, nil
}

// RecordFailedLogin increments login_attempts in the store, or restarts it
// at 1 when the previous lock has expired.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id uuid.UUID, update entities.LoginAttemptUpdate) error {
	updates := map[string]interface{}{}
	if update.ResetAttempts {
		updates["login_attempts"] = 1
		updates["lock_until"] = nil
	} else {
		updates["login_attempts"] = gorm.Expr("login_attempts + ?", 1)
		if update.LockUntil != nil {
			updates["lock_until"] = *update.LockUntil
		}
	}
	return r.updateColumns(ctx, id, updates)
}

func (r *UserRepository) RecordSuccessfulLogin(ctx context.Context, id uuid.UUID, at time.Time, ip string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"login_attempts": 0,
		"lock_until":     nil,
		"last_login":     at,
		"last_login_ip":  null.NewString(ip, ip != ""),
	})
}

func (r *UserRepository) IncrementReferralCount(ctx context.Context, id uuid.UUID) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"referral_count": gorm.Expr("referral_count + ?", 1),
	})
}

func (r *UserRepository) updateColumns(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumns(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ReplaceDevices deletes the stored device list and writes devices in order.
// Call it inside a UnitOfWork so readers never see a partial list.
func (r *UserRepository) ReplaceDevices(ctx context.Context, userID uuid.UUID, devices []entities.Device) error {
	db := GetDB(ctx, r.db).WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Delete(&models.UserDevice{}).Error; err != nil {
		return err
	}
	if len(devices) == 0 {
		return nil
	}

	rows := make([]models.UserDevice, 0, len(devices))
	for i, d := range devices {
		rows = append(rows, models.UserDevice{
			ID:        utils.GenerateUUIDv7(),
			UserID:    userID,
			DeviceID:  d.DeviceID,
			UserAgent: null.NewString(d.UserAgent, d.UserAgent != ""),
			IPAddress: null.NewString(d.IPAddress, d.IPAddress != ""),
			Location:  (*models.DeviceLocation)(d.Location),
			LastUsed:  d.LastUsed,
			IsCurrent: d.IsCurrent,
			Position:  i,
		})
	}
	return db.Create(&rows).Error
}

// ClearExpiredResetTokens drops reset tokens that can no longer be redeemed
func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("password_reset_token IS NOT NULL AND password_reset_expires < ?", now).
		UpdateColumns(map[string]interface{}{
			"password_reset_token":   nil,
			"password_reset_expires": nil,
		})
	return result.RowsAffected, result.Error
}

// TopInvestors returns active, unsuspended users by total invested
func (r *UserRepository) TopInvestors(ctx context.Context, limit int) ([]entities.TopInvestor, error) {
	var rows []struct {
		ID             uuid.UUID
		FullName       string
		Email          string
		TotalInvested  float64
		TotalEarnings  float64
		MembershipTier string
		Avatar         null.String
	}
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Select("id, full_name, email, total_invested, total_earnings, membership_tier, avatar").
		Where("is_active = ? AND is_suspended = ?", true, false).
		Order("total_invested DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]entities.TopInvestor, 0, len(rows))
	for _, row := range rows {
		out = append(out, entities.TopInvestor{
			ID:             row.ID,
			FullName:       row.FullName,
			Email:          row.Email,
			TotalInvested:  utils.RoundMoney(row.TotalInvested),
			TotalEarnings:  utils.RoundMoney(row.TotalEarnings),
			MembershipTier: entities.MembershipTier(row.MembershipTier),
			Avatar:         row.Avatar.String,
		})
	}
	return out, nil
}

// Stats aggregates the whole user base in one query
func (r *UserRepository) Stats(ctx context.Context) (*entities.UserStats, error) {
	var row struct {
		TotalUsers    int64
		ActiveUsers   int64
		VerifiedUsers int64
		TotalBalance  null.Float64
		TotalInvested null.Float64
		AvgBalance    null.Float64
	}
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Select(`COUNT(*) AS total_users,
			COALESCE(SUM(CASE WHEN is_active AND NOT is_suspended THEN 1 ELSE 0 END), 0) AS active_users,
			COALESCE(SUM(CASE WHEN kyc_verified THEN 1 ELSE 0 END), 0) AS verified_users,
			SUM(balance) AS total_balance,
			SUM(total_invested) AS total_invested,
			AVG(balance) AS avg_balance`).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &entities.UserStats{
		TotalUsers:    row.TotalUsers,
		ActiveUsers:   row.ActiveUsers,
		VerifiedUsers: row.VerifiedUsers,
		TotalBalance:  utils.RoundMoney(row.TotalBalance.Float64),
		TotalInvested: utils.RoundMoney(row.TotalInvested.Float64),
		AvgBalance:    utils.RoundMoney(row.AvgBalance.Float64),
	}, nil
}

func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerrors.ErrAlreadyExists
	}
	return err
}

func toUserModel(u *entities.User) *models.User {
	materials := make(pq.StringArray, 0, len(u.PreferredMaterials))
	for _, m := range u.PreferredMaterials {
		materials = append(materials, string(m))
	}
	codes := make([]models.BackupCode, 0, len(u.TwoFactorBackupCodes))
	for _, c := range u.TwoFactorBackupCodes {
		codes = append(codes, models.BackupCode(c))
	}
	questions := make([]models.SecurityQuestion, 0, len(u.SecurityQuestions))
	for _, q := range u.SecurityQuestions {
		questions = append(questions, models.SecurityQuestion(q))
	}

	return &models.User{
		ID:                   u.ID,
		FullName:             u.FullName,
		Email:                entities.NormalizeEmail(u.Email),
		Phone:                u.Phone,
		PasswordHash:         u.PasswordHash,
		PasswordChangedAt:    null.TimeFromPtr(u.PasswordChangedAt),
		PasswordResetToken:   null.NewString(u.PasswordResetToken, u.PasswordResetToken != ""),
		PasswordResetExpires: null.TimeFromPtr(u.PasswordResetExpires),
		Role:                 string(u.Role),
		Balance:              u.Balance,
		TotalEarnings:        u.TotalEarnings,
		ReferralEarnings:     u.ReferralEarnings,
		TotalInvested:        u.TotalInvested,
		TotalWithdrawn:       u.TotalWithdrawn,
		ReferralCode:         u.ReferralCode,
		ReferredBy:           u.ReferredBy,
		ReferralCount:        u.ReferralCount,
		KYCVerified:          u.KYCVerified,
		KYCLevel:             string(u.KYCLevel),
		KYC: models.KYCData{
			IDType:          null.NewString(string(u.KYCData.IDType), u.KYCData.IDType != ""),
			IDNumber:        null.NewString(u.KYCData.IDNumber, u.KYCData.IDNumber != ""),
			IDFront:         null.NewString(u.KYCData.IDFront, u.KYCData.IDFront != ""),
			IDBack:          null.NewString(u.KYCData.IDBack, u.KYCData.IDBack != ""),
			SelfieWithID:    null.NewString(u.KYCData.SelfieWithID, u.KYCData.SelfieWithID != ""),
			VerifiedAt:      null.TimeFromPtr(u.KYCData.VerifiedAt),
			VerifiedBy:      u.KYCData.VerifiedBy,
			RejectionReason: null.NewString(u.KYCData.RejectionReason, u.KYCData.RejectionReason != ""),
		},
		RiskTolerance:        string(u.RiskTolerance),
		InvestmentStrategy:   string(u.InvestmentStrategy),
		PreferredMaterials:   materials,
		IsActive:             u.IsActive,
		IsSuspended:          u.IsSuspended,
		SuspensionReason:     null.NewString(u.SuspensionReason, u.SuspensionReason != ""),
		SuspensionUntil:      null.TimeFromPtr(u.SuspensionUntil),
		LastLogin:            null.TimeFromPtr(u.LastLogin),
		LastLoginIP:          null.NewString(u.LastLoginIP, u.LastLoginIP != ""),
		LoginAttempts:        u.LoginAttempts,
		LockUntil:            null.TimeFromPtr(u.LockUntil),
		TwoFactorEnabled:     u.TwoFactorEnabled,
		TwoFactorSecret:      null.NewString(u.TwoFactorSecret, u.TwoFactorSecret != ""),
		TwoFactorBackupCodes: codes,
		SecurityQuestions:    questions,
		NotificationPreferences: models.NotificationPreferences{
			Email: models.EmailPreferences(u.NotificationPreferences.Email),
			SMS:   models.SMSPreferences(u.NotificationPreferences.SMS),
			Push:  models.PushPreferences(u.NotificationPreferences.Push),
		},
		Bank: models.BankDetails{
			Name:          null.NewString(u.BankDetails.BankName, u.BankDetails.BankName != ""),
			AccountName:   null.NewString(u.BankDetails.AccountName, u.BankDetails.AccountName != ""),
			AccountNumber: null.NewString(u.BankDetails.AccountNumber, u.BankDetails.AccountNumber != ""),
			Code:          null.NewString(u.BankDetails.BankCode, u.BankDetails.BankCode != ""),
			Verified:      u.BankDetails.Verified,
			VerifiedAt:    null.TimeFromPtr(u.BankDetails.VerifiedAt),
		},
		ProfileCompletion: u.ProfileCompletion,
		Avatar:            null.NewString(u.Avatar, u.Avatar != ""),
		Currency:          string(u.Currency),
		Language:          string(u.Language),
		Timezone:          u.Timezone,
		Country:           u.Country,
		MembershipTier:    string(u.MembershipTier),
		LoyaltyPoints:     u.LoyaltyPoints,
		CreatedBy:         u.CreatedBy,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func toUserEntity(m *models.User, devices []models.UserDevice) *entities.User {
	materials := make([]entities.MaterialType, 0, len(m.PreferredMaterials))
	for _, mt := range m.PreferredMaterials {
		materials = append(materials, entities.MaterialType(mt))
	}
	codes := make([]entities.BackupCode, 0, len(m.TwoFactorBackupCodes))
	for _, c := range m.TwoFactorBackupCodes {
		codes = append(codes, entities.BackupCode(c))
	}
	questions := make([]entities.SecurityQuestion, 0, len(m.SecurityQuestions))
	for _, q := range m.SecurityQuestions {
		questions = append(questions, entities.SecurityQuestion(q))
	}
	devs := make([]entities.Device, 0, len(devices))
	for _, d := range devices {
		devs = append(devs, entities.Device{
			DeviceID:  d.DeviceID,
			UserAgent: d.UserAgent.String,
			IPAddress: d.IPAddress.String,
			Location:  (*entities.DeviceLocation)(d.Location),
			LastUsed:  d.LastUsed,
			IsCurrent: d.IsCurrent,
		})
	}

	return &entities.User{
		ID:                   m.ID,
		FullName:             m.FullName,
		Email:                m.Email,
		Phone:                m.Phone,
		PasswordHash:         m.PasswordHash,
		PasswordChangedAt:    m.PasswordChangedAt.Ptr(),
		PasswordResetToken:   m.PasswordResetToken.String,
		PasswordResetExpires: m.PasswordResetExpires.Ptr(),
		Role:                 entities.UserRole(m.Role),
		Balance:              utils.RoundMoney(m.Balance),
		TotalEarnings:        utils.RoundMoney(m.TotalEarnings),
		ReferralEarnings:     utils.RoundMoney(m.ReferralEarnings),
		TotalInvested:        utils.RoundMoney(m.TotalInvested),
		TotalWithdrawn:       utils.RoundMoney(m.TotalWithdrawn),
		ReferralCode:         m.ReferralCode,
		ReferredBy:           m.ReferredBy,
		ReferralCount:        m.ReferralCount,
		KYCVerified:          m.KYCVerified,
		KYCLevel:             entities.KYCLevel(m.KYCLevel),
		KYCData: entities.KYCData{
			IDType:          entities.IDType(m.KYC.IDType.String),
			IDNumber:        m.KYC.IDNumber.String,
			IDFront:         m.KYC.IDFront.String,
			IDBack:          m.KYC.IDBack.String,
			SelfieWithID:    m.KYC.SelfieWithID.String,
			VerifiedAt:      m.KYC.VerifiedAt.Ptr(),
			VerifiedBy:      m.KYC.VerifiedBy,
			RejectionReason: m.KYC.RejectionReason.String,
		},
		RiskTolerance:        entities.RiskLevel(m.RiskTolerance),
		InvestmentStrategy:   entities.InvestmentStrategy(m.InvestmentStrategy),
		PreferredMaterials:   materials,
		IsActive:             m.IsActive,
		IsSuspended:          m.IsSuspended,
		SuspensionReason:     m.SuspensionReason.String,
		SuspensionUntil:      m.SuspensionUntil.Ptr(),
		LastLogin:            m.LastLogin.Ptr(),
		LastLoginIP:          m.LastLoginIP.String,
		LoginAttempts:        m.LoginAttempts,
		LockUntil:            m.LockUntil.Ptr(),
		TwoFactorEnabled:     m.TwoFactorEnabled,
		TwoFactorSecret:      m.TwoFactorSecret.String,
		TwoFactorBackupCodes: codes,
		SecurityQuestions:    questions,
		NotificationPreferences: entities.NotificationPreferences{
			Email: entities.EmailPreferences(m.NotificationPreferences.Email),
			SMS:   entities.SMSPreferences(m.NotificationPreferences.SMS),
			Push:  entities.PushPreferences(m.NotificationPreferences.Push),
		},
		BankDetails: entities.BankDetails{
			BankName:      m.Bank.Name.String,
			AccountName:   m.Bank.AccountName.String,
			AccountNumber: m.Bank.AccountNumber.String,
			BankCode:      m.Bank.Code.String,
			Verified:      m.Bank.Verified,
			VerifiedAt:    m.Bank.VerifiedAt.Ptr(),
		},
		ProfileCompletion: m.ProfileCompletion,
		Avatar:            m.Avatar.String,
		Currency:          entities.Currency(m.Currency),
		Language:          entities.Language(m.Language),
		Timezone:          m.Timezone,
		Country:           m.Country,
		Devices:           devs,
		MembershipTier:    entities.MembershipTier(m.MembershipTier),
		LoyaltyPoints:     m.LoyaltyPoints,
		CreatedBy:         m.CreatedBy,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
