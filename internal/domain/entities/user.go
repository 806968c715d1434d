package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"

	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/pkg/crypto"
	"rawwealthy.backend/pkg/utils"
)

// Lockout policy
const (
	SoftLockThreshold = 5
	HardLockThreshold = 10
	SoftLockDuration  = 2 * time.Hour
	HardLockDuration  = 24 * time.Hour

	// PasswordResetTTL is how long a reset token stays redeemable
	PasswordResetTTL = 10 * time.Minute

	DefaultCountry  = "NG"
	DefaultTimezone = "Africa/Lagos"
)

// KYCData holds identity verification details
type KYCData struct {
	IDType          IDType     `json:"idType,omitempty" validate:"omitempty,enum"`
	IDNumber        string     `json:"idNumber,omitempty"`
	IDFront         string     `json:"idFront,omitempty"`
	IDBack          string     `json:"idBack,omitempty"`
	SelfieWithID    string     `json:"selfieWithId,omitempty"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
	VerifiedBy      *uuid.UUID `json:"verifiedBy,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}

// BankDetails holds the payout bank account
type BankDetails struct {
	BankName      string     `json:"bankName,omitempty"`
	AccountName   string     `json:"accountName,omitempty"`
	AccountNumber string     `json:"accountNumber,omitempty"`
	BankCode      string     `json:"bankCode,omitempty"`
	Verified      bool       `json:"verified"`
	VerifiedAt    *time.Time `json:"verifiedAt,omitempty"`
}

type EmailPreferences struct {
	Investments bool `json:"investments"`
	Earnings    bool `json:"earnings"`
	Security    bool `json:"security"`
	Marketing   bool `json:"marketing"`
}

type SMSPreferences struct {
	Investments bool `json:"investments"`
	Withdrawals bool `json:"withdrawals"`
	Security    bool `json:"security"`
}

type PushPreferences struct {
	All bool `json:"all"`
}

// NotificationPreferences selects which notices reach the user on each channel
type NotificationPreferences struct {
	Email EmailPreferences `json:"email"`
	SMS   SMSPreferences   `json:"sms"`
	Push  PushPreferences  `json:"push"`
}

// DefaultNotificationPreferences returns the preferences a new account starts with
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		Email: EmailPreferences{Investments: true, Earnings: true, Security: true},
		SMS:   SMSPreferences{Withdrawals: true, Security: true},
		Push:  PushPreferences{All: true},
	}
}

// BackupCode is a hashed single-use two-factor recovery code
type BackupCode struct {
	CodeHash string     `json:"codeHash"`
	Used     bool       `json:"used"`
	UsedAt   *time.Time `json:"usedAt,omitempty"`
}

// SecurityQuestion stores the answer hashed
type SecurityQuestion struct {
	Question   string `json:"question"`
	AnswerHash string `json:"answerHash"`
}

// User represents a user entity
type User struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName" validate:"required,max=100,fullname"`
	Email    string    `json:"email" validate:"required,emailaddr"`
	Phone    string    `json:"phone" validate:"required,phone"`

	PasswordHash         string     `json:"-"`
	PasswordChangedAt    *time.Time `json:"-"`
	PasswordResetToken   string     `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`

	Role UserRole `json:"role" validate:"enum"`

	Balance          float64 `json:"balance" validate:"gte=0"`
	TotalEarnings    float64 `json:"totalEarnings" validate:"gte=0"`
	ReferralEarnings float64 `json:"referralEarnings" validate:"gte=0"`
	TotalInvested    float64 `json:"totalInvested" validate:"gte=0"`
	TotalWithdrawn   float64 `json:"totalWithdrawn" validate:"gte=0"`

	ReferralCode  string     `json:"referralCode"`
	ReferredBy    *uuid.UUID `json:"referredBy,omitempty"`
	ReferralCount int        `json:"referralCount"`

	KYCVerified bool     `json:"kycVerified"`
	KYCLevel    KYCLevel `json:"kycLevel" validate:"enum"`
	KYCData     KYCData  `json:"kycData"`

	RiskTolerance      RiskLevel          `json:"riskTolerance" validate:"enum"`
	InvestmentStrategy InvestmentStrategy `json:"investmentStrategy" validate:"enum"`
	PreferredMaterials []MaterialType     `json:"preferredMaterials" validate:"dive,enum"`

	IsActive         bool       `json:"isActive"`
	IsSuspended      bool       `json:"isSuspended"`
	SuspensionReason string     `json:"suspensionReason,omitempty"`
	SuspensionUntil  *time.Time `json:"suspensionUntil,omitempty"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
	LastLoginIP      string     `json:"lastLoginIp,omitempty"`
	LoginAttempts    int        `json:"-"`
	LockUntil        *time.Time `json:"-"`

	TwoFactorEnabled     bool               `json:"twoFactorEnabled"`
	TwoFactorSecret      string             `json:"-"`
	TwoFactorBackupCodes []BackupCode       `json:"-"`
	SecurityQuestions    []SecurityQuestion `json:"-"`

	NotificationPreferences NotificationPreferences `json:"notificationPreferences"`
	BankDetails             BankDetails             `json:"bankDetails"`

	ProfileCompletion int            `json:"profileCompletion"`
	Avatar            string         `json:"avatar,omitempty"`
	Currency          Currency       `json:"currency" validate:"enum"`
	Language          Language       `json:"language" validate:"enum"`
	Timezone          string         `json:"timezone"`
	Country           string         `json:"country"`
	Devices           []Device       `json:"devices"`
	MembershipTier    MembershipTier `json:"membershipTier" validate:"enum"`
	LoyaltyPoints     int            `json:"loyaltyPoints" validate:"gte=0"`

	CreatedBy *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewUser returns a user with every default applied
func NewUser(fullName, email, phone string) *User {
	return &User{
		FullName:                strings.TrimSpace(fullName),
		Email:                   NormalizeEmail(email),
		Phone:                   strings.TrimSpace(phone),
		Role:                    UserRoleUser,
		KYCLevel:                KYCLevelNone,
		RiskTolerance:           RiskMedium,
		InvestmentStrategy:      StrategyBalanced,
		PreferredMaterials:      []MaterialType{},
		IsActive:                true,
		NotificationPreferences: DefaultNotificationPreferences(),
		Currency:                CurrencyNGN,
		Language:                LanguageEnglish,
		Timezone:                DefaultTimezone,
		Country:                 DefaultCountry,
		Devices:                 []Device{},
		MembershipTier:          TierStandard,
	}
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate reports every field that breaks a user constraint
func (u *User) Validate() error {
	return ValidateStruct(u).OrNil()
}

// IsLocked reports whether a lockout is in force at now
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// AccountAgeDays returns whole days since the account was created
func (u *User) AccountAgeDays(now time.Time) int {
	if u.CreatedAt.IsZero() || now.Before(u.CreatedAt) {
		return 0
	}
	return int(now.Sub(u.CreatedAt) / (24 * time.Hour))
}

// IsSuspendedAt reports whether a suspension is in force at now.
// A suspension without an end date lasts until lifted.
func (u *User) IsSuspendedAt(now time.Time) bool {
	if !u.IsSuspended {
		return false
	}
	return u.SuspensionUntil == nil || u.SuspensionUntil.After(now)
}

// CanLogin rejects deactivated and suspended accounts
func (u *User) CanLogin(now time.Time) error {
	if !u.IsActive || u.IsSuspendedAt(now) {
		return domainerrors.ErrAccountSuspended
	}
	return nil
}

// ComputeProfileCompletion scores how complete the profile is, capped at 100
func (u *User) ComputeProfileCompletion() int {
	score := 0
	if u.FullName != "" {
		score += 15
	}
	if u.Email != "" {
		score += 15
	}
	if u.Phone != "" {
		score += 15
	}
	if u.KYCVerified {
		score += 25
	}
	if u.BankDetails.BankName != "" {
		score += 15
	}
	if u.Avatar != "" {
		score += 5
	}
	if u.Country != "" && u.Country != DefaultCountry {
		score += 5
	}
	if u.TwoFactorEnabled {
		score += 5
	}
	if score > 100 {
		return 100
	}
	return score
}

// PrepareForSave applies the derived fields every mutating save recomputes
func (u *User) PrepareForSave() {
	u.Email = NormalizeEmail(u.Email)
	if u.ReferralCode == "" && u.ID != uuid.Nil {
		u.ReferralCode = utils.ReferralCodeFromID(u.ID)
	}
	u.ProfileCompletion = u.ComputeProfileCompletion()
}

// SetPasswordHash records a new credential. The change time is backdated one
// second so a token issued in the same second stays valid.
func (u *User) SetPasswordHash(hash string, now time.Time) {
	changed := now.Add(-time.Second)
	u.PasswordHash = hash
	u.PasswordChangedAt = &changed
	u.ClearPasswordReset()
}

// ChangedPasswordAfter reports whether a token issued at issuedAt predates
// the last password change, compared at second precision.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// LoginAttemptUpdate is the store-side change one failed login produces
type LoginAttemptUpdate struct {
	// ResetAttempts sets the counter to 1 and clears the lock
	ResetAttempts bool
	// LockUntil is set when this attempt starts a lock episode
	LockUntil *time.Time
}

// FailedLoginTransition decides how a failed login moves the lockout state.
// The counter increment itself must be applied atomically by the store.
func (u *User) FailedLoginTransition(now time.Time) LoginAttemptUpdate {
	if u.LockUntil != nil && u.LockUntil.Before(now) {
		return LoginAttemptUpdate{ResetAttempts: true}
	}

	next := u.LoginAttempts + 1
	if u.IsLocked(now) {
		return LoginAttemptUpdate{}
	}

	var lock time.Time
	switch {
	case next >= HardLockThreshold:
		lock = now.Add(HardLockDuration)
	case next >= SoftLockThreshold:
		lock = now.Add(SoftLockDuration)
	default:
		return LoginAttemptUpdate{}
	}
	return LoginAttemptUpdate{LockUntil: &lock}
}

// ApplyLoginAttempt mirrors a store-side attempt update onto the in-memory user
func (u *User) ApplyLoginAttempt(update LoginAttemptUpdate) {
	if update.ResetAttempts {
		u.LoginAttempts = 1
		u.LockUntil = nil
		return
	}
	u.LoginAttempts++
	if update.LockUntil != nil {
		u.LockUntil = update.LockUntil
	}
}

// RecordSuccessfulLogin clears the lockout state and stamps the login
func (u *User) RecordSuccessfulLogin(now time.Time, ip string) {
	u.LoginAttempts = 0
	u.LockUntil = nil
	u.LastLogin = &now
	u.LastLoginIP = ip
}

// IssuePasswordReset stores the digest of a fresh reset token and returns the raw token
func (u *User) IssuePasswordReset(now time.Time) (string, error) {
	raw, hashed, err := crypto.GenerateResetToken()
	if err != nil {
		return "", err
	}
	expires := now.Add(PasswordResetTTL)
	u.PasswordResetToken = hashed
	u.PasswordResetExpires = &expires
	return raw, nil
}

// VerifyPasswordReset checks a submitted reset token against the stored digest
func (u *User) VerifyPasswordReset(raw string, now time.Time) error {
	if !crypto.TokenMatchesHash(raw, u.PasswordResetToken) {
		return domainerrors.ErrInvalidToken
	}
	if u.PasswordResetExpires == nil || !u.PasswordResetExpires.After(now) {
		return domainerrors.ErrTokenExpired
	}
	return nil
}

func (u *User) ClearPasswordReset() {
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
}

// ReplaceBackupCodes stores hashes of freshly generated codes
func (u *User) ReplaceBackupCodes(raw []string) {
	codes := make([]BackupCode, 0, len(raw))
	for _, c := range raw {
		codes = append(codes, BackupCode{CodeHash: crypto.HashToken(c)})
	}
	u.TwoFactorBackupCodes = codes
}

// EnableTwoFactor turns on backup-code sign-in with a fresh set of codes
func (u *User) EnableTwoFactor(raw []string) {
	u.ReplaceBackupCodes(raw)
	u.TwoFactorEnabled = true
}

// DisableTwoFactor turns backup-code sign-in off and discards the codes
func (u *User) DisableTwoFactor() {
	u.TwoFactorEnabled = false
	u.TwoFactorBackupCodes = nil
}

// RedeemBackupCode marks a matching unused code as used
func (u *User) RedeemBackupCode(raw string, now time.Time) bool {
	for i := range u.TwoFactorBackupCodes {
		c := &u.TwoFactorBackupCodes[i]
		if c.Used || !crypto.TokenMatchesHash(strings.ToUpper(raw), c.CodeHash) {
			continue
		}
		c.Used = true
		c.UsedAt = &now
		return true
	}
	return false
}

// ApplyKYCDecision records a reviewer's verdict on the submitted documents
func (u *User) ApplyKYCDecision(approved bool, level KYCLevel, reason string, reviewer uuid.UUID, now time.Time) {
	u.KYCData.VerifiedBy = &reviewer
	if approved {
		u.KYCVerified = true
		u.KYCLevel = level
		u.KYCData.VerifiedAt = &now
		u.KYCData.RejectionReason = ""
		return
	}
	u.KYCVerified = false
	u.KYCData.VerifiedAt = nil
	u.KYCData.RejectionReason = reason
}

// MeetsKYCLevel reports whether the user's verification satisfies required
func (u *User) MeetsKYCLevel(required KYCLevel) bool {
	if required == KYCLevelNone || required == "" {
		return true
	}
	return u.KYCVerified && u.KYCLevel.Rank() >= required.Rank()
}

// UserProfile is the serialized view of a user, including derived fields
type UserProfile struct {
	*User
	IsLocked       bool `json:"isLocked"`
	AccountAgeDays int  `json:"accountAgeDays"`
}

// Profile builds the outbound view with money rounded to two decimals
func (u *User) Profile(now time.Time) UserProfile {
	view := *u
	view.Balance = utils.RoundMoney(u.Balance)
	view.TotalEarnings = utils.RoundMoney(u.TotalEarnings)
	view.ReferralEarnings = utils.RoundMoney(u.ReferralEarnings)
	view.TotalInvested = utils.RoundMoney(u.TotalInvested)
	view.TotalWithdrawn = utils.RoundMoney(u.TotalWithdrawn)
	return UserProfile{
		User:           &view,
		IsLocked:       u.IsLocked(now),
		AccountAgeDays: u.AccountAgeDays(now),
	}
}

// TopInvestor is the projection returned by the leaderboard query
type TopInvestor struct {
	ID             uuid.UUID      `json:"id"`
	FullName       string         `json:"fullName"`
	Email          string         `json:"email"`
	TotalInvested  float64        `json:"totalInvested"`
	TotalEarnings  float64        `json:"totalEarnings"`
	MembershipTier MembershipTier `json:"membershipTier"`
	Avatar         string         `json:"avatar,omitempty"`
}

// UserStats aggregates the whole user base
type UserStats struct {
	TotalUsers    int64   `json:"totalUsers"`
	ActiveUsers   int64   `json:"activeUsers"`
	VerifiedUsers int64   `json:"verifiedUsers"`
	TotalBalance  float64 `json:"totalBalance"`
	TotalInvested float64 `json:"totalInvested"`
	AvgBalance    float64 `json:"avgBalance"`
}

// RegisterInput represents input for creating an account
type RegisterInput struct {
	FullName     string `json:"fullName" validate:"required,max=100,fullname"`
	Email        string `json:"email" validate:"required,emailaddr"`
	Phone        string `json:"phone" validate:"required,phone"`
	Password     string `json:"password" validate:"required,password"`
	ReferralCode string `json:"referralCode,omitempty"`
	Country      string `json:"country,omitempty" validate:"omitempty,len=2"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email      string      `json:"email" validate:"required"`
	Password   string      `json:"password" validate:"required"`
	BackupCode string      `json:"backupCode,omitempty"`
	UseSession bool        `json:"useSession"`
	Device     *DeviceInfo `json:"device,omitempty"`
	IPAddress  string      `json:"-"`
}

// ChangePasswordInput represents input for changing a password while signed in
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

// TwoFactorCodeInput carries one backup code
type TwoFactorCodeInput struct {
	Code string `json:"code" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,emailaddr"`
}

type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,password"`
}

// UpdateProfileInput carries the self-service profile fields; nil means unchanged
type UpdateProfileInput struct {
	FullName                *string                  `json:"fullName,omitempty" validate:"omitempty,max=100,fullname"`
	Phone                   *string                  `json:"phone,omitempty" validate:"omitempty,phone"`
	Avatar                  *string                  `json:"avatar,omitempty" validate:"omitempty,max=500"`
	Country                 *string                  `json:"country,omitempty" validate:"omitempty,len=2"`
	Timezone                *string                  `json:"timezone,omitempty" validate:"omitempty,max=64"`
	Currency                *Currency                `json:"currency,omitempty" validate:"omitempty,enum"`
	Language                *Language                `json:"language,omitempty" validate:"omitempty,enum"`
	RiskTolerance           *RiskLevel               `json:"riskTolerance,omitempty" validate:"omitempty,enum"`
	InvestmentStrategy      *InvestmentStrategy      `json:"investmentStrategy,omitempty" validate:"omitempty,enum"`
	PreferredMaterials      []MaterialType           `json:"preferredMaterials,omitempty" validate:"omitempty,dive,enum"`
	NotificationPreferences *NotificationPreferences `json:"notificationPreferences,omitempty"`
	BankDetails             *BankDetailsInput        `json:"bankDetails,omitempty"`
}

// BankDetailsInput replaces the bank account; verification is reset on change
type BankDetailsInput struct {
	BankName      string `json:"bankName" validate:"required,max=100"`
	AccountName   string `json:"accountName" validate:"required,max=100"`
	AccountNumber string `json:"accountNumber" validate:"required,numeric,min=6,max=20"`
	BankCode      string `json:"bankCode,omitempty" validate:"omitempty,max=20"`
}

// Apply merges the update into u. A changed bank account loses its verification.
func (in UpdateProfileInput) Apply(u *User) {
	if in.FullName != nil {
		u.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Avatar != nil {
		u.Avatar = *in.Avatar
	}
	if in.Country != nil {
		u.Country = strings.ToUpper(*in.Country)
	}
	if in.Timezone != nil {
		u.Timezone = *in.Timezone
	}
	if in.Currency != nil {
		u.Currency = *in.Currency
	}
	if in.Language != nil {
		u.Language = *in.Language
	}
	if in.RiskTolerance != nil {
		u.RiskTolerance = *in.RiskTolerance
	}
	if in.InvestmentStrategy != nil {
		u.InvestmentStrategy = *in.InvestmentStrategy
	}
	if in.PreferredMaterials != nil {
		u.PreferredMaterials = in.PreferredMaterials
	}
	if in.NotificationPreferences != nil {
		u.NotificationPreferences = *in.NotificationPreferences
	}
	if in.BankDetails != nil {
		b := in.BankDetails
		if b.AccountNumber != u.BankDetails.AccountNumber || b.BankName != u.BankDetails.BankName {
			u.BankDetails.Verified = false
			u.BankDetails.VerifiedAt = nil
		}
		u.BankDetails.BankName = b.BankName
		u.BankDetails.AccountName = b.AccountName
		u.BankDetails.AccountNumber = b.AccountNumber
		u.BankDetails.BankCode = b.BankCode
	}
}

// KYCDecisionInput is an administrator's review of a user's documents
type KYCDecisionInput struct {
	Approved bool     `json:"approved"`
	Level    KYCLevel `json:"level" validate:"omitempty,enum"`
	Reason   string   `json:"reason,omitempty" validate:"max=500"`
}
