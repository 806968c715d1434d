package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"type:varchar(100);not null"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone    string    `gorm:"type:varchar(32);not null"`

	PasswordHash         string      `gorm:"type:varchar(255);not null"`
	PasswordChangedAt    null.Time   `gorm:"type:timestamptz"`
	PasswordResetToken   null.String `gorm:"type:varchar(64);index"`
	PasswordResetExpires null.Time   `gorm:"type:timestamptz"`

	Role string `gorm:"type:varchar(20);not null"`

	Balance          float64 `gorm:"type:numeric(20,2);not null"`
	TotalEarnings    float64 `gorm:"type:numeric(20,2);not null"`
	ReferralEarnings float64 `gorm:"type:numeric(20,2);not null"`
	TotalInvested    float64 `gorm:"type:numeric(20,2);not null;index"`
	TotalWithdrawn   float64 `gorm:"type:numeric(20,2);not null"`

	ReferralCode  string     `gorm:"type:varchar(16);uniqueIndex"`
	ReferredBy    *uuid.UUID `gorm:"type:uuid;index"`
	ReferralCount int        `gorm:"not null"`

	KYCVerified bool    `gorm:"not null"`
	KYCLevel    string  `gorm:"type:varchar(20);not null"`
	KYC         KYCData `gorm:"embedded;embeddedPrefix:kyc_"`

	RiskTolerance      string         `gorm:"type:varchar(20)"`
	InvestmentStrategy string         `gorm:"type:varchar(20)"`
	PreferredMaterials pq.StringArray `gorm:"type:text[]"`

	IsActive         bool        `gorm:"not null;index:idx_users_active_suspended,priority:1"`
	IsSuspended      bool        `gorm:"not null;index:idx_users_active_suspended,priority:2"`
	SuspensionReason null.String `gorm:"type:varchar(500)"`
	SuspensionUntil  null.Time   `gorm:"type:timestamptz"`
	LastLogin        null.Time   `gorm:"type:timestamptz"`
	LastLoginIP      null.String `gorm:"type:varchar(64)"`
	LoginAttempts    int         `gorm:"not null"`
	LockUntil        null.Time   `gorm:"type:timestamptz"`

	TwoFactorEnabled     bool               `gorm:"not null"`
	TwoFactorSecret      null.String        `gorm:"type:varchar(255)"`
	TwoFactorBackupCodes []BackupCode       `gorm:"type:jsonb;serializer:json"`
	SecurityQuestions    []SecurityQuestion `gorm:"type:jsonb;serializer:json"`

	NotificationPreferences NotificationPreferences `gorm:"type:jsonb;serializer:json"`
	Bank                    BankDetails             `gorm:"embedded;embeddedPrefix:bank_"`

	ProfileCompletion int         `gorm:"not null"`
	Avatar            null.String `gorm:"type:varchar(500)"`
	Currency          string      `gorm:"type:varchar(3);not null"`
	Language          string      `gorm:"type:varchar(2);not null"`
	Timezone          string      `gorm:"type:varchar(64)"`
	Country           string      `gorm:"type:varchar(2);index"`
	MembershipTier    string      `gorm:"type:varchar(20);index"`
	LoyaltyPoints     int         `gorm:"not null"`

	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type KYCData struct {
	IDType          null.String `gorm:"type:varchar(20)"`
	IDNumber        null.String `gorm:"type:varchar(64)"`
	IDFront         null.String `gorm:"type:varchar(500)"`
	IDBack          null.String `gorm:"type:varchar(500)"`
	SelfieWithID    null.String `gorm:"type:varchar(500)"`
	VerifiedAt      null.Time   `gorm:"type:timestamptz"`
	VerifiedBy      *uuid.UUID  `gorm:"type:uuid"`
	RejectionReason null.String `gorm:"type:varchar(500)"`
}

type BankDetails struct {
	Name          null.String `gorm:"type:varchar(100)"`
	AccountName   null.String `gorm:"type:varchar(100)"`
	AccountNumber null.String `gorm:"type:varchar(20)"`
	Code          null.String `gorm:"type:varchar(20)"`
	Verified      bool
	VerifiedAt    null.Time `gorm:"type:timestamptz"`
}

type BackupCode struct {
	CodeHash string     `json:"code_hash"`
	Used     bool       `json:"used"`
	UsedAt   *time.Time `json:"used_at,omitempty"`
}

type SecurityQuestion struct {
	Question   string `json:"question"`
	AnswerHash string `json:"answer_hash"`
}

type NotificationPreferences struct {
	Email EmailPreferences `json:"email"`
	SMS   SMSPreferences   `json:"sms"`
	Push  PushPreferences  `json:"push"`
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

// UserDevice is one entry of a user's device list
type UserDevice struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeviceID  string          `gorm:"type:varchar(128);not null;index"`
	UserAgent null.String     `gorm:"type:varchar(512)"`
	IPAddress null.String     `gorm:"type:varchar(64)"`
	Location  *DeviceLocation `gorm:"type:jsonb;serializer:json"`
	LastUsed  time.Time       `gorm:"type:timestamptz"`
	IsCurrent bool            `gorm:"not null"`
	Position  int             `gorm:"not null"`
	CreatedAt time.Time
}

type DeviceLocation struct {
	Country  string `json:"country,omitempty"`
	City     string `json:"city,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

func (UserDevice) TableName() string {
	return "user_devices"
}
