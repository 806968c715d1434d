package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		password_changed_at DATETIME,
		password_reset_token TEXT,
		password_reset_expires DATETIME,
		role TEXT NOT NULL,
		balance REAL NOT NULL DEFAULT 0,
		total_earnings REAL NOT NULL DEFAULT 0,
		referral_earnings REAL NOT NULL DEFAULT 0,
		total_invested REAL NOT NULL DEFAULT 0,
		total_withdrawn REAL NOT NULL DEFAULT 0,
		referral_code TEXT UNIQUE,
		referred_by TEXT,
		referral_count INTEGER NOT NULL DEFAULT 0,
		kyc_verified BOOLEAN NOT NULL DEFAULT 0,
		kyc_level TEXT NOT NULL,
		kyc_id_type TEXT,
		kyc_id_number TEXT,
		kyc_id_front TEXT,
		kyc_id_back TEXT,
		kyc_selfie_with_id TEXT,
		kyc_verified_at DATETIME,
		kyc_verified_by TEXT,
		kyc_rejection_reason TEXT,
		risk_tolerance TEXT,
		investment_strategy TEXT,
		preferred_materials TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		is_suspended BOOLEAN NOT NULL DEFAULT 0,
		suspension_reason TEXT,
		suspension_until DATETIME,
		last_login DATETIME,
		last_login_ip TEXT,
		login_attempts INTEGER NOT NULL DEFAULT 0,
		lock_until DATETIME,
		two_factor_enabled BOOLEAN NOT NULL DEFAULT 0,
		two_factor_secret TEXT,
		two_factor_backup_codes TEXT,
		security_questions TEXT,
		notification_preferences TEXT,
		bank_name TEXT,
		bank_account_name TEXT,
		bank_account_number TEXT,
		bank_code TEXT,
		bank_verified BOOLEAN NOT NULL DEFAULT 0,
		bank_verified_at DATETIME,
		profile_completion INTEGER NOT NULL DEFAULT 0,
		avatar TEXT,
		currency TEXT NOT NULL,
		language TEXT NOT NULL,
		timezone TEXT,
		country TEXT,
		membership_tier TEXT,
		loyalty_points INTEGER NOT NULL DEFAULT 0,
		created_by TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE user_devices (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		device_id TEXT NOT NULL,
		user_agent TEXT,
		ip_address TEXT,
		location TEXT,
		last_used DATETIME,
		is_current BOOLEAN NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME
	);`)
}

func createPlanTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE investment_plans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		material_type TEXT NOT NULL,
		material_subtype TEXT,
		category TEXT NOT NULL,
		risk_level TEXT NOT NULL,
		min_amount REAL NOT NULL,
		max_amount REAL NOT NULL,
		daily_interest REAL NOT NULL,
		total_interest REAL NOT NULL,
		duration INTEGER NOT NULL,
		duration_unit TEXT NOT NULL,
		compounding_enabled BOOLEAN NOT NULL DEFAULT 0,
		compounding_frequency TEXT NOT NULL,
		current_price REAL NOT NULL,
		price_unit TEXT,
		price_change_24h REAL,
		market_cap REAL,
		daily_volume REAL,
		features TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		is_popular BOOLEAN NOT NULL DEFAULT 0,
		is_featured BOOLEAN NOT NULL DEFAULT 0,
		requires_kyc BOOLEAN NOT NULL DEFAULT 0,
		kyc_level_required TEXT,
		available_countries TEXT,
		early_termination_fee REAL,
		auto_renew_enabled BOOLEAN NOT NULL DEFAULT 0,
		total_investors INTEGER NOT NULL DEFAULT 0,
		total_invested REAL NOT NULL DEFAULT 0,
		success_rate REAL,
		historical_returns TEXT,
		terms_conditions TEXT,
		risk_disclaimer TEXT,
		regulatory_status TEXT,
		license_number TEXT,
		images TEXT,
		color_primary TEXT,
		color_secondary TEXT,
		created_by TEXT NOT NULL,
		last_updated_by TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}
