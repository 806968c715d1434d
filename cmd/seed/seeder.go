package main

import (
	"context"
	"errors"
	"fmt"
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

type planCreator interface {
	CreatePlan(ctx context.Context, actingUserID uuid.UUID, input *entities.CreatePlanInput) (*entities.PlanView, error)
}

type account struct {
	fullName, email, phone, password string
	role                             entities.UserRole
	kycLevel                         entities.KYCLevel
	balance                          float64
	currency                         entities.Currency
	tier                             entities.MembershipTier
	referralCode                     string
	bank                             entities.BankDetails
}

var (
	adminAccount = account{
		fullName: "System Administrator", email: "admin@rawwealthy.com", phone: "+2348000000000", password: "Admin123!",
		role: entities.UserRoleAdmin, kycLevel: entities.KYCLevelFull,
		currency: entities.CurrencyUSD, tier: entities.TierElite, referralCode: "ADMIN001",
		bank: entities.BankDetails{BankName: "Admin Bank", AccountName: "Raw Wealthy Admin", AccountNumber: "0000000000"},
	}
	demoAccount = account{
		fullName: "Demo User", email: "user@rawwealthy.com", phone: "+2348112223333", password: "User123!",
		role: entities.UserRoleUser, kycLevel: entities.KYCLevelEnhanced, balance: 500000,
		currency: entities.CurrencyNGN, tier: entities.TierPremium, referralCode: "DEMO1234",
		bank: entities.BankDetails{BankName: "Demo Bank", AccountName: "Demo User", AccountNumber: "1234567890"},
	}
)

type summary struct {
	UsersCreated int
	PlansCreated int
	PlansSkipped int
}

// seeder loads the launch accounts and catalogue. Rows that already exist are
// left untouched, so it can run on every deploy.
type seeder struct {
	users   repositories.UserRepository
	plans   repositories.InvestmentPlanRepository
	creator planCreator
	cost    int
	now     func() time.Time
}

func (s *seeder) run(ctx context.Context) (*summary, error) {
	var out summary

	admin, created, err := s.ensureUser(ctx, adminAccount, nil)
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	if created {
		out.UsersCreated++
	}

	_, created, err = s.ensureUser(ctx, demoAccount, admin)
	if err != nil {
		return nil, fmt.Errorf("seed demo user: %w", err)
	}
	if created {
		out.UsersCreated++
	}

	for _, row := range catalogue {
		_, err := s.plans.GetByName(ctx, row.name)
		if err == nil {
			out.PlansSkipped++
			continue
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, fmt.Errorf("lookup plan %q: %w", row.name, err)
		}
		if _, err := s.creator.CreatePlan(ctx, admin.ID, row.input()); err != nil {
			return nil, fmt.Errorf("create plan %q: %w", row.name, err)
		}
		out.PlansCreated++
	}
	return &out, nil
}

func (s *seeder) ensureUser(ctx context.Context, acct account, referrer *entities.User) (*entities.User, bool, error) {
	existing, err := s.users.GetByEmail(ctx, acct.email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, false, err
	}

	hash, err := crypto.HashPasswordWithCost(acct.password, s.cost)
	if err != nil {
		return nil, false, err
	}

	now := s.now()
	user := entities.NewUser(acct.fullName, acct.email, acct.phone)
	user.ID = utils.GenerateUUIDv7()
	user.SetPasswordHash(hash, now)
	user.Role = acct.role
	user.KYCVerified = true
	user.KYCLevel = acct.kycLevel
	user.KYCData.VerifiedAt = &now
	user.Balance = acct.balance
	user.Currency = acct.currency
	user.MembershipTier = acct.tier
	user.ReferralCode = acct.referralCode
	user.BankDetails = acct.bank
	user.BankDetails.Verified = true
	user.BankDetails.VerifiedAt = &now
	if referrer != nil {
		user.ReferredBy = &referrer.ID
	}
	user.PrepareForSave()
	if err := user.Validate(); err != nil {
		return nil, false, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	if referrer != nil {
		if err := s.users.IncrementReferralCount(ctx, referrer.ID); err != nil {
			return nil, false, err
		}
	}
	logger.Info(ctx, "Seeded account", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return user, true, nil
}
