package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rawwealthy.backend/internal/domain/entities"
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/internal/domain/repositories"
	"rawwealthy.backend/pkg/crypto"
)

type memoryUsers struct {
	repositories.UserRepository
	byEmail map[string]*entities.User
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	if u, ok := m.byEmail[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, domainerrors.ErrNotFound
}

func (m *memoryUsers) Create(_ context.Context, user *entities.User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *memoryUsers) IncrementReferralCount(_ context.Context, id uuid.UUID) error {
	for _, u := range m.byEmail {
		if u.ID == id {
			u.ReferralCount++
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

type memoryPlans struct {
	repositories.InvestmentPlanRepository
	names   map[string]bool
	created []*entities.CreatePlanInput
	by      uuid.UUID
}

func (m *memoryPlans) GetByName(_ context.Context, name string) (*entities.InvestmentPlan, error) {
	if m.names[name] {
		return &entities.InvestmentPlan{Name: name}, nil
	}
	return nil, domainerrors.ErrNotFound
}

func (m *memoryPlans) CreatePlan(_ context.Context, acting uuid.UUID, input *entities.CreatePlanInput) (*entities.PlanView, error) {
	m.by = acting
	m.names[input.Name] = true
	m.created = append(m.created, input)
	return &entities.PlanView{InvestmentPlan: &entities.InvestmentPlan{Name: input.Name}}, nil
}

func newTestSeeder() (*seeder, *memoryUsers, *memoryPlans) {
	users := &memoryUsers{byEmail: map[string]*entities.User{}}
	plans := &memoryPlans{names: map[string]bool{}}
	return &seeder{
		users:   users,
		plans:   plans,
		creator: plans,
		cost:    bcrypt.MinCost,
		now:     func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	}, users, plans
}

func TestSeeder_RunIsIdempotent(t *testing.T) {
	s, users, plans := newTestSeeder()

	first, err := s.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.UsersCreated)
	assert.Equal(t, len(catalogue), first.PlansCreated)
	assert.Zero(t, first.PlansSkipped)

	admin := users.byEmail["admin@rawwealthy.com"]
	require.NotNil(t, admin)
	assert.Equal(t, entities.UserRoleAdmin, admin.Role)
	assert.Equal(t, "ADMIN001", admin.ReferralCode)
	assert.Equal(t, 1, admin.ReferralCount)
	assert.True(t, crypto.CheckPassword(adminAccount.password, admin.PasswordHash))
	assert.Equal(t, admin.ID, plans.by)

	demo := users.byEmail["user@rawwealthy.com"]
	require.NotNil(t, demo)
	require.NotNil(t, demo.ReferredBy)
	assert.Equal(t, admin.ID, *demo.ReferredBy)
	assert.Equal(t, 500000.0, demo.Balance)
	assert.True(t, demo.BankDetails.Verified)

	second, err := s.run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.UsersCreated)
	assert.Zero(t, second.PlansCreated)
	assert.Equal(t, len(catalogue), second.PlansSkipped)
	assert.Equal(t, 1, admin.ReferralCount)
}

type failingPlans struct {
	repositories.InvestmentPlanRepository
}

func (failingPlans) GetByName(context.Context, string) (*entities.InvestmentPlan, error) {
	return nil, errors.New("connection reset")
}

func TestSeeder_StopsOnLookupFailure(t *testing.T) {
	s, _, _ := newTestSeeder()
	s.plans = failingPlans{}

	_, err := s.run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Gold Premium")
}

func TestCatalogue_RowsAreValidPlans(t *testing.T) {
	seen := map[string]bool{}
	for _, row := range catalogue {
		require.False(t, seen[row.name], "duplicate plan %s", row.name)
		seen[row.name] = true

		plan := entities.NewInvestmentPlan(*row.input(), uuid.New())
		changed, err := plan.ReconcileRates(entities.ReconcileReject)
		require.NoError(t, err, row.name)
		assert.False(t, changed, row.name)
		assert.NoError(t, plan.Validate(), row.name)
		assert.Equal(t, row.kyc != "", plan.RequiresKYC, row.name)
	}
}
