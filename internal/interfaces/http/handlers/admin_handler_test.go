package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rawwealthy.backend/internal/domain/entities"
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/internal/usecases"
	"rawwealthy.backend/pkg/utils"
)

type adminServiceStub struct {
	listFn  func(ctx context.Context, search string, page, limit int) (*usecases.UserList, error)
	topFn   func(ctx context.Context, limit int) ([]entities.TopInvestor, error)
	statsFn func(ctx context.Context) (*entities.UserStats, error)
	kycFn   func(ctx context.Context, actingUserID, userID uuid.UUID, input *entities.KYCDecisionInput) (*entities.UserProfile, error)
}

func (s adminServiceStub) ListUsers(ctx context.Context, search string, page, limit int) (*usecases.UserList, error) {
	return s.listFn(ctx, search, page, limit)
}
func (s adminServiceStub) TopInvestors(ctx context.Context, limit int) ([]entities.TopInvestor, error) {
	return s.topFn(ctx, limit)
}
func (s adminServiceStub) Stats(ctx context.Context) (*entities.UserStats, error) {
	return s.statsFn(ctx)
}
func (s adminServiceStub) ReviewKYC(ctx context.Context, actingUserID, userID uuid.UUID, input *entities.KYCDecisionInput) (*entities.UserProfile, error) {
	return s.kycFn(ctx, actingUserID, userID, input)
}

func TestAdminHandler_Reports(t *testing.T) {
	var gotSearch string
	var gotLimit int
	h := NewAdminHandler(adminServiceStub{
		listFn: func(_ context.Context, search string, page, limit int) (*usecases.UserList, error) {
			gotSearch = search
			return &usecases.UserList{Pagination: utils.CalculateMeta(0, page, limit)}, nil
		},
		topFn: func(_ context.Context, limit int) ([]entities.TopInvestor, error) {
			gotLimit = limit
			return []entities.TopInvestor{{FullName: "Ada Obi", TotalInvested: 5000}}, nil
		},
		statsFn: func(context.Context) (*entities.UserStats, error) {
			return nil, errors.New("database is down")
		},
	})
	r := newTestRouter()
	r.GET("/users", h.ListUsers)
	r.GET("/users/top-investors", h.TopInvestors)
	r.GET("/users/stats", h.GetStats)

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/users?search=ada", nil).Code)
	assert.Equal(t, "ada", gotSearch)

	rec := doJSON(r, http.MethodGet, "/users/top-investors?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, gotLimit)
	assert.Len(t, decodeBody(t, rec)["investors"], 1)

	doJSON(r, http.MethodGet, "/users/top-investors", nil)
	assert.Equal(t, 0, gotLimit)

	rec = doJSON(r, http.MethodGet, "/users/stats", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "database is down")
}

func TestAdminHandler_ReviewKYC(t *testing.T) {
	reviewer := uuid.New()
	target := uuid.New()
	var gotReviewer uuid.UUID
	h := NewAdminHandler(adminServiceStub{
		kycFn: func(_ context.Context, acting, userID uuid.UUID, input *entities.KYCDecisionInput) (*entities.UserProfile, error) {
			gotReviewer = acting
			if !input.Approved && input.Reason == "" {
				return nil, domainerrors.NewValidationError("reason", "is required when rejecting")
			}
			return &entities.UserProfile{User: &entities.User{ID: userID, KYCVerified: input.Approved}}, nil
		},
	})
	r := newTestRouter()
	r.PUT("/users/:id/kyc", asUser(reviewer, "moderator"), h.ReviewKYC)

	rec := doJSON(r, http.MethodPut, "/users/"+target.String()+"/kyc", map[string]interface{}{"approved": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reviewer, gotReviewer)

	rec = doJSON(r, http.MethodPut, "/users/"+target.String()+"/kyc", map[string]interface{}{"approved": false})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(r, http.MethodPut, "/users/nope/kyc", map[string]interface{}{"approved": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
