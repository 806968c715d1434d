package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rawwealthy.backend/internal/domain/entities"
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/internal/usecases"
)

type userServiceStub struct {
	getFn      func(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error)
	updateFn   func(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.UserProfile, error)
	deviceFn   func(ctx context.Context, userID uuid.UUID, info entities.DeviceInfo) ([]entities.Device, error)
	codesFn    func(ctx context.Context, userID uuid.UUID) ([]string, error)
	disableFn  func(ctx context.Context, userID uuid.UUID, input *entities.TwoFactorCodeInput) (*entities.UserProfile, error)
	referralFn func(ctx context.Context, code string) (*usecases.ReferralInfo, error)
}

func (s userServiceStub) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error) {
	return s.getFn(ctx, userID)
}
func (s userServiceStub) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.UserProfile, error) {
	return s.updateFn(ctx, userID, input)
}
func (s userServiceStub) RegisterDevice(ctx context.Context, userID uuid.UUID, info entities.DeviceInfo) ([]entities.Device, error) {
	return s.deviceFn(ctx, userID, info)
}
func (s userServiceStub) RegenerateBackupCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.codesFn(ctx, userID)
}
func (s userServiceStub) DisableTwoFactor(ctx context.Context, userID uuid.UUID, input *entities.TwoFactorCodeInput) (*entities.UserProfile, error) {
	return s.disableFn(ctx, userID, input)
}
func (s userServiceStub) LookupReferral(ctx context.Context, code string) (*usecases.ReferralInfo, error) {
	return s.referralFn(ctx, code)
}

func TestUserHandler_Profile(t *testing.T) {
	id := uuid.New()
	var gotInput *entities.UpdateProfileInput
	h := NewUserHandler(userServiceStub{
		getFn: func(_ context.Context, userID uuid.UUID) (*entities.UserProfile, error) {
			return &entities.UserProfile{User: &entities.User{ID: userID, FullName: "Ada Obi"}}, nil
		},
		updateFn: func(_ context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.UserProfile, error) {
			gotInput = input
			if input.Phone != nil && len(*input.Phone) < 7 {
				return nil, domainerrors.NewValidationError("phone", "is not a valid phone number")
			}
			return &entities.UserProfile{User: &entities.User{ID: userID, FullName: *input.FullName}}, nil
		},
	})
	r := newTestRouter()
	r.GET("/profile", asUser(id, "user"), h.GetProfile)
	r.PUT("/profile", asUser(id, "user"), h.UpdateProfile)
	r.GET("/anon", h.GetProfile)

	rec := doJSON(r, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada Obi", decodeBody(t, rec)["user"].(map[string]interface{})["fullName"])

	rec = doJSON(r, http.MethodPut, "/profile", map[string]string{"fullName": "Ada N. Obi"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotInput.FullName)
	assert.Nil(t, gotInput.Phone)

	rec = doJSON(r, http.MethodPut, "/profile", map[string]string{"phone": "12"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodGet, "/anon", nil).Code)
}

func TestUserHandler_RegisterDeviceFillsRequestDetails(t *testing.T) {
	id := uuid.New()
	var got entities.DeviceInfo
	h := NewUserHandler(userServiceStub{
		deviceFn: func(_ context.Context, _ uuid.UUID, info entities.DeviceInfo) ([]entities.Device, error) {
			got = info
			return []entities.Device{{DeviceID: info.DeviceID, IsCurrent: true, LastUsed: time.Now()}}, nil
		},
	})
	r := newTestRouter()
	r.POST("/devices", asUser(id, "user"), h.RegisterDevice)

	rec := doJSON(r, http.MethodPost, "/devices", map[string]string{"deviceId": "tablet"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tablet", got.DeviceID)
	assert.NotEmpty(t, got.IPAddress)
	assert.Len(t, decodeBody(t, rec)["devices"], 1)
}

func TestUserHandler_BackupCodesAndReferral(t *testing.T) {
	id := uuid.New()
	h := NewUserHandler(userServiceStub{
		codesFn: func(context.Context, uuid.UUID) ([]string, error) {
			return []string{"AAAA1111", "BBBB2222"}, nil
		},
		referralFn: func(_ context.Context, code string) (*usecases.ReferralInfo, error) {
			if code == "ADA12345" {
				return &usecases.ReferralInfo{ReferralCode: code, ReferrerName: "Ada Obi"}, nil
			}
			return nil, domainerrors.NotFound("referral code not found")
		},
	})
	r := newTestRouter()
	r.POST("/backup-codes", asUser(id, "user"), h.RegenerateBackupCodes)
	r.GET("/referrals/:code", h.LookupReferral)

	rec := doJSON(r, http.MethodPost, "/backup-codes", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Len(t, decodeBody(t, rec)["backupCodes"], 2)

	rec = doJSON(r, http.MethodGet, "/referrals/ADA12345", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada Obi", decodeBody(t, rec)["referral"].(map[string]interface{})["referrerName"])

	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/referrals/NOPE", nil).Code)
}

func TestUserHandler_DisableTwoFactor(t *testing.T) {
	id := uuid.New()
	var gotCode string
	h := NewUserHandler(userServiceStub{
		disableFn: func(_ context.Context, userID uuid.UUID, input *entities.TwoFactorCodeInput) (*entities.UserProfile, error) {
			gotCode = input.Code
			if input.Code != "AAAA111111" {
				return nil, domainerrors.NewValidationError("code", "is not a valid backup code")
			}
			return &entities.UserProfile{User: &entities.User{ID: userID}}, nil
		},
	})
	r := newTestRouter()
	r.POST("/two-factor/disable", asUser(id, "user"), h.DisableTwoFactor)

	rec := doJSON(r, http.MethodPost, "/two-factor/disable", map[string]string{"code": "AAAA111111"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAAA111111", gotCode)
	assert.Equal(t, false, decodeBody(t, rec)["user"].(map[string]interface{})["twoFactorEnabled"])

	rec = doJSON(r, http.MethodPost, "/two-factor/disable", map[string]string{"code": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domainerrors.CodeValidationFailed, decodeBody(t, rec)["code"])
}
