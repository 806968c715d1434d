package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rawwealthy.backend/internal/domain/entities"
	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/pkg/jwt"
	"rawwealthy.backend/pkg/redis"
)

type stubVerifier struct {
	user       *entities.User
	freshErr   error
	sessions   map[string]*redis.SessionData
	gotIssued  time.Time
	freshCalls int
}

func (s *stubVerifier) CheckTokenFreshness(_ context.Context, userID uuid.UUID, issuedAt time.Time) (*entities.User, error) {
	s.freshCalls++
	s.gotIssued = issuedAt
	if s.freshErr != nil {
		return nil, s.freshErr
	}
	if s.user == nil || s.user.ID != userID {
		return nil, domainerrors.ErrUnauthorized
	}
	return s.user, nil
}

func (s *stubVerifier) ResolveSession(_ context.Context, sessionID string) (*redis.SessionData, error) {
	if session, ok := s.sessions[sessionID]; ok {
		return session, nil
	}
	return nil, domainerrors.ErrUnauthorized
}

func authFixture(t *testing.T, role entities.UserRole) (*jwt.JWTService, *stubVerifier, string) {
	t.Helper()
	svc := jwt.NewJWTService("middleware-secret", 15*time.Minute, time.Hour)
	user := &entities.User{ID: uuid.New(), Email: "ada@example.com", Role: role}
	pair, err := svc.GenerateTokenPair(user.ID, user.Email, string(entities.UserRoleUser))
	require.NoError(t, err)
	return svc, &stubVerifier{user: user, sessions: map[string]*redis.SessionData{}}, pair.AccessToken
}

func protectedRouter(svc *jwt.JWTService, verifier TokenVerifier, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(svc, verifier)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "role": role, "session": GetSessionID(c)})
	})
	r.GET("/me", handlers...)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware_Bearer(t *testing.T) {
	svc, verifier, token := authFixture(t, entities.UserRoleAdmin)
	r := protectedRouter(svc, verifier)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	rec := serve(r, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, verifier.user.ID.String(), body["id"])
	// role is read from the stored account, not the token claim
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, "", body["session"])
	assert.False(t, verifier.gotIssued.IsZero())
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	svc, verifier, _ := authFixture(t, entities.UserRoleUser)
	r := protectedRouter(svc, verifier)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", BearerPrefix + "not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(AuthorizationHeader, tc.header)
			}
			rec := serve(r, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, domainerrors.CodeUnauthorized, decode(t, rec)["code"])
		})
	}

	refresh, err := svc.GenerateTokenPair(verifier.user.ID, verifier.user.Email, "user")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+refresh.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	assert.Zero(t, verifier.freshCalls)
}

func TestAuthMiddleware_StaleAndSuspended(t *testing.T) {
	svc, verifier, token := authFixture(t, entities.UserRoleUser)
	r := protectedRouter(svc, verifier)

	verifier.freshErr = domainerrors.ErrCredentialsStale
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	verifier.freshErr = domainerrors.ErrAccountSuspended
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}

func TestAuthMiddleware_SessionCookie(t *testing.T) {
	svc, verifier, token := authFixture(t, entities.UserRoleUser)
	verifier.sessions["sess-1"] = &redis.SessionData{UserID: verifier.user.ID.String(), AccessToken: token}
	r := protectedRouter(svc, verifier)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	rec := serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-1", decode(t, rec)["session"])

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "gone"})
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestRequireRole(t *testing.T) {
	svc, verifier, token := authFixture(t, entities.UserRoleModerator)

	staff := protectedRouter(svc, verifier, RequireStaff())
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	assert.Equal(t, http.StatusOK, serve(staff, req).Code)

	admin := protectedRouter(svc, verifier, RequireAdmin())
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	rec := serve(admin, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, domainerrors.CodeForbidden, decode(t, rec)["code"])

	gin.SetMode(gin.TestMode)
	bare := gin.New()
	bare.GET("/x", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(bare, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}
