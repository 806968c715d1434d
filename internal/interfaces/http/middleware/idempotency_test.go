package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rawwealthy.backend/pkg/redis"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv := miniredis.RunT(t)
	cli := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	redis.SetClient(cli)
	t.Cleanup(func() {
		_ = cli.Close()
		redis.SetClient(nil)
	})
	return srv
}

func idempotentRouter(userID uuid.UUID, status *int, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/plans/:id/performance",
		func(c *gin.Context) { c.Set(UserIDKey, userID) },
		IdempotencyMiddleware(time.Hour),
		func(c *gin.Context) {
			*calls++
			c.JSON(*status, gin.H{"call": *calls})
		},
	)
	return r
}

func postWithKey(r http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/plans/p1/performance", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	return serve(r, req)
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	srv := useMiniredis(t)
	status, calls := http.StatusCreated, 0
	r := idempotentRouter(uuid.New(), &status, &calls)

	first := postWithKey(r, "k1")
	require.Equal(t, http.StatusCreated, first.Code)

	second := postWithKey(r, "k1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	// the stored entry expires with the configured retention
	keys := srv.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, time.Hour, srv.TTL(keys[0]))

	postWithKey(r, "k2")
	postWithKey(r, "")
	assert.Equal(t, 3, calls)
}

func TestIdempotency_KeysAreScopedPerUser(t *testing.T) {
	useMiniredis(t)
	status, calls := http.StatusOK, 0
	postWithKey(idempotentRouter(uuid.New(), &status, &calls), "shared")
	postWithKey(idempotentRouter(uuid.New(), &status, &calls), "shared")
	assert.Equal(t, 2, calls)
}

func TestIdempotency_FailedResponseReleasesKey(t *testing.T) {
	srv := useMiniredis(t)
	status, calls := http.StatusBadRequest, 0
	r := idempotentRouter(uuid.New(), &status, &calls)

	assert.Equal(t, http.StatusBadRequest, postWithKey(r, "k1").Code)
	assert.Empty(t, srv.Keys())

	status = http.StatusOK
	assert.Equal(t, http.StatusOK, postWithKey(r, "k1").Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotency_InProgressConflicts(t *testing.T) {
	srv := useMiniredis(t)
	userID := uuid.New()
	status, calls := http.StatusOK, 0
	r := idempotentRouter(userID, &status, &calls)

	require.NoError(t, srv.Set("idempotency:"+userID.String()+":/plans/:id/performance:busy", processingMarker))
	rec := postWithKey(r, "busy")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_IDEMPOTENCY_CONFLICT")
	assert.Zero(t, calls)
}

func TestIdempotency_StoreUnavailablePassesThrough(t *testing.T) {
	orig := redisGet
	redisGet = func(context.Context, string) (string, error) { return "", errors.New("connection refused") }
	t.Cleanup(func() { redisGet = orig })

	status, calls := http.StatusOK, 0
	r := idempotentRouter(uuid.New(), &status, &calls)
	assert.Equal(t, http.StatusOK, postWithKey(r, "k1").Code)
	assert.Equal(t, 1, calls)
}
