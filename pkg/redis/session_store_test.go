package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionKey = "0000000000000000000000000000000000000000000000000000000000000000"

func TestNewSessionStoreValidation(t *testing.T) {
	_, err := NewSessionStore("zz")
	assert.Error(t, err)

	_, err = NewSessionStore("0011")
	assert.Error(t, err)

	store, err := NewSessionStore(testSessionKey)
	assert.NoError(t, err)
	assert.NotNil(t, store)
}

func TestSessionStoreEncryptDecrypt(t *testing.T) {
	store, err := NewSessionStore(testSessionKey)
	require.NoError(t, err)

	enc, err := store.encrypt([]byte(`{"x":1}`))
	require.NoError(t, err)
	assert.NotContains(t, enc, "x")

	dec, err := store.decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(dec))

	_, err = store.decrypt("00")
	assert.Error(t, err)

	_, err = store.decrypt("zz-not-hex")
	assert.Error(t, err)
}

func TestSessionStoreEncryptDecrypt_InvalidKeyMaterial(t *testing.T) {
	store := &SessionStore{encryptionKey: []byte("short-key")}
	_, err := store.encrypt([]byte("x"))
	assert.Error(t, err)

	_, err = store.decrypt("00")
	assert.Error(t, err)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	srv := useMiniredis(t)
	store, err := NewSessionStore(testSessionKey)
	require.NoError(t, err)
	ctx := context.Background()

	data := &SessionData{UserID: "u-1", AccessToken: "a-ok", RefreshToken: "r-ok", DeviceID: "phone"}
	require.NoError(t, store.CreateSession(ctx, "sid-1", data, time.Minute))
	require.NoError(t, store.CreateSession(ctx, "sid-2", &SessionData{UserID: "u-1", AccessToken: "a2"}, time.Minute))
	require.NoError(t, store.CreateSession(ctx, "sid-other", &SessionData{UserID: "u-2", AccessToken: "a3"}, time.Minute))

	raw, err := srv.Get("rw:session:sid-1")
	require.NoError(t, err)
	assert.NotContains(t, raw, "a-ok")

	got, err := store.GetSession(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "a-ok", got.AccessToken)
	assert.Equal(t, "r-ok", got.RefreshToken)
	assert.Equal(t, "phone", got.DeviceID)

	require.NoError(t, store.DeleteSession(ctx, "sid-2"))
	_, err = store.GetSession(ctx, "sid-2")
	assert.True(t, IsNil(err))

	require.NoError(t, store.DeleteUserSessions(ctx, "u-1"))
	_, err = store.GetSession(ctx, "sid-1")
	assert.Error(t, err)
	assert.False(t, srv.Exists("rw:user_sessions:u-1"))

	_, err = store.GetSession(ctx, "sid-other")
	assert.NoError(t, err)

	require.NoError(t, store.ForgetSession(ctx, "u-2", "sid-other"))
	members, err := SMembers(ctx, "rw:user_sessions:u-2")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestSessionStore_GetSessionInvalidJSONPayload(t *testing.T) {
	useMiniredis(t)
	store, err := NewSessionStore(testSessionKey)
	require.NoError(t, err)

	enc, err := store.encrypt([]byte("plain-text"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, Set(ctx, "rw:session:sid-bad-json", enc, time.Minute))

	_, err = store.GetSession(ctx, "sid-bad-json")
	assert.Error(t, err)
}

func TestSessionStore_OperationHooks(t *testing.T) {
	store, err := NewSessionStore(testSessionKey)
	require.NoError(t, err)

	origSet, origGet, origDel := setSessionValue, getSessionValue, delSessionValue
	origIndex, origList := indexSession, listUserSessions
	t.Cleanup(func() {
		setSessionValue, getSessionValue, delSessionValue = origSet, origGet, origDel
		indexSession, listUserSessions = origIndex, origList
	})

	setSessionValue = func(context.Context, string, interface{}, time.Duration) error {
		return errors.New("set failed")
	}
	err = store.CreateSession(context.Background(), "sid", &SessionData{UserID: "u"}, time.Minute)
	assert.Error(t, err)

	setSessionValue = func(context.Context, string, interface{}, time.Duration) error { return nil }
	indexSession = func(context.Context, string, string, time.Duration) error { return errors.New("index failed") }
	err = store.CreateSession(context.Background(), "sid", &SessionData{UserID: "u"}, time.Minute)
	assert.Error(t, err)

	// sessions without an owner skip the index
	err = store.CreateSession(context.Background(), "sid", &SessionData{}, time.Minute)
	assert.NoError(t, err)

	listUserSessions = func(context.Context, string) ([]string, error) { return nil, errors.New("list failed") }
	assert.Error(t, store.DeleteUserSessions(context.Background(), "u"))

	var deleted []string
	listUserSessions = func(context.Context, string) ([]string, error) { return []string{"s1", "s2"}, nil }
	delSessionValue = func(_ context.Context, keys ...string) error {
		deleted = keys
		return nil
	}
	require.NoError(t, store.DeleteUserSessions(context.Background(), "u"))
	assert.Equal(t, []string{"rw:session:s1", "rw:session:s2", "rw:user_sessions:u"}, deleted)
}

func TestSessionStore_CreateSession_MarshalError(t *testing.T) {
	store, err := NewSessionStore(testSessionKey)
	require.NoError(t, err)

	origMarshal := marshalSessionJSON
	t.Cleanup(func() { marshalSessionJSON = origMarshal })
	marshalSessionJSON = func(v interface{}) ([]byte, error) {
		return nil, errors.New("marshal failed")
	}

	err = store.CreateSession(context.Background(), "sid", &SessionData{}, time.Minute)
	assert.Error(t, err)
}
