package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rawwealthy.backend/internal/domain/entities"
)

func TestLogNotifier_SendPasswordReset(t *testing.T) {
	n := NewLogNotifier("https://app.rawwealthy.com/reset-password/")
	var gotTo, gotLink string
	n.deliver = func(_ context.Context, to, link string) error {
		gotTo, gotLink = to, link
		return nil
	}

	user := &entities.User{ID: uuid.New(), Email: "ada@example.com"}
	err := n.SendPasswordReset(context.Background(), user, "abc123", time.Now().Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", gotTo)
	assert.Equal(t, "https://app.rawwealthy.com/reset-password/abc123", gotLink)
}

func TestLogNotifier_DeliveryError(t *testing.T) {
	n := NewLogNotifier("https://app.rawwealthy.com/reset-password")
	n.deliver = func(context.Context, string, string) error { return errors.New("smtp down") }

	err := n.SendPasswordReset(context.Background(), &entities.User{ID: uuid.New()}, "abc", time.Now())
	assert.EqualError(t, err, "smtp down")
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "app.rawwealthy.com", hostOf("https://app.rawwealthy.com/reset"))
	assert.Empty(t, hostOf("://bad"))
}
