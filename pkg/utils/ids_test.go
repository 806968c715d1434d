package utils

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDv7(t *testing.T) {
	id := GenerateUUIDv7()
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestGenerateUUIDv7_FallbackBranch(t *testing.T) {
	orig := newUUIDv7
	t.Cleanup(func() { newUUIDv7 = orig })

	newUUIDv7 = func() (uuid.UUID, error) {
		return uuid.Nil, errors.New("v7 failed")
	}
	id := GenerateUUIDv7()
	assert.NotEqual(t, uuid.Nil, id, "expected v4 fallback id when v7 fails")
}

func TestReferralCodeFromID(t *testing.T) {
	id := uuid.MustParse("0190a8c2-7b1e-7c3d-9f00-abcdef123456")
	assert.Equal(t, "EF123456", ReferralCodeFromID(id))
	assert.Len(t, ReferralCodeFromID(uuid.New()), ReferralCodeLength)
}
