package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ReferralCodeLength is the length of an auto-derived referral code
const ReferralCodeLength = 8

var newUUIDv7 = uuid.NewV7

// GenerateUUIDv7 generates a new UUID v7
func GenerateUUIDv7() uuid.UUID {
	id, err := newUUIDv7()
	if err != nil {
		// Fallback to v4 if v7 fails (highly unlikely)
		return uuid.New()
	}
	return id
}

// ReferralCodeFromID derives a referral code from the tail of a record identifier
func ReferralCodeFromID(id uuid.UUID) string {
	s := strings.ReplaceAll(id.String(), "-", "")
	return strings.ToUpper(s[len(s)-ReferralCodeLength:])
}
