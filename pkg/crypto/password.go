package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
	// MinPasswordLength is the shortest password accepted on create or change, in characters
	MinPasswordLength = 8
	// MaxPasswordBytes is the longest input bcrypt will hash
	MaxPasswordBytes = 72
	// PasswordSpecialChars is the symbol set a password must draw at least one character from
	PasswordSpecialChars = "@$!%*?&"
	// ResetTokenBytes is the entropy of a password reset token
	ResetTokenBytes = 32
)

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomRead                 = rand.Read
)

// PasswordViolations lists every complexity rule the password breaks.
// An empty result means the password is acceptable.
func PasswordViolations(password string) []string {
	var violations []string
	if utf8.RuneCountInString(password) < MinPasswordLength {
		violations = append(violations, fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordBytes {
		violations = append(violations, fmt.Sprintf("cannot exceed %d bytes", MaxPasswordBytes))
	}

	// Only ASCII letters and digits count towards the character classes
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			hasSpecial = true
		}
	}

	if !hasLower {
		violations = append(violations, "must contain a lowercase letter")
	}
	if !hasUpper {
		violations = append(violations, "must contain an uppercase letter")
	}
	if !hasDigit {
		violations = append(violations, "must contain a number")
	}
	if !hasSpecial {
		violations = append(violations, "must contain one of "+PasswordSpecialChars)
	}
	return violations
}

// IsStrongPassword reports whether the password satisfies every complexity rule
func IsStrongPassword(password string) bool {
	return len(PasswordViolations(password)) == 0
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, DefaultCost)
}

// HashPasswordWithCost hashes a password using bcrypt with an explicit work factor
func HashPasswordWithCost(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	bytes, err := bcryptGenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password with a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateRandomToken generates a random token of specified length
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// HashToken returns the hex SHA-256 digest stored in place of a raw token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenMatchesHash hashes the submitted token and compares it to the stored digest in constant time
func TokenMatchesHash(token, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	computed := HashToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// GenerateResetToken returns the raw token for out-of-band delivery and the digest to persist
func GenerateResetToken() (raw string, hashed string, err error) {
	raw, err = GenerateRandomToken(ResetTokenBytes)
	if err != nil {
		return "", "", err
	}
	return raw, HashToken(raw), nil
}

// GenerateBackupCodes returns n raw two-factor backup codes (10 hex chars each)
func GenerateBackupCodes(n int) ([]string, error) {
	codes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		code, err := GenerateRandomToken(5)
		if err != nil {
			return nil, err
		}
		codes = append(codes, strings.ToUpper(code))
	}
	return codes, nil
}
