// Package password centralizes credential hashing and the password policy
// shared by registration, password change and password reset.
package password

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/unklab/lostfound-server/internal/model"
)

const bcryptCost = 12

// Hash returns a bcrypt hash of the password.
func Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Check returns nil if password matches hash. Comparison is constant-time.
func Check(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Validate checks the password against the policy: at least 8 characters
// with one uppercase letter, one lowercase letter and one digit. It returns
// a WeakPasswordError naming the first unmet rule.
func Validate(password string) error {
	if len(password) < 8 {
		return &model.WeakPasswordError{Rule: "must be at least 8 characters long"}
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}

	if !hasUpper {
		return &model.WeakPasswordError{Rule: "must contain at least one uppercase letter"}
	}
	if !hasLower {
		return &model.WeakPasswordError{Rule: "must contain at least one lowercase letter"}
	}
	if !hasDigit {
		return &model.WeakPasswordError{Rule: "must contain at least one digit"}
	}

	return nil
}
